package detect

import "strings"

// Segment splits text into trimmed, non-empty comma-separated parts.
// A comma used as a thousands separator ("900,000") does not split.
func Segment(text string) []string {
	segments := []string{}
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ',' || isThousandsComma(text, i) {
			continue
		}
		if part := strings.TrimSpace(text[start:i]); part != "" {
			segments = append(segments, part)
		}
		start = i + 1
	}
	if part := strings.TrimSpace(text[start:]); part != "" {
		segments = append(segments, part)
	}
	return segments
}

// isThousandsComma reports whether the comma at i sits between a digit and
// exactly three digits that are not followed by another digit.
func isThousandsComma(text string, i int) bool {
	if i == 0 || i+3 >= len(text) || !isASCIIDigit(text[i-1]) {
		return false
	}
	for j := i + 1; j <= i+3; j++ {
		if !isASCIIDigit(text[j]) {
			return false
		}
	}
	return i+4 == len(text) || !isASCIIDigit(text[i+4])
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
