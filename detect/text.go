package detect

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Word boundaries that treat accented letters as word characters.
// RE2's \b is ASCII-only, so "rénové" would never end on a boundary.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{N}_]|$)`
)

// wordRegexp compiles body as a case-insensitive whole-word pattern.
// Submatch 1 is the whole body; groups inside body start at 2.
func wordRegexp(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + wordStart + `(` + body + `)` + wordEnd)
}

// fold lowercases s and strips combining marks so "Élysées" and "elysees" compare equal.
// A fresh transformer is built per call since transform chains carry state.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var firstIntRe = regexp.MustCompile(`\d+`)

// firstInt extracts the first run of digits in s.
func firstInt(s string) (int, bool) {
	m := firstIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// token is a maximal run of word or non-word runes.
type token struct {
	text string
	word bool
}

// tokenize splits s into alternating word and separator runs.
// Joining the texts of the result reproduces s exactly.
func tokenize(s string) []token {
	var tokens []token
	start := 0
	inWord := false
	for i, r := range s {
		w := isWordRune(r)
		if i == 0 {
			inWord = w
			continue
		}
		if w != inWord {
			tokens = append(tokens, token{text: s[start:i], word: inWord})
			start = i
			inWord = w
		}
	}
	if start < len(s) {
		tokens = append(tokens, token{text: s[start:], word: inWord})
	}
	return tokens
}

func joinTokens(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.text)
	}
	return b.String()
}
