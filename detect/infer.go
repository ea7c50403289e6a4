package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/tagit/core"
)

// inferredParisConfidence is the confidence of the Paris tag added for a lone arrondissement.
const inferredParisConfidence = 0.95

var (
	arrondissementHintRe  = regexp.MustCompile(`(?i)\d+(?:ème|eme|er|e|th|st|nd|rd)`)
	arrondissementLabelRe = regexp.MustCompile(`(?i)^(\d+)(?:ème|eme|er|e|th|st|nd|rd)$`)
)

// ArrondissementNumber returns the district number of a label such as "16e",
// "1er" or "11th".
func ArrondissementNumber(label string) (int, bool) {
	m := arrondissementLabelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 20 {
		return 0, false
	}
	return n, true
}

// needsParis reports whether the tags name an arrondissement but not the city.
func needsParis(tags []core.Tag) bool {
	hasArrondissement := false
	for _, t := range tags {
		if t.Category != core.CategoryLocation {
			continue
		}
		if strings.Contains(strings.ToLower(t.Label), "paris") {
			return false
		}
		if arrondissementHintRe.MatchString(t.Label) {
			hasArrondissement = true
		}
	}
	return hasArrondissement
}

// inferredParis is the candidate added by the inference rule.
func inferredParis() candidate {
	return candidate{
		category:   core.CategoryLocation,
		label:      "Paris",
		value:      core.TextValue("Paris"),
		confidence: inferredParisConfidence,
	}
}
