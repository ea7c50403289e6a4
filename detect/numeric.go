package detect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/tagit/core"
)

// Confidences of the numeric disambiguation rules.
const (
	largeBudgetConfidence   = 0.9
	shortBudgetConfidence   = 0.85
	departementConfidence   = 1.0
	fallbackParisConfidence = 0.7
	roomCountConfidence     = 0.9
	literalBudgetConfidence = 1.0
)

// literalBudgets are exact segments with a known intended budget.
var literalBudgets = map[string]float64{
	"900":     900_000,
	"900k":    900_000,
	"900000":  900_000,
	"900,000": 900_000,
	"800k":    800_000,
}

// disambiguate interprets a segment that is only a number by magnitude band,
// and recognises the literal budget shorthands.
func disambiguate(segment string, cfg *Config) []candidate {
	var found []candidate

	if isNumericSegment(segment) {
		if n, err := strconv.ParseInt(strings.ReplaceAll(segment, ",", ""), 10, 64); err == nil {
			if c, ok := numberBand(n, cfg); ok {
				found = append(found, c)
			}
		}
	}

	if amount, ok := literalBudgets[strings.ToLower(segment)]; ok {
		found = append(found, candidate{
			category:   core.CategoryBudget,
			label:      thousandsLabel(amount),
			value:      core.NumberValue(amount),
			confidence: literalBudgetConfidence,
		})
	}
	return found
}

// numberBand maps a bare number to the criterion its magnitude suggests.
func numberBand(n int64, cfg *Config) (candidate, bool) {
	switch {
	case n >= 100_000:
		label := thousandsLabel(float64(n))
		if n >= 1_000_000 {
			label = fmt.Sprintf("€%.1fm", math.Round(float64(n)/100_000)/10)
		}
		return candidate{
			category:   core.CategoryBudget,
			label:      label,
			value:      core.NumberValue(float64(n)),
			confidence: largeBudgetConfidence,
		}, true

	case n >= 900 && n <= 999:
		return candidate{
			category:   core.CategoryBudget,
			label:      fmt.Sprintf("€%dk", n),
			value:      core.NumberValue(float64(n) * 1_000),
			confidence: shortBudgetConfidence,
		}, true

	case n >= 75 && n <= 95:
		if name, ok := departementName(int(n), cfg); ok {
			return candidate{
				category:   core.CategoryLocation,
				label:      name,
				value:      core.TextValue(name),
				confidence: departementConfidence,
			}, true
		}
		return candidate{
			category:   core.CategoryLocation,
			label:      "Paris",
			value:      core.TextValue("Paris"),
			confidence: fallbackParisConfidence,
		}, true

	case n >= 1 && n <= 10:
		label, value := roomsLabel(int(n))
		return candidate{
			category:   core.CategoryRooms,
			label:      label,
			value:      value,
			confidence: roomCountConfidence,
		}, true
	}
	return candidate{}, false
}

func thousandsLabel(amount float64) string {
	return fmt.Sprintf("€%dk", int64(math.Round(amount/1_000)))
}
