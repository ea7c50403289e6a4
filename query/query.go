package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/tagit/core"
)

// Default paging of a built query.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// defaultPriceSpread widens a lone target price into a range.
const defaultPriceSpread = 1.2

// SearchParams are the listing-search filters derived from a tag set.
type SearchParams struct {
	Locations []string `json:"locations,omitempty"`
	PriceMin  int64    `json:"priceMin,omitempty"`
	PriceMax  int64    `json:"priceMax,omitempty"`
	Bedrooms  []int    `json:"bedrooms,omitempty"`
	Features  []string `json:"features,omitempty"`
	Page      int      `json:"page"`
	Limit     int      `json:"limit"`
}

var (
	amountRe = regexp.MustCompile(`(?i)(\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+|\d+(?:[.,]\d+)?)\s*(millions?|mille|m|k)?`)
	capRe    = regexp.MustCompile(`(?i)max|under|moins|jusqu`)
	rangeRe  = regexp.MustCompile(`(?i)entre|between|from`)
	intRe    = regexp.MustCompile(`\d+`)

	groupSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")
)

// Build converts the active tags into search parameters. Inactive tags are ignored.
func Build(tags []core.Tag) SearchParams {
	params := SearchParams{Page: DefaultPage, Limit: DefaultLimit}

	var (
		caps    []float64
		targets []float64
	)
	for _, tag := range tags {
		if !tag.Active {
			continue
		}
		switch tag.Category {
		case core.CategoryLocation:
			params.Locations = append(params.Locations, locationName(tag))

		case core.CategoryBudget:
			amounts := budgetAmounts(tag)
			switch {
			case len(amounts) == 0:
				continue
			case len(amounts) >= 2 && (tag.Value.Kind == core.ValueList || rangeRe.MatchString(tag.Label)):
				targets = append(targets, math.Min(amounts[0], amounts[1]))
				caps = append(caps, math.Max(amounts[0], amounts[1]))
			case capRe.MatchString(tag.Label):
				caps = append(caps, amounts[0])
			default:
				targets = append(targets, amounts[0])
			}

		case core.CategoryRooms:
			if n, ok := roomCount(tag); ok {
				params.Bedrooms = append(params.Bedrooms, n)
			}

		default:
			params.Features = append(params.Features, strings.ToLower(tag.Label))
		}
	}

	if len(caps) > 0 {
		params.PriceMax = int64(math.Round(minOf(caps)))
	}
	if len(targets) > 0 {
		params.PriceMin = int64(math.Round(minOf(targets)))
		if params.PriceMax == 0 {
			params.PriceMax = int64(math.Round(float64(params.PriceMin) * defaultPriceSpread))
		}
	}
	return params
}

// HasMinimumCriteria reports whether the active tags cover location, budget and rooms.
func HasMinimumCriteria(tags []core.Tag) bool {
	var location, budget, rooms bool
	for _, tag := range tags {
		if !tag.Active {
			continue
		}
		switch tag.Category {
		case core.CategoryLocation:
			location = true
		case core.CategoryBudget:
			budget = true
		case core.CategoryRooms:
			rooms = true
		}
	}
	return location && budget && rooms
}

func locationName(tag core.Tag) string {
	if tag.Value.Kind == core.ValueText && tag.Value.Text != "" {
		return tag.Value.Text
	}
	return tag.Label
}

// budgetAmounts returns the euro amounts a budget tag carries, preferring its value.
func budgetAmounts(tag core.Tag) []float64 {
	switch tag.Value.Kind {
	case core.ValueNumber:
		if tag.Value.Number > 0 {
			return []float64{tag.Value.Number}
		}
	case core.ValueList:
		var amounts []float64
		for _, item := range tag.Value.List {
			if n, err := strconv.ParseFloat(item, 64); err == nil && n > 0 {
				amounts = append(amounts, n)
			}
		}
		if len(amounts) > 0 {
			return amounts
		}
	}
	return parseAmounts(tag.Label)
}

// parseAmounts reads every amount in a label, honouring k and m suffixes.
func parseAmounts(label string) []float64 {
	var amounts []float64
	for _, m := range amountRe.FindAllStringSubmatch(label, -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(groupSeparators.Replace(m[1]), ",", "."), 64)
		if err != nil || n <= 0 {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "k", "mille":
			n *= 1_000
		case "m", "million", "millions":
			n *= 1_000_000
		}
		amounts = append(amounts, n)
	}
	return amounts
}

func roomCount(tag core.Tag) (int, bool) {
	if tag.Value.Kind == core.ValueNumber && tag.Value.Number >= 1 {
		return int(tag.Value.Number), true
	}
	m := intRe.FindString(tag.Label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func minOf(values []float64) float64 {
	result := values[0]
	for _, v := range values[1:] {
		result = math.Min(result, v)
	}
	return result
}
