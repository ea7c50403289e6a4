package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/tagit/core"
)

// candidate is a pattern hit before it becomes a tag.
type candidate struct {
	category   core.Category
	label      string
	value      core.Value
	confidence float64
}

// pattern recognises one form of criterion inside a segment.
type pattern struct {
	name     string
	category core.Category
	re       *regexp.Regexp

	// folded patterns run against the accent-folded, lowercased segment.
	folded bool

	// fallback patterns run after the others of their category, in order, and
	// are dropped when their span overlaps one already claimed.
	fallback bool

	// skip vetoes the pattern for a whole segment.
	skip func(segment string) bool

	// confidence overrides the per-category default when non-zero.
	confidence float64

	// build turns the submatches into a label and value.
	// Submatch 1 is the whole match; inner groups follow.
	build func(m []string, cfg *Config) (string, core.Value, bool)
}

// vocabEntry is a canonical term and the surface forms that spell it.
type vocabEntry struct {
	canonical string
	forms     []string
}

func terms(names ...string) []vocabEntry {
	entries := make([]vocabEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, vocabEntry{canonical: name})
	}
	return entries
}

// vocabPattern matches any of the entries regardless of case or accents and
// labels the hit with its canonical spelling.
func vocabPattern(name string, category core.Category, entries []vocabEntry) pattern {
	lookup := make(map[string]string)
	var alternatives []string
	for _, e := range entries {
		for _, form := range append([]string{e.canonical}, e.forms...) {
			key := fold(form)
			if _, ok := lookup[key]; ok {
				continue
			}
			lookup[key] = e.canonical
			alternatives = append(alternatives, regexp.QuoteMeta(key))
		}
	}
	// Longest first so "la garenne-colombes" wins over "colombes" at the same offset.
	sort.SliceStable(alternatives, func(i, j int) bool {
		return len(alternatives[i]) > len(alternatives[j])
	})

	return pattern{
		name:     name,
		category: category,
		re:       wordRegexp(strings.Join(alternatives, "|")),
		folded:   true,
		build: func(m []string, _ *Config) (string, core.Value, bool) {
			canonical, ok := lookup[m[1]]
			if !ok {
				return "", core.Value{}, false
			}
			label := capitalize(canonical)
			return label, core.TextValue(label), true
		},
	}
}

// match runs the pattern over a segment and returns the submatches and the
// byte span of the whole match within the searched text.
func (p *pattern) match(segment, folded string) ([]string, []int) {
	text := segment
	if p.folded {
		text = folded
	}
	idx := p.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return nil, nil
	}
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return m, idx[2:4]
}

// Location

const idfDepartements = `75|77|78|91|92|93|94|95`

var departementNames = map[int]string{
	75: "Paris",
	77: "Seine-et-Marne",
	78: "Yvelines",
	91: "Essonne",
	92: "Hauts-de-Seine",
	93: "Seine-Saint-Denis",
	94: "Val-de-Marne",
	95: "Paris",
}

// departementName resolves an Île-de-France département number.
func departementName(code int, cfg *Config) (string, bool) {
	if code == 95 && cfg != nil && cfg.FixValdOise {
		return "Val-d'Oise", true
	}
	name, ok := departementNames[code]
	return name, ok
}

// arrondissement numbers run from 1 to 20.
const arrondissementNumber = `20|1[0-9]|[1-9]`

var locationPatterns = []pattern{
	vocabPattern("city", core.CategoryLocation, terms(
		"Paris", "Lyon", "Marseille", "Bordeaux", "Toulouse",
		"Nice", "Nantes", "Lille", "Strasbourg", "Montpellier",
	)),
	{
		name:     "arrondissement",
		category: core.CategoryLocation,
		re:       wordRegexp(`(?:` + arrondissementNumber + `)(?:ème|eme|er|e|th)`),
		build: func(m []string, _ *Config) (string, core.Value, bool) {
			label := strings.ToLower(m[1])
			return label, core.TextValue(label), true
		},
	},
	{
		name:     "arrondissement-spelled",
		category: core.CategoryLocation,
		re:       wordRegexp(`(` + arrondissementNumber + `)(st|nd|rd|th|ème|eme|er|e)?\s+arrondissement`),
		build: func(m []string, _ *Config) (string, core.Value, bool) {
			suffix := strings.ToLower(m[3])
			if suffix == "" {
				suffix = "e"
			}
			label := m[2] + suffix
			return label, core.TextValue(label), true
		},
	},
	{
		name:     "postal-code-idf",
		category: core.CategoryLocation,
		re:       wordRegexp(`(?:` + idfDepartements + `)\d{3}`),
		build:    textLabel,
	},
	{
		name:     "departement",
		category: core.CategoryLocation,
		re:       wordRegexp(idfDepartements),
		build: func(m []string, cfg *Config) (string, core.Value, bool) {
			code, _ := strconv.Atoi(m[1])
			name, ok := departementName(code, cfg)
			if !ok {
				return "", core.Value{}, false
			}
			return name, core.TextValue(name), true
		},
	},
	{
		name:     "postal-code",
		category: core.CategoryLocation,
		re:       wordRegexp(`\d{5}`),
		build:    textLabel,
	},
	vocabPattern("neighborhood", core.CategoryLocation, terms(
		"Marais", "Montmartre", "Bastille", "Belleville", "La Défense",
		"Saint-Germain", "Montparnasse", "Champs-Élysées", "Quartier Latin",
	)),
	vocabPattern("area", core.CategoryLocation, []vocabEntry{
		{canonical: "centre-ville", forms: []string{"centre ville"}},
		{canonical: "downtown"},
		{canonical: "suburbs"},
		{canonical: "banlieue"},
		{canonical: "quartier"},
	}),
	vocabPattern("suburb", core.CategoryLocation, terms(
		"Neuilly", "Levallois", "Boulogne", "Issy", "Vincennes", "Saint-Denis",
		"La Garenne-Colombes", "Colombes", "Courbevoie", "Puteaux", "Nanterre",
	)),
}

func textLabel(m []string, _ *Config) (string, core.Value, bool) {
	return m[1], core.TextValue(m[1]), true
}

// Budget

var (
	numericSegmentRe = regexp.MustCompile(`^(?:\d+|\d{1,3}(?:,\d{3})+)$`)
	bareNumberRe     = regexp.MustCompile(`^\d+k?$`)
	amountRe         = regexp.MustCompile(`(?i)(` + groupedDigits + `|` + plainDigits + `)\s*(million|mille|hundred|cent|m|k)?`)
	groupedDigitsRe  = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	whitespaceRe     = regexp.MustCompile(`[\s\x{00A0}\x{202F}]+`)
	groupSepReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")
)

// isNumericSegment reports whether a segment is nothing but a number,
// optionally with thousands separators.
func isNumericSegment(segment string) bool {
	return numericSegmentRe.MatchString(segment)
}

// parseAmount reads the first amount in s, applying k/m/mille/million multipliers.
func parseAmount(s string) (float64, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return amountFromParts(m[1], m[2])
}

// parseAmounts reads every amount in s.
func parseAmounts(s string) []float64 {
	var amounts []float64
	for _, m := range amountRe.FindAllStringSubmatch(s, -1) {
		if n, ok := amountFromParts(m[1], m[2]); ok {
			amounts = append(amounts, n)
		}
	}
	return amounts
}

func amountFromParts(number, unit string) (float64, bool) {
	number = groupSepReplacer.Replace(number)
	switch {
	case groupedDigitsRe.MatchString(number):
		number = strings.ReplaceAll(number, ",", "")
	case strings.Count(number, ".") > 1:
		number = strings.ReplaceAll(number, ".", "")
	default:
		number = strings.ReplaceAll(number, ",", ".")
	}
	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(unit) {
	case "million", "m":
		n *= 1_000_000
	case "mille", "k":
		n *= 1_000
	case "hundred", "cent":
		n *= 100
	}
	return n, true
}

// budgetLabel normalises a budget match: textual forms keep single spaces and
// are capitalised, numeric forms lose their whitespace and bare numbers get
// a euro sign.
func budgetLabel(match string) string {
	match = strings.TrimSpace(match)
	if r := []rune(match); len(r) > 0 && isLetters(string(r[0])) {
		return capitalize(whitespaceRe.ReplaceAllString(match, " "))
	}
	label := whitespaceRe.ReplaceAllString(match, "")
	if bareNumberRe.MatchString(label) {
		label = "€" + label
	}
	return label
}

func budgetAmount(m []string, _ *Config) (string, core.Value, bool) {
	label := budgetLabel(m[1])
	if n, ok := parseAmount(label); ok {
		return label, core.NumberValue(n), true
	}
	return label, core.TextValue(label), true
}

func budgetRange(m []string, _ *Config) (string, core.Value, bool) {
	label := budgetLabel(m[1])
	amounts := parseAmounts(label)
	if len(amounts) != 2 {
		return label, core.TextValue(label), true
	}
	return label, core.ListValue(formatAmount(amounts[0]), formatAmount(amounts[1])), true
}

func formatAmount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Amount fragments shared by the budget patterns. Grouped digits use a space,
// no-break space or narrow no-break space as the thousands separator and
// never take a unit, so "16 750k€" is not read as one number.
const (
	groupSep      = `[ \x{00A0}\x{202F}]`
	groupedDigits = `\d{1,3}(?:` + groupSep + `\d{3})+`
	plainDigits   = `\d+(?:[.,]\d+)*`
	amountUnit    = `\s?(?:millions?|mille)|[km]`
	currency      = `\s?(?:€|euros?)`

	amount = `(?:` + groupedDigits + `(?:` + currency + `)?` +
		`|` + plainDigits + `(?:` + amountUnit + `)?(?:` + currency + `)?)`
)

// budgetPatterns lists the range first; every single-amount pattern is a
// fallback so a span claimed by a range or an earlier amount is not read twice.
var budgetPatterns = []pattern{
	{
		name:     "range",
		category: core.CategoryBudget,
		re: wordRegexp(
			`(?:entre|between)\s+` + amount + `\s+(?:et|and)\s+` + amount +
				`|from\s+` + amount + `\s+to\s+` + amount),
		build: budgetRange,
	},
	{
		name:     "amount-qualified",
		category: core.CategoryBudget,
		re:       wordRegexp(`(?:under|moins de|maximum|max|jusqu['’]à|dans les)\s?` + amount),
		fallback: true,
		build:    budgetAmount,
	},
	{
		name:     "amount-currency",
		category: core.CategoryBudget,
		re: wordRegexp(
			`€\s?(?:` + groupedDigits + `|` + plainDigits + `(?:` + amountUnit + `)?)` +
				`|(?:` + groupedDigits + `|` + plainDigits + `(?:` + amountUnit + `)?)` + currency),
		fallback: true,
		build:    budgetAmount,
	},
	{
		name:     "amount-unit",
		category: core.CategoryBudget,
		re:       wordRegexp(plainDigits + `(?:\s?(?:millions?|mille)|k)`),
		fallback: true,
		build:    budgetAmount,
	},
	{
		name:     "amount-bare",
		category: core.CategoryBudget,
		re:       wordRegexp(groupedDigits + `|\d{3,}`),
		fallback: true,
		skip:     isNumericSegment,
		build: func(m []string, cfg *Config) (string, core.Value, bool) {
			// Five digit numbers are postal codes.
			if len(m[1]) == 5 && isDigits(m[1]) {
				return "", core.Value{}, false
			}
			return budgetAmount(m, cfg)
		},
	},
	vocabPattern("descriptor", core.CategoryBudget, terms(
		"bon marché", "pas cher", "luxe", "haut de gamme",
		"milieu de gamme", "budget serré", "budget limité",
	)),
}

// Rooms

const roomNoun = `bedrooms?|chambres?|pièces?|pieces?|rooms?`

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"un": 1, "une": 1, "deux": 2, "trois": 3, "quatre": 4, "cinq": 5,
}

func roomsLabel(n int) (string, core.Value) {
	return fmt.Sprintf("%d pièces", n), core.NumberValue(float64(n))
}

func roomsFromNumber(m []string, _ *Config) (string, core.Value, bool) {
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return "", core.Value{}, false
	}
	label, value := roomsLabel(n)
	return label, value, true
}

var roomPatterns = []pattern{
	{
		name:     "count-noun",
		category: core.CategoryRooms,
		re:       wordRegexp(`(\d+)\s*(?:` + roomNoun + `|p)`),
		build:    roomsFromNumber,
	},
	{
		name:     "count-misspelled-noun",
		category: core.CategoryRooms,
		re:       wordRegexp(`(\d+)[\s-]?(?:pie?ces?|pièc?e?s?|piec?s?|pee?s?|pies?|pis|pecs?|pcs)`),
		build:    roomsFromNumber,
	},
	{
		name:     "studio-or-type",
		category: core.CategoryRooms,
		re:       wordRegexp(`studio|[tf]([1-9])`),
		build: func(m []string, _ *Config) (string, core.Value, bool) {
			if m[2] == "" {
				label, value := roomsLabel(1)
				return label, value, true
			}
			n, _ := strconv.Atoi(m[2])
			label, value := roomsLabel(n)
			return label, value, true
		},
	},
	{
		name:     "spelled-count",
		category: core.CategoryRooms,
		re:       wordRegexp(`(one|two|three|four|five|six|une|un|deux|trois|quatre|cinq)\s+(?:` + roomNoun + `)`),
		build: func(m []string, _ *Config) (string, core.Value, bool) {
			n, ok := spelledNumbers[strings.ToLower(m[2])]
			if !ok {
				return "", core.Value{}, false
			}
			label, value := roomsLabel(n)
			return label, value, true
		},
	},
}

// Features

var featurePatterns = []pattern{
	vocabPattern("amenity", core.CategoryFeatures, terms(
		"balcony", "balcon", "terrace", "terrasse", "garden", "jardin",
		"parking", "garage", "elevator", "ascenseur", "lift", "pool", "piscine",
	)),
	vocabPattern("condition", core.CategoryFeatures, terms(
		"modern", "moderne", "renovated", "rénové", "refait", "neuf", "nouveau",
		"quiet", "calme", "bright", "lumineux", "spacious", "spacieux",
	)),
	vocabPattern("fittings", core.CategoryFeatures, terms(
		"cave", "storage", "rangement", "cuisine équipée", "american kitchen",
		"cuisine américaine", "fitted kitchen", "parquet", "hardwood", "fireplace", "cheminée",
	)),
	vocabPattern("energy", core.CategoryFeatures, terms(
		"basse consommation", "energy efficient", "DPE", "classe énergie",
		"double vitrage", "double glazing",
	)),
}

// rules holds the ordered pattern lists of a detector.
type rules struct {
	byCategory [][]pattern
}

func newRules(cfg *Config) *rules {
	features := featurePatterns
	if len(cfg.ExtraFeatures) > 0 {
		features = append(append([]pattern{}, featurePatterns...),
			vocabPattern("extra", core.CategoryFeatures, terms(cfg.ExtraFeatures...)))
	}
	return &rules{byCategory: [][]pattern{
		locationPatterns,
		budgetPatterns,
		roomPatterns,
		features,
	}}
}

// categoryConfidence returns the configured confidence for pattern tags of a category.
func categoryConfidence(category core.Category, cfg *Config) float64 {
	switch category {
	case core.CategoryLocation:
		return cfg.LocationConfidence
	case core.CategoryBudget:
		return cfg.BudgetConfidence
	case core.CategoryRooms:
		return cfg.RoomsConfidence
	default:
		return cfg.FeatureConfidence
	}
}

// matchSegment runs every pattern over one segment. Each pattern yields at
// most one candidate.
func (r *rules) matchSegment(segment string, cfg *Config) []candidate {
	folded := fold(segment)
	var found []candidate

	for _, patterns := range r.byCategory {
		hits := make([]*candidate, len(patterns))
		var claimed [][]int

		run := func(i int) {
			p := &patterns[i]
			if p.skip != nil && p.skip(segment) {
				return
			}
			m, span := p.match(segment, folded)
			if m == nil {
				return
			}
			if p.fallback && overlapsAny(span, claimed) {
				return
			}
			label, value, ok := p.build(m, cfg)
			if !ok || strings.TrimSpace(label) == "" {
				return
			}
			if !p.folded {
				claimed = append(claimed, span)
			}
			confidence := p.confidence
			if confidence == 0 {
				confidence = categoryConfidence(p.category, cfg)
			}
			hits[i] = &candidate{
				category:   p.category,
				label:      label,
				value:      value,
				confidence: confidence,
			}
		}

		for i := range patterns {
			if !patterns[i].fallback {
				run(i)
			}
		}
		for i := range patterns {
			if patterns[i].fallback {
				run(i)
			}
		}
		for _, hit := range hits {
			if hit != nil {
				found = append(found, *hit)
			}
		}
	}
	return found
}

func overlapsAny(span []int, claimed [][]int) bool {
	for _, c := range claimed {
		if span[0] < c[1] && c[0] < span[1] {
			return true
		}
	}
	return false
}
