package detect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// builtinMisspellings are common typos seen in chat input, in application order.
var builtinMisspellings = []struct{ from, to string }{
	// room nouns
	{"pies", "pièces"},
	{"piece", "pièces"},
	{"pieces", "pièces"},
	{"piees", "pièces"},
	{"pece", "pièces"},
	{"pces", "pièces"},
	{"chambr", "chambres"},
	{"chambes", "chambres"},
	{"chmbres", "chambres"},
	// cities
	{"pari", "Paris"},
	{"pris", "Paris"},
	{"pariz", "Paris"},
	{"lyon", "Lyon"},
	{"marseil", "Marseille"},
	{"marsey", "Marseille"},
	{"bordeau", "Bordeaux"},
	{"bordeu", "Bordeaux"},
	// budget shorthand
	{"800", "800k"},
	{"800e", "800k€"},
	{"800eu", "800k€"},
	{"800eur", "800k€"},
}

// roomVocabulary is the set a word following a number is snapped to.
// Order matters: on equal distance the earlier entry wins.
var roomVocabulary = []string{"pieces", "pièces", "chambres", "rooms", "bedrooms"}

// Corrector rewrites misspelled words before matching.
// It is immutable after construction and safe for concurrent use.
type Corrector struct {
	table map[string]string
}

// NewCorrector builds a corrector from the built-in table plus extra substitutions.
// Extra entries override built-in ones with the same key.
func NewCorrector(extra map[string]string) *Corrector {
	raw := make(map[string]string, len(builtinMisspellings)+len(extra))
	for _, m := range builtinMisspellings {
		raw[strings.ToLower(m.from)] = m.to
	}
	for from, to := range extra {
		raw[strings.ToLower(from)] = to
	}

	// Resolve chains so a replacement is never itself a key. This keeps Correct idempotent.
	table := make(map[string]string, len(raw))
	for from, to := range raw {
		seen := map[string]bool{from: true}
		for {
			next, ok := raw[strings.ToLower(to)]
			if !ok || seen[strings.ToLower(to)] {
				break
			}
			seen[strings.ToLower(to)] = true
			to = next
		}
		table[from] = to
	}
	return &Corrector{table: table}
}

var defaultCorrector = NewCorrector(nil)

// Correct applies the built-in corrections to text.
func Correct(text string) string {
	return defaultCorrector.Correct(text)
}

// Correct replaces known misspellings and snaps nouns following a number
// onto the room vocabulary.
func (c *Corrector) Correct(text string) string {
	if text == "" {
		return text
	}
	tokens := tokenize(text)

	for i := range tokens {
		if !tokens[i].word {
			continue
		}
		to, ok := c.table[strings.ToLower(tokens[i].text)]
		if !ok || (isDigits(tokens[i].text) && partOfAmount(tokens, i)) {
			continue
		}
		tokens[i].text = to
	}

	for i := 0; i+2 < len(tokens); i++ {
		num, sep, word := tokens[i], tokens[i+1], tokens[i+2]
		if !num.word || !isDigits(num.text) || sep.word || !isSpaces(sep.text) || !word.word {
			continue
		}
		if !isLetters(word.text) || utf8.RuneCountInString(word.text) < 2 {
			continue
		}
		if closest, ok := c.closestRoomNoun(word.text); ok {
			tokens[i+2].text = closest
		}
	}

	return joinTokens(tokens)
}

// closestRoomNoun returns the vocabulary entry nearest to word when it is
// within min(2, len/3) edits and differs from word.
func (c *Corrector) closestRoomNoun(word string) (string, bool) {
	lower := strings.ToLower(word)
	maxDist := min(2, utf8.RuneCountInString(word)/3)

	best := ""
	bestDist := maxDist + 1
	for _, candidate := range roomVocabulary {
		d := matchr.Levenshtein(lower, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	if best == "" || bestDist == 0 {
		return "", false
	}
	// The vocabulary contains forms the table rewrites; emit the final form.
	if to, ok := c.table[best]; ok {
		best = to
	}
	return best, true
}

// amountUnits are spelled multipliers that complete a preceding number.
var amountUnits = map[string]bool{"mille": true, "million": true, "millions": true}

// partOfAmount reports whether the number token at i is one group of a
// separated thousands number or carries a spelled multiplier. Shorthand
// rewrites would change the magnitude of such numbers.
func partOfAmount(tokens []token, i int) bool {
	if i >= 2 && isGroupSeparator(tokens[i-1].text) && isDigits(tokens[i-2].text) {
		return true
	}
	if i+2 >= len(tokens) {
		return false
	}
	sep, next := tokens[i+1].text, tokens[i+2].text
	if isGroupSeparator(sep) && len(next) == 3 && isDigits(next) {
		return true
	}
	return isSpaces(sep) && amountUnits[strings.ToLower(next)]
}

func isGroupSeparator(s string) bool {
	switch s {
	case " ", "\u00a0", "\u202f", ",", ".":
		return true
	}
	return false
}

func isSpaces(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
