package detect

import (
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/tagit/core"
)

// Similar reports whether two tags describe the same criterion.
//
// Rules by category:
//   - rooms: both labels carry an integer and the integers are equal
//   - budget: labels are equal once reduced to lowercase letters and digits
//   - location: labels are equal or one contains the other, ignoring case
//   - otherwise: labels are equal ignoring case
func Similar(a, b core.Tag) bool {
	if a.Category != b.Category {
		return false
	}
	switch a.Category {
	case core.CategoryRooms:
		na, okA := firstInt(a.Label)
		nb, okB := firstInt(b.Label)
		return okA && okB && na == nb
	case core.CategoryBudget:
		return alnumLower(a.Label) == alnumLower(b.Label)
	case core.CategoryLocation:
		la, lb := strings.ToLower(a.Label), strings.ToLower(b.Label)
		return la == lb || strings.Contains(la, lb) || strings.Contains(lb, la)
	default:
		return strings.EqualFold(a.Label, b.Label)
	}
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dedupe collapses similar tags, keeping the most confident of each group.
// Equal confidences keep the earlier tag. The survivor does not depend on
// which rule family produced a tag first.
//
// Output groups tags by category in order of first appearance; within a
// category tags keep their input order.
func Dedupe(tags []core.Tag) []core.Tag {
	if len(tags) == 0 {
		return []core.Tag{}
	}

	order := make([]int, len(tags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return tags[order[i]].Confidence > tags[order[j]].Confidence
	})

	keep := make([]bool, len(tags))
	var survivors []int
	for _, idx := range order {
		duplicate := false
		for _, s := range survivors {
			if Similar(tags[s], tags[idx]) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			survivors = append(survivors, idx)
			keep[idx] = true
		}
	}

	var categories []core.Category
	seen := make(map[core.Category]bool)
	for _, t := range tags {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}

	result := make([]core.Tag, 0, len(survivors))
	for _, category := range categories {
		for i, t := range tags {
			if keep[i] && t.Category == category {
				result = append(result, t)
			}
		}
	}
	return result
}
