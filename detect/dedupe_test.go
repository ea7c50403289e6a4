package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tagit/core"
)

func tag(category core.Category, label string, confidence float64) core.Tag {
	return core.Tag{
		ID:         category.String() + "-" + label,
		Label:      label,
		Kind:       category.DefaultKind(),
		Category:   category,
		Value:      core.TextValue(label),
		Confidence: confidence,
		Active:     true,
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b core.Tag
		want bool
	}{
		{"rooms same count", tag(core.CategoryRooms, "3 pièces", 0.9), tag(core.CategoryRooms, "3 rooms", 0.9), true},
		{"rooms different count", tag(core.CategoryRooms, "3 pièces", 0.9), tag(core.CategoryRooms, "4 pièces", 0.9), false},
		{"rooms without integers", tag(core.CategoryRooms, "Studio", 0.9), tag(core.CategoryRooms, "Studio", 0.9), false},
		{"budget ignores symbols", tag(core.CategoryBudget, "€900k", 0.85), tag(core.CategoryBudget, "900k€", 1), true},
		{"budget different amounts", tag(core.CategoryBudget, "€900k", 0.85), tag(core.CategoryBudget, "€800k", 1), false},
		{"location equal ignoring case", tag(core.CategoryLocation, "paris", 0.9), tag(core.CategoryLocation, "Paris", 0.9), true},
		{"location substring", tag(core.CategoryLocation, "Paris", 0.9), tag(core.CategoryLocation, "Paris 16", 0.9), true},
		{"location unrelated", tag(core.CategoryLocation, "Lyon", 0.9), tag(core.CategoryLocation, "Paris", 0.9), false},
		{"features equal ignoring case", tag(core.CategoryFeatures, "Balcon", 0.8), tag(core.CategoryFeatures, "balcon", 0.8), true},
		{"features different", tag(core.CategoryFeatures, "Balcon", 0.8), tag(core.CategoryFeatures, "Balcony", 0.8), false},
		{"different categories", tag(core.CategoryLocation, "Paris", 0.9), tag(core.CategoryFeatures, "Paris", 0.9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similar(tt.a, tt.b))
			assert.Equal(t, tt.want, Similar(tt.b, tt.a), "similarity is symmetric")
		})
	}
}

func TestDedupe_KeepsMostConfident(t *testing.T) {
	low := tag(core.CategoryBudget, "€900k", 0.85)
	high := tag(core.CategoryBudget, "900k€", 1.0)

	for _, input := range [][]core.Tag{{low, high}, {high, low}} {
		result := Dedupe(input)
		require.Len(t, result, 1)
		assert.Equal(t, high, result[0])
	}
}

func TestDedupe_EqualConfidenceKeepsFirst(t *testing.T) {
	first := tag(core.CategoryFeatures, "Balcon", 0.8)
	second := tag(core.CategoryFeatures, "balcon", 0.8)

	result := Dedupe([]core.Tag{first, second})
	require.Len(t, result, 1)
	assert.Equal(t, "Balcon", result[0].Label)
}

func TestDedupe_OrdersByCategoryAppearance(t *testing.T) {
	input := []core.Tag{
		tag(core.CategoryRooms, "3 pièces", 0.9),
		tag(core.CategoryLocation, "11th", 0.9),
		tag(core.CategoryBudget, "€800k", 0.85),
		tag(core.CategoryLocation, "Paris", 0.95),
		tag(core.CategoryRooms, "3 rooms", 0.9),
	}

	result := Dedupe(input)

	labels := make([]string, 0, len(result))
	for _, tg := range result {
		labels = append(labels, tg.Label)
	}
	assert.Equal(t, []string{"3 pièces", "11th", "Paris", "€800k"}, labels)
}

func TestDedupe_Invariants(t *testing.T) {
	input := []core.Tag{
		tag(core.CategoryLocation, "Paris", 0.9),
		tag(core.CategoryLocation, "Paris 16", 0.7),
		tag(core.CategoryLocation, "paris", 0.95),
		tag(core.CategoryBudget, "€900k", 0.85),
		tag(core.CategoryBudget, "900k€", 1.0),
		tag(core.CategoryBudget, "€900K", 0.9),
		tag(core.CategoryRooms, "2 pièces", 0.9),
		tag(core.CategoryRooms, "2 rooms", 0.95),
	}

	result := Dedupe(input)

	for i := range result {
		for j := i + 1; j < len(result); j++ {
			assert.False(t, Similar(result[i], result[j]), "%q and %q", result[i].Label, result[j].Label)
		}
	}

	kept := make(map[string]bool, len(result))
	for _, out := range result {
		kept[out.ID] = true
	}

	// Every dropped tag is covered by a similar survivor at least as confident.
	for _, in := range input {
		if kept[in.ID] {
			continue
		}
		covered := false
		for _, out := range result {
			if Similar(in, out) && out.Confidence >= in.Confidence {
				covered = true
			}
		}
		assert.True(t, covered, "dropped %q has no survivor", in.Label)
	}
}

func TestDedupe_Empty(t *testing.T) {
	assert.NotNil(t, Dedupe(nil))
	assert.Empty(t, Dedupe(nil))
}
