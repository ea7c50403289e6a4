package detect

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tagit/core"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestDetector(t *testing.T, opts ...Option) *Detector {
	t.Helper()
	base := []Option{
		WithIDGenerator(NewSequenceGenerator(func() string { return "0000beef" })),
		WithClock(func() time.Time { return testNow }),
	}
	d, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return d
}

type summary struct {
	Category core.Category
	Label    string
}

func summarize(tags []core.Tag) []summary {
	out := make([]summary, 0, len(tags))
	for _, tag := range tags {
		out = append(out, summary{tag.Category, tag.Label})
	}
	return out
}

func findTag(tags []core.Tag, label string) (core.Tag, bool) {
	for _, tag := range tags {
		if tag.Label == label {
			return tag, true
		}
	}
	return core.Tag{}, false
}

func TestDetect_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []summary
	}{
		{
			name:  "rooms arrondissement and budget",
			input: "3 pieces, 11th, €800k",
			want: []summary{
				{core.CategoryRooms, "3 pièces"},
				{core.CategoryLocation, "11th"},
				{core.CategoryLocation, "Paris"},
				{core.CategoryBudget, "€800k"},
			},
		},
		{
			name:  "misspelled room noun",
			input: "4 piees",
			want:  []summary{{core.CategoryRooms, "4 pièces"}},
		},
		{
			name:  "bare departement number",
			input: "92",
			want:  []summary{{core.CategoryLocation, "Hauts-de-Seine"}},
		},
		{
			name:  "bare short budget",
			input: "900",
			want:  []summary{{core.CategoryBudget, "€900k"}},
		},
		{
			name:  "city with arrondissement needs no inference",
			input: "Paris 16th",
			want: []summary{
				{core.CategoryLocation, "Paris"},
				{core.CategoryLocation, "16th"},
			},
		},
		{
			name:  "postal code is not a budget",
			input: "75016",
			want:  []summary{{core.CategoryLocation, "75016"}},
		},
		{
			name:  "mixed request",
			input: "2 bedroom, balcony, 92, under 750k€",
			want: []summary{
				{core.CategoryRooms, "2 pièces"},
				{core.CategoryFeatures, "Balcony"},
				{core.CategoryLocation, "Hauts-de-Seine"},
				{core.CategoryBudget, "Under 750k€"},
			},
		},
		{
			name:  "studio and type code",
			input: "studio, T3",
			want: []summary{
				{core.CategoryRooms, "1 pièces"},
				{core.CategoryRooms, "3 pièces"},
			},
		},
		{
			name:  "spelled room count",
			input: "deux chambres",
			want:  []summary{{core.CategoryRooms, "2 pièces"}},
		},
		{
			name:  "features keep accents",
			input: "appartement lumineux avec parquet, cuisine équipée",
			want: []summary{
				{core.CategoryFeatures, "Lumineux"},
				{core.CategoryFeatures, "Parquet"},
				{core.CategoryFeatures, "Cuisine équipée"},
			},
		},
		{
			name:  "unaccented neighborhood gets canonical spelling",
			input: "champs-elysees",
			want:  []summary{{core.CategoryLocation, "Champs-Élysées"}},
		},
		{
			name:  "budget range",
			input: "entre 600k et 800k",
			want:  []summary{{core.CategoryBudget, "Entre 600k et 800k"}},
		},
		{
			name:  "budget range with currency",
			input: "entre 500k€ et 700k€",
			want:  []summary{{core.CategoryBudget, "Entre 500k€ et 700k€"}},
		},
		{
			name:  "budget range with spaced thousands",
			input: "between 500 000 € and 700 000 €",
			want:  []summary{{core.CategoryBudget, "Between 500 000 € and 700 000 €"}},
		},
		{
			name:  "decimal million",
			input: "0.8 million",
			want:  []summary{{core.CategoryBudget, "0.8million"}},
		},
		{
			name:  "million",
			input: "1.2 million",
			want:  []summary{{core.CategoryBudget, "1.2million"}},
		},
		{
			name:  "mille",
			input: "750 mille",
			want:  []summary{{core.CategoryBudget, "750mille"}},
		},
		{
			name:  "shorthand number before mille",
			input: "800 mille",
			want:  []summary{{core.CategoryBudget, "800mille"}},
		},
		{
			name:  "space separated thousands",
			input: "750 000 €",
			want:  []summary{{core.CategoryBudget, "750000€"}},
		},
		{
			name:  "no-break space separated thousands",
			input: "budget 800\u00a0000 euros",
			want:  []summary{{core.CategoryBudget, "800000euros"}},
		},
		{
			name:  "large bare number",
			input: "1200000",
			want:  []summary{{core.CategoryBudget, "€1.2m"}},
		},
		{
			name:  "small bare number",
			input: "5",
			want:  []summary{{core.CategoryRooms, "5 pièces"}},
		},
		{
			name:  "spelled arrondissement gets french suffix",
			input: "16 arrondissement",
			want: []summary{
				{core.CategoryLocation, "16e"},
				{core.CategoryLocation, "Paris"},
			},
		},
		{
			name:  "thousands separated literal",
			input: "3 pièces, 900,000",
			want: []summary{
				{core.CategoryRooms, "3 pièces"},
				{core.CategoryBudget, "€900k"},
			},
		},
	}

	d := newTestDetector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := d.Detect(tt.input)
			assert.ElementsMatch(t, tt.want, summarize(tags))
		})
	}
}

func TestDetect_BudgetValues(t *testing.T) {
	tests := []struct {
		input string
		want  core.Value
	}{
		{"0.8 million", core.NumberValue(800_000)},
		{"1.2 million", core.NumberValue(1_200_000)},
		{"750 mille", core.NumberValue(750_000)},
		{"800 mille", core.NumberValue(800_000)},
		{"750 000 €", core.NumberValue(750_000)},
		{"€ 1 250 000", core.NumberValue(1_250_000)},
		{"moins de 650 000 €", core.NumberValue(650_000)},
		{"entre 500k€ et 700k€", core.ListValue("500000", "700000")},
		{"between 500 000 € and 700 000 €", core.ListValue("500000", "700000")},
	}

	d := newTestDetector(t)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tags := d.Detect(tt.input)
			require.Len(t, tags, 1)
			assert.Equal(t, core.CategoryBudget, tags[0].Category)
			if tt.want.Kind == core.ValueNumber {
				assert.Equal(t, core.ValueNumber, tags[0].Value.Kind)
				assert.InDelta(t, tt.want.Number, tags[0].Value.Number, 0.01)
				return
			}
			assert.Equal(t, tt.want, tags[0].Value)
		})
	}
}

func TestDetect_Confidences(t *testing.T) {
	d := newTestDetector(t)

	tags := d.Detect("92")
	require.Len(t, tags, 1)
	assert.Equal(t, 1.0, tags[0].Confidence, "numeric rule outranks the pattern")

	tags = d.Detect("900")
	require.Len(t, tags, 1)
	assert.Equal(t, 1.0, tags[0].Confidence, "literal outranks the band")
	assert.Equal(t, core.NumberValue(900_000), tags[0].Value)

	tags = d.Detect("3 pieces, 11th, €800k")
	paris, ok := findTag(tags, "Paris")
	require.True(t, ok)
	assert.Equal(t, 0.95, paris.Confidence)

	budget, ok := findTag(tags, "€800k")
	require.True(t, ok)
	assert.Equal(t, 0.85, budget.Confidence)
	assert.Equal(t, core.NumberValue(800_000), budget.Value)
}

func TestDetect_TagFields(t *testing.T) {
	d := newTestDetector(t)

	tags := d.Detect("4 piees, balcon")
	require.Len(t, tags, 2)

	rooms, ok := findTag(tags, "4 pièces")
	require.True(t, ok)
	assert.Equal(t, core.KindPrimary, rooms.Kind)
	assert.Equal(t, core.NumberValue(4), rooms.Value)
	assert.True(t, rooms.Active)
	assert.Equal(t, testNow, rooms.Created)
	assert.Equal(t, testNow, rooms.Modified)
	assert.True(t, strings.HasPrefix(rooms.ID, "rooms-"))
	assert.True(t, strings.HasSuffix(rooms.ID, "-0000beef"))

	feature, ok := findTag(tags, "Balcon")
	require.True(t, ok)
	assert.Equal(t, core.KindSecondary, feature.Kind)
	assert.Equal(t, core.CategoryFeatures, feature.Category)

	for _, tag := range tags {
		assert.NoError(t, core.ValidateTag(&tag))
	}
}

func TestDetect_UniqueIDs(t *testing.T) {
	d := newTestDetector(t)
	seen := make(map[string]bool)
	for _, input := range []string{"3 pieces, 11th, €800k", "3 pieces, 11th, €800k", "92, balcony"} {
		for _, tag := range d.Detect(input) {
			assert.False(t, seen[tag.ID], "duplicate id %s", tag.ID)
			seen[tag.ID] = true
		}
	}
}

func TestDetect_Empty(t *testing.T) {
	d := newTestDetector(t)

	for _, input := range []string{"", "   ", ",,,", "bonjour", "hello there"} {
		tags := d.Detect(input)
		assert.NotNil(t, tags, "input %q", input)
		assert.Empty(t, tags, "input %q", input)
	}
}

func TestDetect_NoSimilarPairs(t *testing.T) {
	d := newTestDetector(t)
	inputs := []string{
		"3 pieces, 11th, €800k",
		"Paris 16th, 16e, 75016, 75",
		"900, 900k, 900000, €900k",
		"3 pièces, 3 rooms, trois chambres, 3",
		"balcon, balcon, Balcon, terrasse",
	}

	for _, input := range inputs {
		tags := d.Detect(input)
		for i := range tags {
			for j := i + 1; j < len(tags); j++ {
				assert.False(t, Similar(tags[i], tags[j]),
					"input %q: %q and %q are similar", input, tags[i].Label, tags[j].Label)
			}
		}
	}
}

func TestDetect_Departement95(t *testing.T) {
	tags := newTestDetector(t).Detect("95")
	assert.Equal(t, []summary{{core.CategoryLocation, "Paris"}}, summarize(tags))

	fixed := newTestDetector(t, WithConfig(NewConfig(WithFixValdOise(true))))
	tags = fixed.Detect("95")
	assert.Equal(t, []summary{{core.CategoryLocation, "Val-d'Oise"}}, summarize(tags))
}

func TestDetect_ConfiguredConfidence(t *testing.T) {
	d := newTestDetector(t, WithConfig(NewConfig(WithFeatureConfidence(0.5))))

	tags := d.Detect("terrasse")
	require.Len(t, tags, 1)
	assert.Equal(t, 0.5, tags[0].Confidence)
}

func TestDetect_ExtraFeatures(t *testing.T) {
	d := newTestDetector(t, WithConfig(NewConfig(WithExtraFeatures("véranda"))))

	tags := d.Detect("maison avec veranda")
	assert.Equal(t, []summary{{core.CategoryFeatures, "Véranda"}}, summarize(tags))
}

func TestDetect_ExtraMisspellings(t *testing.T) {
	d := newTestDetector(t, WithConfig(NewConfig(WithMisspelling("montmatre", "Montmartre"))))

	tags := d.Detect("montmatre")
	assert.Equal(t, []summary{{core.CategoryLocation, "Montmartre"}}, summarize(tags))
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithConfig(NewConfig(WithRoomsConfidence(1.5))))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithIDGenerator(nil))
	assert.ErrorIs(t, err, ErrIDGeneratorRequired)

	_, err = New(WithClock(nil))
	assert.ErrorIs(t, err, ErrClockRequired)
}

func TestDetectTags_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]core.Tag, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = DetectTags("3 pieces, 11th, €800k")
		}(i)
	}
	wg.Wait()

	for _, tags := range results {
		assert.ElementsMatch(t, summarize(results[0]), summarize(tags))
	}
}

type recordingMonitor struct {
	stages    []string
	corrected string
	segments  []string
	final     []core.Tag
}

func (m *recordingMonitor) Start(_ string) { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) AfterCorrection(corrected string) {
	m.stages = append(m.stages, "correct")
	m.corrected = corrected
}
func (m *recordingMonitor) AfterSegmentation(segments []string) {
	m.stages = append(m.stages, "segment")
	m.segments = segments
}
func (m *recordingMonitor) SegmentMatched(_ string, _ []core.Tag) {
	m.stages = append(m.stages, "match")
}
func (m *recordingMonitor) AfterInference(_ []core.Tag) { m.stages = append(m.stages, "infer") }
func (m *recordingMonitor) Finish(tags []core.Tag) {
	m.stages = append(m.stages, "finish")
	m.final = tags
}

func TestDetectWithMonitor(t *testing.T) {
	d := newTestDetector(t)
	monitor := &recordingMonitor{}

	tags := d.DetectWithMonitor("4 piees, 11th", monitor)

	assert.Equal(t, []string{"start", "correct", "segment", "match", "match", "infer", "finish"}, monitor.stages)
	assert.Equal(t, "4 pièces, 11th", monitor.corrected)
	assert.Equal(t, []string{"4 pièces", "11th"}, monitor.segments)
	assert.Equal(t, tags, monitor.final)
}
