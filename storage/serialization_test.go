package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tagit/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"session ID", core.SessionID("weekend")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalSession(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		session *core.Session
	}{
		{
			name:    "no tags",
			session: &core.Session{Id: core.SessionID("empty"), Name: "empty", InsertedAt: now, UpdatedAt: now},
		},
		{
			name: "every value kind",
			session: &core.Session{
				Id:   core.SessionID("Weekend"),
				Name: "Weekend",
				Tags: []core.Tag{
					{
						ID: "location-1-0000beef", Label: "Paris", Kind: core.KindPrimary,
						Category: core.CategoryLocation, Value: core.TextValue("Paris"),
						Confidence: 0.95, Active: true, Created: now, Modified: now,
					},
					{
						ID: "budget-2-0000beef", Label: "€800k", Kind: core.KindPrimary,
						Category: core.CategoryBudget, Value: core.NumberValue(800_000),
						Confidence: 0.9, Created: now, Modified: now.Add(time.Minute),
					},
					{
						ID: "budget-3-0000beef", Label: "Entre 500k et 700k", Kind: core.KindPrimary,
						Category: core.CategoryBudget, Value: core.ListValue("500000", "700000"),
						Confidence: 0.85, Active: true, Created: now, Modified: now,
					},
				},
				InsertedAt: now.Add(-time.Hour),
				UpdatedAt:  now,
			},
		},
		{
			name:    "zero timestamps",
			session: &core.Session{Name: "fresh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalSession(tt.session)
			decoded, err := UnmarshalSession(data)
			require.NoError(t, err)

			assert.Equal(t, tt.session.Id, decoded.Id)
			assert.Equal(t, tt.session.Name, decoded.Name)
			assert.True(t, tt.session.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.session.UpdatedAt.Equal(decoded.UpdatedAt))
			require.Len(t, decoded.Tags, len(tt.session.Tags))
			for i, want := range tt.session.Tags {
				got := decoded.Tags[i]
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.Label, got.Label)
				assert.Equal(t, want.Kind, got.Kind)
				assert.Equal(t, want.Category, got.Category)
				assert.True(t, want.Value.Equal(got.Value), "value %d", i)
				assert.Equal(t, want.Confidence, got.Confidence)
				assert.Equal(t, want.Active, got.Active)
				assert.True(t, want.Created.Equal(got.Created))
				assert.True(t, want.Modified.Equal(got.Modified))
			}
		})
	}
}

func TestUnmarshalSession_Invalid(t *testing.T) {
	valid := MarshalSession(&core.Session{
		Name: "Weekend",
		Tags: []core.Tag{{ID: "x", Label: "Paris", Value: core.TextValue("Paris")}},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSession(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	cp := &core.Checkpoint{
		Name:      "requests.txt",
		Offset:    1234,
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(cp))
	require.NoError(t, err)
	assert.Equal(t, cp.Name, decoded.Name)
	assert.Equal(t, cp.Offset, decoded.Offset)
	assert.True(t, cp.UpdatedAt.Equal(decoded.UpdatedAt))

	_, err = UnmarshalCheckpoint(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
