package detect

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/tagit/core"
)

// IDGenerator produces tag identifiers.
// Implementations must be safe for concurrent use.
type IDGenerator interface {
	NewID(category core.Category) string
}

// SequenceGenerator builds ids of the form "<category>-<counter>-<suffix>"
// where the counter is base 36 and the suffix is 8 random hex characters.
type SequenceGenerator struct {
	counter atomic.Uint64
	suffix  func() string
}

var _ IDGenerator = (*SequenceGenerator)(nil)

// NewSequenceGenerator creates a generator. A nil suffix uses random UUID bits.
func NewSequenceGenerator(suffix func() string) *SequenceGenerator {
	if suffix == nil {
		suffix = randomSuffix
	}
	return &SequenceGenerator{suffix: suffix}
}

// NewID returns the next id for category.
func (g *SequenceGenerator) NewID(category core.Category) string {
	n := g.counter.Add(1)
	return category.String() + "-" + strconv.FormatUint(n, 36) + "-" + g.suffix()
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// synthesize turns a candidate into an active tag stamped with now.
func synthesize(c candidate, ids IDGenerator, now time.Time) core.Tag {
	return core.Tag{
		ID:         ids.NewID(c.category),
		Label:      c.label,
		Kind:       c.category.DefaultKind(),
		Category:   c.category,
		Value:      c.value,
		Confidence: c.confidence,
		Active:     true,
		Created:    now,
		Modified:   now,
	}
}
