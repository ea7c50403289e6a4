package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/detect"
	"github.com/poiesic/tagit/query"
)

// Collection is a running set of tags accumulated over a conversation.
// It is safe for concurrent use.
type Collection struct {
	mu    sync.RWMutex
	tags  []core.Tag
	clock func() time.Time
}

// Option configures a Collection.
type Option func(*Collection)

// WithClock sets the source of modification timestamps.
// Default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *Collection) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromSession restores a collection from its persisted form.
func FromSession(s core.Session, opts ...Option) *Collection {
	c := New(opts...)
	c.tags = append([]core.Tag(nil), s.Tags...)
	return c
}

// Snapshot returns the persisted form of the collection under name.
// Timestamps are left for the repository to fill in.
func (c *Collection) Snapshot(name string) core.Session {
	return core.Session{
		Id:   core.SessionID(name),
		Name: name,
		Tags: c.Tags(),
	}
}

// Merge adds the tags not already present and returns the ones added.
//
// A tag is present when one of the same category has the same label ignoring
// case, or when both are arrondissements of the same district ("16th" and "16e").
func (c *Collection) Merge(tags ...core.Tag) []core.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := []core.Tag{}
	for _, tag := range tags {
		if c.containsLocked(tag) {
			continue
		}
		c.tags = append(c.tags, tag)
		added = append(added, tag)
	}
	return added
}

func (c *Collection) containsLocked(tag core.Tag) bool {
	for _, existing := range c.tags {
		if sameCriterion(existing, tag) {
			return true
		}
	}
	return false
}

func sameCriterion(a, b core.Tag) bool {
	if a.Category != b.Category {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(a.Label), strings.TrimSpace(b.Label)) {
		return true
	}
	if a.Category == core.CategoryLocation {
		na, okA := detect.ArrondissementNumber(a.Label)
		nb, okB := detect.ArrondissementNumber(b.Label)
		return okA && okB && na == nb
	}
	return false
}

// Toggle flips whether a tag participates in the search and returns it.
func (c *Collection) Toggle(id string) (core.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return core.Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	c.tags[i].Active = !c.tags[i].Active
	return c.tags[i], nil
}

// Remove deletes a tag.
func (c *Collection) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	c.tags = append(c.tags[:i], c.tags[i+1:]...)
	return nil
}

// Update replaces a tag's value, and its label when label is not blank.
// Modified only moves when the value actually changes.
func (c *Collection) Update(id string, value core.Value, label string) (core.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return core.Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	tag := &c.tags[i]
	if label = strings.TrimSpace(label); label != "" {
		tag.Label = label
	}
	if !tag.Value.Equal(value) {
		tag.Value = value
		tag.Modified = c.clock()
	}
	return *tag, nil
}

func (c *Collection) indexLocked(id string) int {
	for i := range c.tags {
		if c.tags[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the tag with the given id.
func (c *Collection) Get(id string) (core.Tag, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.tags[i], true
	}
	return core.Tag{}, false
}

// Tags returns a copy of every tag in insertion order.
func (c *Collection) Tags() []core.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]core.Tag{}, c.tags...)
}

// Active returns the tags that participate in the search.
func (c *Collection) Active() []core.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := []core.Tag{}
	for _, tag := range c.tags {
		if tag.Active {
			active = append(active, tag)
		}
	}
	return active
}

// ByCategory groups the tags by category, keeping insertion order.
func (c *Collection) ByCategory() map[core.Category][]core.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groups := make(map[core.Category][]core.Tag)
	for _, tag := range c.tags {
		groups[tag.Category] = append(groups[tag.Category], tag)
	}
	return groups
}

// Len returns the number of tags.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tags)
}

// Clear removes every tag.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = nil
}

// HasMinimumCriteria reports whether active tags cover location, budget and rooms.
func (c *Collection) HasMinimumCriteria() bool {
	return query.HasMinimumCriteria(c.Active())
}

// SearchParams builds the search parameters of the active tags.
func (c *Collection) SearchParams() query.SearchParams {
	return query.Build(c.Active())
}
