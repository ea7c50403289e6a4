package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Kind says whether a tag is required for a search or an optional refinement.
type Kind int

const (
	// KindPrimary marks location, budget and rooms criteria.
	KindPrimary Kind = iota + 1
	// KindSecondary marks feature refinements.
	KindSecondary
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Category is the semantic class of a tag.
// The set is closed; use AllCategories to switch over it exhaustively.
type Category int

const (
	CategoryLocation Category = iota + 1
	CategoryBudget
	CategoryRooms
	CategoryFeatures
	// CategoryCondition and CategoryEnvironmental are valid but no rule produces them yet.
	CategoryCondition
	CategoryEnvironmental
)

var categoryNames = map[Category]string{
	CategoryLocation:      "location",
	CategoryBudget:        "budget",
	CategoryRooms:         "rooms",
	CategoryFeatures:      "features",
	CategoryCondition:     "condition",
	CategoryEnvironmental: "environmental",
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryLocation,
		CategoryBudget,
		CategoryRooms,
		CategoryFeatures,
		CategoryCondition,
		CategoryEnvironmental,
	}
}

// String returns the lowercase wire name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory converts a wire name back into a Category.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// DefaultKind returns the kind every tag of this category is synthesized with.
func (c Category) DefaultKind() Kind {
	switch c {
	case CategoryLocation, CategoryBudget, CategoryRooms:
		return KindPrimary
	default:
		return KindSecondary
	}
}

// ValueKind identifies which field of a Value holds the datum.
type ValueKind int

const (
	ValueText ValueKind = iota + 1
	ValueNumber
	ValueList
)

// Value is the normalized datum behind a tag label.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	List   []string
}

// TextValue wraps a string datum.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// NumberValue wraps a numeric datum.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// ListValue wraps a list datum.
func ListValue(items ...string) Value {
	return Value{Kind: ValueList, List: items}
}

// Equal reports whether two values hold the same datum.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueNumber:
		return v.Number == o.Number
	case ValueList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	default:
		return v.Text == o.Text
	}
}

// Tag is a structured unit of search criteria extracted from free text.
type Tag struct {
	ID         string
	Label      string
	Kind       Kind
	Category   Category
	Value      Value
	Confidence float64 // Rule-assigned certainty in [0,1], used for duplicate tie-breaking
	Active     bool    // Whether the tag participates in a search
	Created    time.Time
	Modified   time.Time // Changes only when the value changes
}

// Session is the persisted form of a caller's running tag collection.
type Session struct {
	Id         ID
	Name       string
	Tags       []Tag
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// SessionID derives the storage ID of a session from its name.
func SessionID(name string) ID {
	return IDFromContent("session:" + strings.ToLower(strings.TrimSpace(name)))
}

// Checkpoint records how far a named batch run has progressed.
type Checkpoint struct {
	Name      string
	Offset    int64 // Number of input lines already processed
	UpdatedAt time.Time
}
