// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateTag validates a Tag according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Label must not be blank
//   - Category and Kind must be valid
//   - Confidence must be within [0,1]
//
// NOT validated:
//   - Value (any kind is accepted, including the zero Value)
//   - Timestamps (callers may restore tags created on another machine)
func ValidateTag(tag *Tag) error {
	if tag == nil {
		return fmt.Errorf("%w: tag is nil", ErrInvalidTag)
	}

	if tag.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTag, ErrEmptyTagID)
	}

	if strings.TrimSpace(tag.Label) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTag, ErrEmptyLabel)
	}

	if err := ValidateCategory(tag.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTag, err)
	}

	if err := ValidateKind(tag.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTag, err)
	}

	if err := ValidateConfidence(tag.Confidence); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTag, err)
	}

	return nil
}

// ValidateSession validates a Session and every tag it holds.
func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}

	if strings.TrimSpace(session.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptySessionName)
	}

	for i := range session.Tags {
		if err := ValidateTag(&session.Tags[i]); err != nil {
			return fmt.Errorf("%w: tag %d: %w", ErrInvalidSession, i, err)
		}
	}

	return nil
}

// ValidateCategory validates that a Category has a valid value.
func ValidateCategory(category Category) error {
	if _, ok := categoryNames[category]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidCategory, category)
	}
	return nil
}

// ValidateKind validates that a Kind has a valid value.
func ValidateKind(kind Kind) error {
	if kind != KindPrimary && kind != KindSecondary {
		return fmt.Errorf("%w: value %d", ErrInvalidKind, kind)
	}
	return nil
}

// ValidateConfidence checks that a confidence lies within [0,1].
func ValidateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: value %g", ErrInvalidConfidence, confidence)
	}
	return nil
}
