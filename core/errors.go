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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTag indicates a Tag failed validation.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidSession indicates a Session failed validation.
	ErrInvalidSession = errors.New("invalid session")

	// ErrEmptyTagID indicates the tag ID field is empty.
	ErrEmptyTagID = errors.New("tag id cannot be empty")

	// ErrEmptyLabel indicates the Label field is empty.
	ErrEmptyLabel = errors.New("label cannot be empty")

	// ErrInvalidCategory indicates an invalid Category value.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidKind indicates an invalid Kind value.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidConfidence indicates a confidence outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// ErrEmptySessionName indicates the session Name field is empty.
	ErrEmptySessionName = errors.New("session name cannot be empty")
)
