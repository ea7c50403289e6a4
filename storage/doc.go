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

// Package storage provides the storage abstraction layer for tagit.
//
// This package defines repository interfaces that decouple persistence of chat
// sessions and batch checkpoints from the detection engine. The BadgerDB
// implementation lives in the badger subpackage.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - SessionRepository stores a named tag collection as one record
//   - CheckpointRepository stores how far a batch run has progressed
//
// Values are serialized with the mus-go codecs generated in core, using the
// helpers in serialization.go.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	sessions, checkpoints, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	saved, err := sessions.SaveSession(ctx, &core.Session{Name: "weekend"})
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
