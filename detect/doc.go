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

// Package detect turns free-form French or English property search text into
// structured, deduplicated tags.
//
// Detection runs as a fixed pipeline:
//   - Correct rewrites common misspellings and snaps room nouns after numbers
//   - Segment splits the corrected text on commas
//   - pattern tables for location, budget, rooms and features run over each segment
//   - segments that are a bare number are interpreted by magnitude
//   - an arrondissement without a city implies Paris
//   - Dedupe collapses similar tags, keeping the most confident
//
// Detection is deterministic for a given input apart from tag ids and
// timestamps, performs no I/O, and never returns an error.
package detect
