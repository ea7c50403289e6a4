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

// Package batch runs tag detection over many independent lines.
//
// A Runner fans lines out to an ants worker pool, collects the results in
// input order and optionally reports throughput to a writer. When given a
// checkpoint repository it records how many lines have been processed, so a
// rerun over the same input resumes after the last completed chunk.
package batch
