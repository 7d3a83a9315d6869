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


// Package search implements hybrid retrieval over the curated knowledge base.
//
// The Dispatcher type is the single entry point. It combines:
//   - A pre-normalized, weighted keyword index (exact/partial keyword, title,
//     content and category signals)
//   - A semantic index performing cosine-similarity top-K search over a
//     validated embedding artifact
//   - Hybrid fusion: both indices queried concurrently, scores normalized to
//     [0,1] and linearly combined, deduplicated by chunk identity
//   - An optional SQLite FTS5 engine with bm25 ranking as a middle fallback
//     tier
//
// Strategies cascade: every failure is caught and logged, degrading down to
// the keyword index, so retrieval never fails a query outright.
package search
