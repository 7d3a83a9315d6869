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


// Package grounding assembles grounded prompts for the chat model.
//
// The Pipeline type is a small state machine per query: meta-questions skip
// retrieval entirely, low-relevance retrievals omit the context block, and
// grounded queries get labeled context sections. User questions are sanitized
// (Unicode normalization, zero-width stripping, injection-pattern rejection,
// structure-breaker removal) before they reach the prompt, and every failure
// mode degrades to a fixed user-facing response instead of an error.
package grounding
