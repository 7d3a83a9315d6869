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
)

// ValidateChunk validates a KnowledgeChunk according to domain rules.
//
// Validation rules:
//   - Id, Title and Content must not be empty
//   - Category must be one of the closed set
//
// Keywords may be empty: title and content matching still applies.
func ValidateChunk(chunk *KnowledgeChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyId)
	}
	if chunk.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyTitle)
	}
	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if !chunk.Category.IsValid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidChunk, ErrUnknownCategory, chunk.Category)
	}
	return nil
}

// ValidateEntry validates an EmbeddingEntry against the expected vector
// dimensionality.
//
// Validation rules:
//   - Id and Content must not be empty
//   - Category must be one of the closed set
//   - Embedding must have exactly dim values, all finite
func ValidateEntry(entry *EmbeddingEntry, dim int) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}
	if entry.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyId)
	}
	if entry.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyContent)
	}
	if !entry.Category.IsValid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidEntry, ErrUnknownCategory, entry.Category)
	}
	if len(entry.Embedding) != dim {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidEntry, ErrDimensionMismatch, len(entry.Embedding), dim)
	}
	for i, v := range entry.Embedding {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: %w at index %d", ErrInvalidEntry, ErrNonFiniteVector, i)
		}
	}
	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}

// ValidateSession validates a Session according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - every message must have valid role and non-empty content
//
// ID 0 is valid: it is assigned from content when the session is first stored.
func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}
	if session.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptyTitle)
	}
	for i, msg := range session.Messages {
		if err := ValidateRole(msg.Role); err != nil {
			return fmt.Errorf("%w: message %d: %w", ErrInvalidSession, i, err)
		}
		if msg.Content == "" {
			return fmt.Errorf("%w: message %d: %w", ErrInvalidSession, i, ErrEmptyContent)
		}
	}
	return nil
}
