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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
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

// Category classifies a knowledge chunk into one of the curated topical domains.
// The set is closed: parsing an unknown value fails instead of silently defaulting.
type Category int

const (
	// CategoryGFK covers Gewaltfreie Kommunikation (nonviolent communication).
	CategoryGFK Category = iota + 1
	// CategoryDistortion covers cognitive distortions and reframing.
	CategoryDistortion
	// CategoryFourSides covers the Schulz von Thun four-sides model.
	CategoryFourSides
	// CategoryListening covers active listening techniques.
	CategoryListening
	// CategoryConflict covers conflict dynamics and de-escalation.
	CategoryConflict
	// CategoryGeneral is the fallback domain for uncategorized content.
	CategoryGeneral
)

var categoryNames = map[Category]string{
	CategoryGFK:        "gfk",
	CategoryDistortion: "kognitive_verzerrung",
	CategoryFourSides:  "vier_seiten_modell",
	CategoryListening:  "aktives_zuhoeren",
	CategoryConflict:   "konflikt",
	CategoryGeneral:    "allgemein",
}

var categoryValues = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[name] = c
	}
	return m
}()

// String returns the stable wire name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// IsValid reports whether the category is one of the closed set.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory converts a wire name into a Category.
// Unknown names fail construction; callers decide how to map the failure.
func ParseCategory(name string) (Category, error) {
	if c, ok := categoryValues[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// CategoryOrGeneral parses a wire name, mapping unknown values to CategoryGeneral.
// This is the single sanctioned fallback site for loosely-typed category input.
func CategoryOrGeneral(name string) Category {
	c, err := ParseCategory(name)
	if err != nil {
		return CategoryGeneral
	}
	return c
}

// KnowledgeChunk is one immutable passage of the curated knowledge base.
// Chunks are created once at load time and never mutated afterwards.
type KnowledgeChunk struct {
	Id       string
	Category Category
	Title    string
	Content  string
	Keywords []string
}

// EmbeddingEntry is one row of the semantic index artifact: a chunk identity
// paired with its precomputed embedding vector.
type EmbeddingEntry struct {
	Id        string
	Category  Category
	Content   string
	Embedding []float32
}

// SearchResult is a transient per-query value pairing a chunk with its
// normalized relevance score. Scores are in [0,1] with 1.0 the best match.
type SearchResult struct {
	Chunk *KnowledgeChunk
	Score float64
}

// HybridResult extends SearchResult with the two contributing sub-scores.
// Either sub-score may be absent when only one source matched; Has* reports
// presence. Collapsible to SearchResult at the dispatcher boundary.
type HybridResult struct {
	Chunk         *KnowledgeChunk
	Score         float64
	KeywordScore  float64
	SemanticScore float64
	HasKeyword    bool
	HasSemantic   bool
}

// Collapse drops the sub-score detail, keeping only the fused score.
func (h *HybridResult) Collapse() *SearchResult {
	return &SearchResult{Chunk: h.Chunk, Score: h.Score}
}

// Role identifies the author of a chat message.
type Role int

const (
	// RoleUser represents the human user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the AI assistant.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ChatMessage is one turn of a conversation. The retrieval core only reads a
// bounded recent window of these; it never persists or mutates them.
type ChatMessage struct {
	Role    Role
	Content string
}

// Session is a persisted conversation: an ordered message history with
// identity and bookkeeping timestamps.
type Session struct {
	Id        ID
	Title     string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
