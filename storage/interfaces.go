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


package storage

import (
	"context"

	"github.com/poiesic/klartext/core"
)

// SessionRepository provides operations for persisting chat sessions.
// Implementations must be thread-safe and support concurrent access.
type SessionRepository interface {
	// SaveSession inserts or updates a session. For a session with ID=0 a
	// content-based ID is generated from the title and creation time.
	// Sets CreatedAt on first save and updates UpdatedAt on every save.
	// Returns the session with ID and timestamps populated.
	SaveSession(ctx context.Context, session *core.Session) (*core.Session, error)

	// GetSession retrieves a single session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id core.ID) (*core.Session, error)

	// ListSessions retrieves up to limit sessions, most recently updated
	// first.
	ListSessions(ctx context.Context, limit int) ([]*core.Session, error)

	// DeleteSession removes a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	DeleteSession(ctx context.Context, id core.ID) error

	// AppendMessages appends messages to an existing session's history and
	// updates its UpdatedAt timestamp.
	// Returns ErrNotFound if the session doesn't exist.
	AppendMessages(ctx context.Context, id core.ID, messages ...core.ChatMessage) (*core.Session, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
