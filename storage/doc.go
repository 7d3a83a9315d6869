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


// Package storage provides the session persistence layer for klartext.
//
// This package defines the repository interface that decouples storage
// implementation from the conversation logic, plus the MUS serialization
// helpers for the persisted record types.
//
// Public constructors in implementation packages return the
// storage.SessionRepository interface to enforce abstraction:
//
//	repo, err := badger.NewSessionRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemorySessionRepository()
//	defer repo.Close()
//	defer backend.Close()
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. All methods accept context.Context for
// cancellation and timeout support.
package storage
