package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository backed by the given
// backend. The repository does not take ownership of the backend until
// Close is called.
func NewSessionRepository(backend *Backend) (storage.SessionRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	return &SessionRepository{backend: backend}, nil
}

// Close closes the underlying backend.
func (r *SessionRepository) Close() error {
	return r.backend.Close()
}

// SaveSession inserts or updates a session. A session with ID 0 gets a
// content-derived ID from its title and creation time.
func (r *SessionRepository) SaveSession(ctx context.Context, session *core.Session) (*core.Session, error) {
	if session == nil {
		return nil, core.ErrInvalidSession
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		if session.CreatedAt.IsZero() {
			session.CreatedAt = now
		}
		if session.Id == 0 {
			session.Id = core.IDFromContent(session.Title + session.CreatedAt.Format(time.RFC3339Nano))
		}

		if err := core.ValidateSession(session); err != nil {
			return err
		}

		// Drop the stale updated-time index entry when overwriting
		old, err := r.readSession(tx, makeSessionKey(session.Id))
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeSessionUpdatedKey(old.UpdatedAt, old.Id)); err != nil {
				return err
			}
		}

		session.UpdatedAt = now

		key := makeSessionKey(session.Id)
		if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
			return err
		}

		updatedKey := makeSessionUpdatedKey(session.UpdatedAt, session.Id)
		if err := tx.Set(updatedKey, storage.MarshalID(session.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return session, err
}

// GetSession retrieves a single session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id core.ID) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readSession(tx, makeSessionKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListSessions retrieves up to limit sessions, most recently updated first.
func (r *SessionRepository) ListSessions(ctx context.Context, limit int) ([]*core.Session, error) {
	var results []*core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Reverse iterator walks the updated-time index newest first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialSessionUpdatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(sessionUpdatedPrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var sessionID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				sessionID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			session, err := r.readSession(tx, makeSessionKey(sessionID))
			if err != nil {
				return err
			}
			if session != nil {
				results = append(results, session)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteSession removes a session and its index entry.
func (r *SessionRepository) DeleteSession(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(id)

		session, err := r.readSession(tx, key)
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeSessionUpdatedKey(session.UpdatedAt, session.Id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AppendMessages appends messages to a session's history and bumps its
// UpdatedAt timestamp.
func (r *SessionRepository) AppendMessages(ctx context.Context, id core.ID, messages ...core.ChatMessage) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(id)

		session, err := r.readSession(tx, key)
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}

		for _, m := range messages {
			if err := core.ValidateRole(m.Role); err != nil {
				return err
			}
		}

		if err := tx.Delete(makeSessionUpdatedKey(session.UpdatedAt, session.Id)); err != nil {
			return err
		}

		session.Messages = append(session.Messages, messages...)
		session.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
			return err
		}
		updatedKey := makeSessionUpdatedKey(session.UpdatedAt, session.Id)
		if err := tx.Set(updatedKey, storage.MarshalID(session.Id)); err != nil {
			return err
		}

		result = session
		return tx.Commit()
	}, true)

	return result, err
}

// readSession reads a session record from the transaction.
// Returns nil without error when the key is absent.
func (r *SessionRepository) readSession(tx *badger.Txn, key []byte) (*core.Session, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var session *core.Session
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		session, unmarshalErr = storage.UnmarshalSession(val)
		return unmarshalErr
	})
	return session, err
}
