package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) *SessionRepository {
	return &SessionRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *SessionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SessionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveSession inserts or replaces a session.
func (r *SessionRepository) SaveSession(ctx context.Context, session *core.Session) (*core.Session, error) {
	if err := core.ValidateSession(session); err != nil {
		return nil, err
	}

	err := retryOnConflict(ctx, func() error {
		return r.saveSession(session)
	}, conflictAttempts, conflictRetryDelay)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("saved session", "id", session.Id, "name", session.Name, "tags", len(session.Tags))
	return session, nil
}

func (r *SessionRepository) saveSession(session *core.Session) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if session.Id == 0 {
			session.Id = core.SessionID(session.Name)
		}

		// The name must not belong to another session
		nameKey := makeSessionNameKey(session.Name)
		owner, err := r.readNameIndex(tx, nameKey)
		if err != nil {
			return err
		}
		if owner != 0 && owner != session.Id {
			return fmt.Errorf("%w: session name %q", storage.ErrDuplicateKey, session.Name)
		}

		key := makeSessionKey(session.Id)
		old, err := r.readSession(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		session.UpdatedAt = now
		if old != nil {
			session.InsertedAt = old.InsertedAt
			// Renamed: drop the stale index entry
			if !strings.EqualFold(strings.TrimSpace(old.Name), strings.TrimSpace(session.Name)) {
				if err := tx.Delete(makeSessionNameKey(old.Name)); err != nil {
					return err
				}
			}
		} else {
			session.InsertedAt = now
		}

		if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
			return err
		}
		if err := tx.Set(nameKey, storage.MarshalID(session.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetSession retrieves a session by ID.
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

// FindSessionByName retrieves a session by its name through the name index.
func (r *SessionRepository) FindSessionByName(ctx context.Context, name string) (*core.Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty session name", storage.ErrInvalidQuery)
	}

	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := r.readNameIndex(tx, makeSessionNameKey(name))
		if err != nil {
			return err
		}
		if id == 0 {
			return storage.ErrNotFound
		}
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

// ListSessions returns every session, most recently updated first.
func (r *SessionRepository) ListSessions(ctx context.Context) ([]*core.Session, error) {
	results := []*core.Session{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var session *core.Session
			err := iter.Item().Value(func(val []byte) error {
				var err error
				session, err = storage.UnmarshalSession(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, session)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b *core.Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return results, nil
}

// DeleteSession removes a session and its name index entry.
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
		if err := tx.Delete(makeSessionNameKey(session.Name)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readSession reads a session from the transaction.
// Returns nil if the key doesn't exist.
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
		var err error
		session, err = storage.UnmarshalSession(val)
		return err
	})
	return session, err
}

// readNameIndex returns the ID stored under a name index key, or 0.
func (r *SessionRepository) readNameIndex(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}
