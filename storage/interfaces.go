package storage

import (
	"context"

	"github.com/poiesic/tagit/core"
)

type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

type SessionRepository interface {
	Repository
	// SaveSession inserts or replaces a session.
	// The ID is derived from the name when zero.
	// Sets InsertedAt on first save and UpdatedAt on every save.
	// Returns the session with ID and timestamps populated.
	SaveSession(ctx context.Context, session *core.Session) (*core.Session, error)

	// GetSession retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id core.ID) (*core.Session, error)

	// FindSessionByName retrieves a session by its name, ignoring case.
	// Returns ErrNotFound if no matching session exists.
	FindSessionByName(ctx context.Context, name string) (*core.Session, error)

	// ListSessions returns every stored session, most recently updated first.
	ListSessions(ctx context.Context) ([]*core.Session, error)

	// DeleteSession removes a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	DeleteSession(ctx context.Context, id core.ID) error
}

type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint under its name.
	// Sets UpdatedAt automatically.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint stored under name,
	// or nil if none exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)
}
