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

package tagit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/tagit/batch"
	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/detect"
	"github.com/poiesic/tagit/session"
	"github.com/poiesic/tagit/storage"
	"github.com/poiesic/tagit/storage/badger"
)

type Database struct {
	backend        *badger.Backend
	sessionRepo    storage.SessionRepository
	checkpointRepo storage.CheckpointRepository
	detector       *detect.Detector
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	detectorConfig *detect.Config
	logger         *slog.Logger
	inMemory       bool
}

// WithDetectorConfig sets the configuration of the database's detector.
func WithDetectorConfig(cfg *detect.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.detectorConfig = cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// WithInMemory keeps all data in memory; filePath is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	detectorOpts := []detect.Option{detect.WithLogger(options.logger)}
	if options.detectorConfig != nil {
		detectorOpts = append(detectorOpts, detect.WithConfig(options.detectorConfig))
	}
	detector, err := detect.New(detectorOpts...)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	return &Database{
		backend:        backend,
		sessionRepo:    badger.NewSessionRepository(backend),
		checkpointRepo: badger.NewCheckpointRepository(backend),
		detector:       detector,
		logger:         options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.sessionRepo.Close(); err != nil {
		db.logger.Error("error closing session repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) SessionRepository() storage.SessionRepository {
	return db.sessionRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

func (db *Database) Detector() *detect.Detector {
	return db.detector
}

// NewBatchRunner creates a batch runner around the database's detector.
// A non-empty checkpoint name makes runs resumable.
func (db *Database) NewBatchRunner(checkpoint string, opts ...batch.Option) (*batch.Runner, error) {
	base := []batch.Option{batch.WithLogger(db.logger)}
	if checkpoint != "" {
		base = append(base, batch.WithCheckpoint(db.checkpointRepo, checkpoint))
	}
	return batch.NewRunner(db.detector, append(base, opts...)...)
}

// OpenSession restores the named session, or starts an empty one.
func (db *Database) OpenSession(ctx context.Context, name string) (*session.Collection, error) {
	stored, err := db.sessionRepo.FindSessionByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return session.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return session.FromSession(*stored), nil
}

// SaveSession persists the collection under name.
func (db *Database) SaveSession(ctx context.Context, name string, c *session.Collection) (*core.Session, error) {
	snapshot := c.Snapshot(name)
	return db.sessionRepo.SaveSession(ctx, &snapshot)
}
