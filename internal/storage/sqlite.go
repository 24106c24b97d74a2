package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

type sqliteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore persists state in the local_state table so that pending flags
// and the session survive a restart, like the browser's localStorage did.
func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) KeyValueStore {
	return &sqliteStore{
		db:     db,
		logger: logger,
	}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM local_state
		WHERE key = ?
	`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return err
	}

	s.logger.Debug().Str("key", key).Msg("Local state updated")
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM local_state
		WHERE key = ?
	`

	_, err := s.db.ExecContext(ctx, query, key)
	return err
}
