package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	selectPlayedSQL = `SELECT played FROM replay_history WHERE storage_key = $1`

	// Appends id unless the array already holds it, so concurrent writers stay idempotent.
	markPlayedSQL = `INSERT INTO replay_history (storage_key, played, updated_at)
VALUES ($1, jsonb_build_array($2::text), now())
ON CONFLICT (storage_key) DO UPDATE
SET played = CASE WHEN replay_history.played ? $2::text THEN replay_history.played
                  ELSE replay_history.played || jsonb_build_array($2::text) END,
    updated_at = now()`

	resetSQL = `DELETE FROM replay_history WHERE storage_key = $1`
)

// PostgresStore keeps the history as one JSONB array row keyed by the well-known key.
// The table is created by the goose migrations under db/migrations.
type PostgresStore struct {
	db     *sql.DB
	key    string
	logger zerolog.Logger
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres opens a pgx-backed database/sql handle and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB, key string, logger zerolog.Logger) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{
		db:     db,
		key:    key,
		logger: logger.With().Str("component", "history_postgres").Logger(),
	}
}

func (s *PostgresStore) Played(ctx context.Context) Set {
	var raw []byte
	err := s.db.QueryRowContext(ctx, selectPlayedSQL, s.key).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("history unreadable, treating as empty")
		}
		return make(Set)
	}
	set, err := decodeSet(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("history corrupt, treating as empty")
		return make(Set)
	}
	return set
}

func (s *PostgresStore) IsPlayed(ctx context.Context, id string) bool {
	return s.Played(ctx).Has(id)
}

func (s *PostgresStore) MarkPlayed(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, markPlayedSQL, s.key, id); err != nil {
		return fmt.Errorf("mark played: %w", err)
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, resetSQL, s.key); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}
