package sync

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Checkpoints persists the incremental-fetch cursor: the updatedAt of the
// newest posting that made it into the index.
type Checkpoints interface {
	Get(ctx context.Context) (time.Time, error)
	Set(ctx context.Context, cursor time.Time) error
}

type PostgresCheckpoints struct {
	db *sql.DB
}

func NewPostgresCheckpoints(db *sql.DB) *PostgresCheckpoints {
	return &PostgresCheckpoints{db: db}
}

// Get returns the zero time when no checkpoint has been stored yet.
func (r *PostgresCheckpoints) Get(ctx context.Context) (time.Time, error) {
	var cursor time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT cursor FROM sync_checkpoints WHERE id = 1`).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return cursor, nil
}

func (r *PostgresCheckpoints) Set(ctx context.Context, cursor time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_checkpoints (id, cursor, updated_at) VALUES (1, $1, NOW())
		 ON CONFLICT (id) DO UPDATE SET cursor = EXCLUDED.cursor, updated_at = NOW()`,
		cursor)
	return err
}
