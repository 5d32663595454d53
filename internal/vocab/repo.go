package vocab

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Get(ctx context.Context) (*Vocabulary, error) {
	var (
		id      int
		version int
		raw     []byte
	)
	query := `SELECT id, version, data FROM vocabulary WHERE id = 1`
	if err := r.db.QueryRowContext(ctx, query).Scan(&id, &version, &raw); err != nil {
		return nil, err
	}

	v := &Vocabulary{}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	v.ID = id
	v.Version = version
	return v, nil
}

func (r *PostgresRepo) Update(ctx context.Context, v *Vocabulary) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	query := `UPDATE vocabulary SET data = $1, version = version + 1, updated_at = NOW() WHERE id = 1`
	_, err = r.db.ExecContext(ctx, query, raw)
	return err
}

// Seed inserts the vocabulary row if missing; an existing row wins.
func (r *PostgresRepo) Seed(ctx context.Context, v *Vocabulary) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	query := `INSERT INTO vocabulary (id, version, data) VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING`
	_, err = r.db.ExecContext(ctx, query, v.Version, raw)
	return err
}
