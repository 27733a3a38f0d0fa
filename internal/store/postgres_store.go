package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore keeps each document as one row of the documents table.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

// EnsureSchema creates the documents table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *postgresStore) Load(ctx context.Context, name string, dst any) (bool, error) {
	query := `SELECT body FROM documents WHERE name = $1`

	var body []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&body)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	if err := decode(body, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *postgresStore) Save(ctx context.Context, name string, v any) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`

	body, err := encode(v)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, name, body, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
