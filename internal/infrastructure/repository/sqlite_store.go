package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/infrastructure/database"
)

type sqliteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a key-value store backed by the kv table
func NewSQLiteStore(db *database.DB) storage.Store {
	return &sqliteStore{db: db}
}

func (r *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *sqliteStore) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

func (r *sqliteStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *sqliteStore) Close() error {
	return r.db.Close()
}
