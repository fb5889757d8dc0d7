package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/dbx"
)

// queries implements the key-value operations over any dbx.DBTX handle,
// so the same code serves both the plain store and its transactional view.
type queries struct {
	db dbx.DBTX
}

func (q queries) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := q.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get credentials[%s]: %v", common.ErrStorage, key, err)
	}
	return value, nil
}

func (q queries) Set(ctx context.Context, key string, value []byte) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: failed to set credentials[%s]: %v", common.ErrStorage, key, err)
	}
	return nil
}

func (q queries) Remove(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: failed to remove credentials[%s]: %v", common.ErrStorage, key, err)
	}
	return nil
}

// SQLiteStore is the on-disk Store implementation backed by a SQLite
// database whose schema is managed by the embedded migrations.
type SQLiteStore struct {
	queries
	sqldb *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{queries: queries{db: db}, sqldb: db}
}

// Update runs fn inside a single SQLite transaction.
func (r *SQLiteStore) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return dbx.WithTx(ctx, r.sqldb, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, txView{queries{db: tx}})
	})
}

// txView adapts a transactional handle to the Store interface. A nested
// Update reuses the already-open transaction.
type txView struct {
	queries
}

func (v txView) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return fn(ctx, v)
}
