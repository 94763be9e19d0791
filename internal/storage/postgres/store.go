// internal/storage/postgres/store.go
//
// Postgres 版本的 storage.Store：以單一資料表保存帳戶，
// Save 在同一個資料庫交易內清空並重寫整張表，失敗時整筆回滾。
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"bankhub/internal/storage"
)

const defaultTimeout = 5 * time.Second

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	id       TEXT PRIMARY KEY,
	secret   TEXT NOT NULL,
	category TEXT NOT NULL,
	balance  NUMERIC NOT NULL CHECK (balance >= 0)
)`

type Store struct {
	db      *sql.DB
	timeout time.Duration
}

var _ storage.Store = (*Store)(nil)

// Open 連線並建立資料表（若不存在）。
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	s := New(db)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db, timeout: defaultTimeout}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() ([]storage.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	const query = `SELECT id, secret, category, balance FROM accounts ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var r storage.Record
		if err := rows.Scan(&r.ID, &r.Secret, &r.Category, &r.Balance); err != nil {
			return nil, err
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Save(records []storage.Record) (err error) {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return err
	}
	const insert = `INSERT INTO accounts (id, secret, category, balance) VALUES ($1, $2, $3, $4)`
	for _, r := range records {
		if _, err = tx.ExecContext(ctx, insert, r.ID, r.Secret, r.Category, r.Balance); err != nil {
			return err
		}
	}
	return tx.Commit()
}
