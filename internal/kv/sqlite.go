package kv

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite backs the Store interface with a single kv table. Use ":memory:"
// as the DSN in tests.
type SQLite struct{ db *sqlx.DB }

func Open(dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLite) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv(key,value,updated_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *SQLite) Close() error { return s.db.Close() }
