package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.

	"rpd/internal/providers"
)

// SQLiteKV keeps every record in a single kv table. Each Set is one upsert
// inside an implicit transaction, which gives the atomic overwrite the stats
// store relies on.
type SQLiteKV struct {
	db     *sql.DB
	logger providers.Logger
}

func NewSQLiteKV(path string, logger providers.Logger) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	kv := &SQLiteKV{db: db, logger: logger}
	if err := kv.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLiteKV) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`)
	return err
}

func (s *SQLiteKV) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warnf(providers.TypeApp, "Cannot read record for key %q: %s", key, err)
		}
		return nil, false
	}
	return value, true
}

func (s *SQLiteKV) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return err
}

func (s *SQLiteKV) Keys(prefix string) []string {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot list keys: %s", err)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warnf(providers.TypeApp, "Key listing aborted: %s", err)
	}
	return keys
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
