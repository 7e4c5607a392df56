package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

var (
	_ Store   = (*SQLiteStore)(nil)
	_ Batcher = (*SQLiteStore)(nil)
)

// SQLiteStore persists collections in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string

	// tx is the open transaction of a Batch.
	tx *sql.Tx
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateSQLiteStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func migrateSQLiteStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS collections (
			path TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			collection TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (collection, key)
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("settings store migration failed: %w", err)
		}
	}
	return nil
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// sqlConn is satisfied by both *sql.DB and *sql.Tx.
type sqlConn interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// conn returns the batch transaction when one is open. The pool holds a
// single connection, so reads inside a batch must go through it too.
func (s *SQLiteStore) conn() sqlConn {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// update runs fn in its own transaction, or in the batch transaction.
func (s *SQLiteStore) update(fn func(conn sqlConn) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Batch runs fn in a single transaction. Nothing fn wrote is kept when it
// fails.
func (s *SQLiteStore) Batch(fn func() error) error {
	if s.tx != nil {
		return fn()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	defer func() { s.tx = nil }()

	if err := fn(); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CollectionExists(collection string) (bool, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return false, err
	}
	return collectionExists(s.conn(), collection)
}

func collectionExists(conn sqlConn, collection string) (bool, error) {
	var n int
	if err := conn.QueryRow(`SELECT COUNT(1) FROM collections WHERE path = ?`, collection).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) CreateCollection(collection string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}

	return s.update(func(conn sqlConn) error {
		for _, c := range append(ancestors(collection), collection) {
			if _, err := conn.Exec(`INSERT INTO collections (path) VALUES (?) ON CONFLICT(path) DO NOTHING`, c); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", c, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) DeleteCollection(collection string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}
	prefix := collection + Separator
	prefixLen := utf8.RuneCountInString(prefix)

	return s.update(func(conn sqlConn) error {
		if _, err := conn.Exec(`DELETE FROM properties WHERE collection = ? OR substr(collection, 1, ?) = ?`,
			collection, prefixLen, prefix); err != nil {
			return fmt.Errorf("failed to delete properties of %s: %w", collection, err)
		}
		if _, err := conn.Exec(`DELETE FROM collections WHERE path = ? OR substr(path, 1, ?) = ?`,
			collection, prefixLen, prefix); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", collection, err)
		}
		return nil
	})
}

func (s *SQLiteStore) PropertyExists(collection, key string) (bool, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return false, err
	}

	var n int
	if err := s.conn().QueryRow(`SELECT COUNT(1) FROM properties WHERE collection = ? AND key = ?`, collection, key).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query property %s[%s]: %w", collection, key, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) GetString(collection, key string) (string, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return "", err
	}

	var value string
	err = s.conn().QueryRow(`SELECT value FROM properties WHERE collection = ? AND key = ?`, collection, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := collectionExists(s.conn(), collection)
		if existsErr != nil {
			return "", existsErr
		}
		if !exists {
			return "", fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return "", fmt.Errorf("%w: %s[%s]", ErrPropertyNotFound, collection, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read property %s[%s]: %w", collection, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetString(collection, key, value string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}

	return s.update(func(conn sqlConn) error {
		exists, err := collectionExists(conn, collection)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}

		if _, err := conn.Exec(`INSERT INTO properties (collection, key, value) VALUES (?, ?, ?)
			ON CONFLICT(collection, key) DO UPDATE SET value = excluded.value`, collection, key, value); err != nil {
			return fmt.Errorf("failed to write property %s[%s]: %w", collection, key, err)
		}
		return nil
	})
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
