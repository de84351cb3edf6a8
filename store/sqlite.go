package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a persistent Store backed by SQLite. Scalar values live in
// one table; lists are rows ordered by a sequence number, so head and tail
// operations work on the min and max sequence within a transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path and
// initialises the schema. Use ":memory:" for an in-memory SQLite database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("tally/store: open sqlite: %w", err)
	}

	// Head pops and tail pushes race through the same connection; a single
	// connection serialises them the way SQLite expects.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tally_values (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("tally/store: create values table: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tally_lists (
			key   TEXT NOT NULL,
			seq   INTEGER NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (key, seq)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("tally/store: create lists table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the scalar value stored at key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tally_values WHERE key = ?`, key,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: get: %w", err)
	}
	return v, true, nil
}

// Set stores a scalar value at key, overwriting any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tally_values (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("tally/store: set: %w", err)
	}
	return nil
}

// SetNX stores value at key only if the key does not exist.
func (s *SQLiteStore) SetNX(ctx context.Context, key, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tally_values (key, value) VALUES (?, ?)`,
		key, value,
	)
	if err != nil {
		return false, fmt.Errorf("tally/store: setnx: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("tally/store: setnx: %w", err)
	}
	return n > 0, nil
}

// Incr atomically increments the integer stored at key by one.
// A missing key counts from 0.
func (s *SQLiteStore) Incr(ctx context.Context, key string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("tally/store: incr: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM tally_values WHERE key = ?`, key,
	).Scan(&current)

	if err == sql.ErrNoRows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tally_values (key, value) VALUES (?, '1')`, key,
		); err != nil {
			return 0, fmt.Errorf("tally/store: incr: %w", err)
		}
		return 1, tx.Commit()
	}
	if err != nil {
		return 0, fmt.Errorf("tally/store: incr: %w", err)
	}

	n, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("tally/store: incr %s: value is not an integer", key)
	}
	n++
	if _, err := tx.ExecContext(ctx,
		`UPDATE tally_values SET value = ? WHERE key = ?`,
		strconv.FormatInt(n, 10), key,
	); err != nil {
		return 0, fmt.Errorf("tally/store: incr: %w", err)
	}
	return n, tx.Commit()
}

// Exists reports whether key holds a value or a non-empty list.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tally_values WHERE key = ?)
		     OR EXISTS(SELECT 1 FROM tally_lists WHERE key = ?)`,
		key, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tally/store: exists: %w", err)
	}
	return exists, nil
}

// Append pushes value onto the tail of the list at key.
func (s *SQLiteStore) Append(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tally_lists (key, seq, value)
		 SELECT ?, COALESCE(MAX(seq), -1) + 1, ? FROM tally_lists WHERE key = ?`,
		key, value, key,
	)
	if err != nil {
		return fmt.Errorf("tally/store: append: %w", err)
	}
	return nil
}

// PopFront removes and returns the head of the list at key.
func (s *SQLiteStore) PopFront(ctx context.Context, key string) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("tally/store: pop front: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	var v string
	err = tx.QueryRowContext(ctx,
		`SELECT seq, value FROM tally_lists WHERE key = ? ORDER BY seq LIMIT 1`, key,
	).Scan(&seq, &v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: pop front: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tally_lists WHERE key = ? AND seq = ?`, key, seq,
	); err != nil {
		return "", false, fmt.Errorf("tally/store: pop front: %w", err)
	}
	return v, true, tx.Commit()
}

// PushFront prepends value to the list at key.
func (s *SQLiteStore) PushFront(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tally_lists (key, seq, value)
		 SELECT ?, COALESCE(MIN(seq), 1) - 1, ? FROM tally_lists WHERE key = ?`,
		key, value, key,
	)
	if err != nil {
		return fmt.Errorf("tally/store: push front: %w", err)
	}
	return nil
}

// Last returns the tail element of the list at key without removing it.
func (s *SQLiteStore) Last(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tally_lists WHERE key = ? ORDER BY seq DESC LIMIT 1`, key,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: last: %w", err)
	}
	return v, true, nil
}

// Len returns the length of the list at key.
func (s *SQLiteStore) Len(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tally_lists WHERE key = ?`, key,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("tally/store: len: %w", err)
	}
	return n, nil
}

// Delete removes the given keys from both the scalar and list tables.
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tally/store: delete: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tally_values WHERE key = ?`, key,
		); err != nil {
			return fmt.Errorf("tally/store: delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tally_lists WHERE key = ?`, key,
		); err != nil {
			return fmt.Errorf("tally/store: delete: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying SQLite database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
