package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is an append-only journal of produced message signatures.
// It records digests, never message contents.
type Store struct {
	db *sql.DB
}

// Entry is one journaled signature.
type Entry struct {
	ID        int64
	Address   string
	Keypath   string
	Digest    string
	Signature string
	CreatedAt time.Time
}

// Open opens (or creates) the journal under dataDir/history.db.
func Open(dataDir string) (*Store, error) {
	return OpenDSN(filepath.Join(dataDir, "history.db"))
}

// OpenDSN opens (or creates) a journal using the given sqlite DSN/path.
// Tests may pass ":memory:" to avoid touching disk.
func OpenDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// A :memory: database lives per connection.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS signatures (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	address TEXT NOT NULL,
	keypath TEXT NOT NULL,
	digest TEXT NOT NULL,
	signature TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	if err != nil {
		return fmt.Errorf("create signatures table: %w", err)
	}
	return nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends an entry. ID and CreatedAt are assigned by the store.
func (s *Store) Record(e Entry) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("history store not initialized")
	}
	if e.Address == "" || e.Digest == "" || e.Signature == "" {
		return 0, fmt.Errorf("address, digest and signature are required")
	}

	res, err := s.db.Exec(
		`INSERT INTO signatures (address, keypath, digest, signature) VALUES (?, ?, ?, ?)`,
		e.Address, e.Keypath, e.Digest, e.Signature,
	)
	if err != nil {
		return 0, fmt.Errorf("persist signature: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, address, keypath, digest, signature, created_at FROM signatures ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Address, &e.Keypath, &e.Digest, &e.Signature, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTimestamp(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// parseTimestamp accepts both sqlite's CURRENT_TIMESTAMP text and the
// RFC 3339 form the driver produces for TIMESTAMP columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
