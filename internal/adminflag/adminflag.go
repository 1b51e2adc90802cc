// Package adminflag persists the session's advisory admin flag. The flag
// gates moderation UI, not security: reads fall back to false and writes
// are best-effort, so a broken store degrades to "not admin" instead of
// failing requests.
package adminflag

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const adminKey = "isAdmin"

// Store reads and writes the admin flag. Neither operation can fail from
// the caller's point of view.
type Store interface {
	IsAdmin() bool
	SetAdmin(admin bool)
}

// SQLiteStore keeps the flag in a local settings table so it survives
// restarts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) IsAdmin() bool {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, adminKey).Scan(&value)
	if err != nil {
		return false
	}
	return value == "true"
}

func (s *SQLiteStore) SetAdmin(admin bool) {
	if admin {
		s.db.Exec(`
			INSERT INTO settings (key, value) VALUES (?, 'true')
			ON CONFLICT(key) DO UPDATE SET value = 'true'
		`, adminKey)
		return
	}
	s.db.Exec(`DELETE FROM settings WHERE key = ?`, adminKey)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

// Memory is an in-memory Store for tests.
type Memory struct {
	mu    sync.Mutex
	admin bool
}

func (m *Memory) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admin
}

func (m *Memory) SetAdmin(admin bool) {
	m.mu.Lock()
	m.admin = admin
	m.mu.Unlock()
}

var _ Store = (*Memory)(nil)
