// Package store persists the session credential side-channel: the raw
// token and whether it was last verified. Nothing else survives a
// restart; transcripts live and die with the session.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSession is returned by Load when nothing was persisted yet.
var ErrNoSession = errors.New("no persisted session")

// Session is the persisted credential state.
type Session struct {
	Token     string
	Verified  bool
	UpdatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the session database under the
// user data directory.
func Open() (*Store, error) {
	dataDir, err := dataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "session.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func dataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "hubchat"), nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the single session row.
func (s *Store) Save(token string, verified bool) error {
	_, err := s.db.Exec(
		`INSERT INTO session (id, token, verified, updated_at)
		 VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		   token = excluded.token,
		   verified = excluded.verified,
		   updated_at = CURRENT_TIMESTAMP`,
		token, verified,
	)
	return err
}

// Load returns the persisted session, or ErrNoSession.
func (s *Store) Load() (Session, error) {
	row := s.db.QueryRow(`SELECT token, verified, updated_at FROM session WHERE id = 1`)

	var sess Session
	err := row.Scan(&sess.Token, &sess.Verified, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Clear drops the persisted session. Called when verification fails so a
// stale token never restores as verified.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
