// Package eventlog persists guidance session events in SQLite for the
// dashboard and for offline tuning of thresholds.
package eventlog

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/seeksense/go-seeksense/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS transitions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL,
    from_pattern TEXT NOT NULL,
    to_pattern  TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transitions_session ON transitions(session_id, id);

CREATE TABLE IF NOT EXISTS playbacks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    pulse_count INTEGER NOT NULL,
    intensity   TEXT NOT NULL,
    kind        TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playbacks_session ON playbacks(session_id, id);
`

// Transition is one recorded pattern change.
type Transition struct {
	SessionID string    `json:"session_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

// Playback is one recorded haptic playback start.
type Playback struct {
	SessionID  string    `json:"session_id"`
	Pattern    string    `json:"pattern"`
	PulseCount int       `json:"pulse_count"`
	Intensity  string    `json:"intensity"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists session events in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the event log at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// RecordTransition persists one pattern transition.
func (s *Store) RecordTransition(sessionID, from, to string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO transitions (session_id, from_pattern, to_pattern, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, from, to, at.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// RecordPlayback persists one playback start.
func (s *Store) RecordPlayback(sessionID, pattern string, pulseCount int, intensity, kind string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO playbacks (session_id, pattern, pulse_count, intensity, kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, pattern, pulseCount, intensity, kind, at.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// RecentTransitions returns up to limit transitions for a session,
// newest first.
func (s *Store) RecentTransitions(sessionID string, limit int) ([]Transition, error) {
	rows, err := s.db.Query(
		`SELECT session_id, from_pattern, to_pattern, created_at
		 FROM transitions WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		var created string
		if err := rows.Scan(&t.SessionID, &t.From, &t.To, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTimestamp(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecentPlaybacks returns up to limit playbacks for a session,
// newest first.
func (s *Store) RecentPlaybacks(sessionID string, limit int) ([]Playback, error) {
	rows, err := s.db.Query(
		`SELECT session_id, pattern, pulse_count, intensity, kind, created_at
		 FROM playbacks WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Playback
	for rows.Next() {
		var p Playback
		var created string
		if err := rows.Scan(&p.SessionID, &p.Pattern, &p.PulseCount, &p.Intensity, &p.Kind, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTimestamp(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// parseTimestamp decodes a stored timestamp. A corrupt value yields the
// zero time and a debug log rather than failing the whole query.
func parseTimestamp(s string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Debug("event log timestamp malformed", "value", s, "error", err)
	}
	return ts
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
