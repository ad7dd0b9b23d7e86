// Package journal records recording and navigation sessions in sqlite so
// field deployments can be audited after the fact. Writes happen at session
// boundaries or from the voice/announcement path, never on the per-frame
// pose path.
package journal

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal is a sqlite-backed session log.
type Journal struct {
	*sql.DB
}

// Open opens (creating if necessary) the journal database at path and
// ensures the base schema exists.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id   TEXT PRIMARY KEY,
			map_name     TEXT,
			mode         TEXT,
			started_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			ended_at     TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS events (
			event_id     INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT,
			kind         TEXT,
			detail       TEXT,
			timestamp    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &Journal{db}, nil
}

// BeginSession inserts a session row and returns its id.
func (j *Journal) BeginSession(mapName, mode string) (string, error) {
	id := uuid.New().String()
	_, err := j.Exec(
		"INSERT INTO sessions (session_id, map_name, mode) VALUES (?, ?, ?)",
		id, mapName, mode,
	)
	if err != nil {
		return "", fmt.Errorf("failed to begin session: %w", err)
	}
	return id, nil
}

// EndSession stamps a session's end time.
func (j *Journal) EndSession(id string) error {
	_, err := j.Exec(
		"UPDATE sessions SET ended_at = CURRENT_TIMESTAMP WHERE session_id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// RecordEvent appends one event row for a session. Kinds in use:
// route_planned, route_failed, milestone, off_route, turn_around, arrival.
func (j *Journal) RecordEvent(sessionID, kind, detail string) error {
	_, err := j.Exec(
		"INSERT INTO events (session_id, kind, detail) VALUES (?, ?, ?)",
		sessionID, kind, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// SessionEvents returns the kinds and details recorded for a session, in
// insertion order.
func (j *Journal) SessionEvents(sessionID string) ([][2]string, error) {
	rows, err := j.Query(
		"SELECT kind, detail FROM events WHERE session_id = ? ORDER BY event_id", sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var kind, detail string
		if err := rows.Scan(&kind, &detail); err != nil {
			return nil, err
		}
		out = append(out, [2]string{kind, detail})
	}
	return out, rows.Err()
}
