// Package journal persists recorded violations to a local sqlite file.
// Persistence is the session controller's responsibility, not the
// engine's: only cmd/proctor-agent wires this in, via OnSecurityEvent.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

type Journal struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS violations (
		id TEXT PRIMARY KEY,
		seq INTEGER,
		type TEXT,
		severity TEXT,
		description TEXT,
		recorded_at DATETIME
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Journal{db: db}, nil
}

// Append stores one event. The primary key makes re-delivery harmless.
func (j *Journal) Append(ev model.SecurityEvent) error {
	_, err := j.db.Exec(
		"INSERT OR IGNORE INTO violations(id, seq, type, severity, description, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
		ev.ID, ev.Seq, string(ev.Type), string(ev.Severity), ev.Description, ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append violation: %w", err)
	}
	return nil
}

// Recent returns up to n events, newest first.
func (j *Journal) Recent(n int) ([]model.SecurityEvent, error) {
	rows, err := j.db.Query(
		"SELECT id, seq, type, severity, description, recorded_at FROM violations ORDER BY seq DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	var out []model.SecurityEvent
	for rows.Next() {
		var ev model.SecurityEvent
		var typ, sev, ts string
		if err := rows.Scan(&ev.ID, &ev.Seq, &typ, &sev, &ev.Description, &ts); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		ev.Type = model.EventType(typ)
		ev.Severity = model.Severity(sev)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ev.Timestamp = t
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
