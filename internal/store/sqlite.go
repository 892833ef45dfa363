package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/talentscout/internal/model"
)

// SQLiteStore archives finished interviews in a SQLite database.
// Candidate details, answers and transcripts are kept as JSON columns;
// timestamps are unix milliseconds so range queries compare numerically.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// interviews table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS interviews (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id      TEXT NOT NULL,
		candidate_name  TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		candidate_json  TEXT NOT NULL,
		answers_json    TEXT NOT NULL,
		transcript_json TEXT NOT NULL,
		started_at      INTEGER NOT NULL,
		completed_at    INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating interviews table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_interviews_completed ON interviews (completed_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating interviews index: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save appends a finished interview. The same session may be archived more
// than once if it was restarted and completed again.
func (s *SQLiteStore) Save(ctx context.Context, rec model.InterviewRecord) error {
	candidate, err := json.Marshal(rec.Candidate)
	if err != nil {
		return fmt.Errorf("encoding candidate for %s: %w", rec.SessionID, err)
	}
	answers, err := json.Marshal(nonNil(rec.Answers))
	if err != nil {
		return fmt.Errorf("encoding answers for %s: %w", rec.SessionID, err)
	}
	transcript, err := json.Marshal(nonNil(rec.Transcript))
	if err != nil {
		return fmt.Errorf("encoding transcript for %s: %w", rec.SessionID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO interviews
			(session_id, candidate_name, email, candidate_json, answers_json, transcript_json, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Candidate.FullName,
		rec.Candidate.Email,
		string(candidate),
		string(answers),
		string(transcript),
		rec.StartedAt.UnixMilli(),
		rec.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving interview %s: %w", rec.SessionID, err)
	}
	return nil
}

// List returns archived interviews, most recently completed first.
// limit <= 0 returns all of them.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.InterviewRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, candidate_json, answers_json, transcript_json, started_at, completed_at
		FROM interviews ORDER BY completed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	defer rows.Close()

	var out []model.InterviewRecord
	for rows.Next() {
		var (
			rec                            model.InterviewRecord
			candidate, answers, transcript string
			startedAt, completedAt         int64
		)
		if err := rows.Scan(&rec.SessionID, &candidate, &answers, &transcript, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning interview row: %w", err)
		}
		if err := json.Unmarshal([]byte(candidate), &rec.Candidate); err != nil {
			return nil, fmt.Errorf("decoding candidate for %s: %w", rec.SessionID, err)
		}
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers for %s: %w", rec.SessionID, err)
		}
		if err := json.Unmarshal([]byte(transcript), &rec.Transcript); err != nil {
			return nil, fmt.Errorf("decoding transcript for %s: %w", rec.SessionID, err)
		}
		rec.StartedAt = time.UnixMilli(startedAt)
		rec.CompletedAt = time.UnixMilli(completedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interviews: %w", err)
	}
	return out, nil
}

// Cleanup deletes interviews completed longer ago than olderThan and reports
// how many were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UnixMilli()
	res, err := s.db.ExecContext(ctx, "DELETE FROM interviews WHERE completed_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up interviews older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed interviews: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
