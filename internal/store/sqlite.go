// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/certprep/cbt/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS state_slices (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
    id TEXT PRIMARY KEY,
    certificate_id TEXT NOT NULL,
    cert_name TEXT NOT NULL,
    ui TEXT NOT NULL,
    score INTEGER NOT NULL,
    correct_count INTEGER NOT NULL,
    total INTEGER NOT NULL,
    left_time INTEGER NOT NULL,
    finished_at TEXT NOT NULL,
    submitted INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS attempts_certificate ON attempts (certificate_id, finished_at);
`

// timeLayout is fixed width so finished_at sorts as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// State slices
// ============================================================================

// SaveSlices replaces the stored slices with the given set in one transaction.
// Slices missing from the set are removed, so a cleared slice stays cleared.
func (s *SQLiteStore) SaveSlices(ctx context.Context, slices map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM state_slices"); err != nil {
		return err
	}
	for name, body := range slices {
		if _, err := tx.ExecContext(ctx, "INSERT INTO state_slices (name, body) VALUES (?, ?)", name, string(body)); err != nil {
			return errors.Wrapf(err, "save slice %s", name)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadSlices(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, body FROM state_slices")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		out[name] = json.RawMessage(body)
	}
	return out, rows.Err()
}

// ============================================================================
// Attempts
// ============================================================================

func (s *SQLiteStore) SaveAttempt(ctx context.Context, rec state.AttemptRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, certificate_id, cert_name, ui, score, correct_count, total, left_time, finished_at, submitted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CertificateID, rec.CertName, rec.UI, rec.Score, rec.CorrectCount, rec.Total, rec.LeftTime,
		rec.FinishedAt.UTC().Format(timeLayout), rec.Submitted,
	)
	return err
}

const attemptColumns = "id, certificate_id, cert_name, ui, score, correct_count, total, left_time, finished_at, submitted"

func (s *SQLiteStore) GetAttempt(ctx context.Context, id string) (state.AttemptRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+attemptColumns+" FROM attempts WHERE id = ?", id)
	rec, err := scanAttempt(row)
	if err == sql.ErrNoRows {
		return state.AttemptRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, certificateID string) ([]state.AttemptRecord, error) {
	query := "SELECT " + attemptColumns + " FROM attempts"
	var args []any
	if certificateID != "" {
		query += " WHERE certificate_id = ?"
		args = append(args, certificateID)
	}
	query += " ORDER BY finished_at DESC"
	return s.queryAttempts(ctx, query, args...)
}

func (s *SQLiteStore) ListPending(ctx context.Context) ([]state.AttemptRecord, error) {
	return s.queryAttempts(ctx, "SELECT "+attemptColumns+
		" FROM attempts WHERE submitted = 0 AND certificate_id != '' ORDER BY finished_at ASC")
}

func (s *SQLiteStore) MarkSubmitted(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE attempts SET submitted = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) queryAttempts(ctx context.Context, query string, args ...any) ([]state.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []state.AttemptRecord
	for rows.Next() {
		rec, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(sc scanner) (state.AttemptRecord, error) {
	var rec state.AttemptRecord
	var finished string
	if err := sc.Scan(&rec.ID, &rec.CertificateID, &rec.CertName, &rec.UI, &rec.Score,
		&rec.CorrectCount, &rec.Total, &rec.LeftTime, &finished, &rec.Submitted); err != nil {
		return state.AttemptRecord{}, err
	}
	t, err := time.Parse(timeLayout, finished)
	if err != nil {
		return state.AttemptRecord{}, errors.Wrapf(err, "attempt %s finished_at", rec.ID)
	}
	rec.FinishedAt = t
	return rec, nil
}
