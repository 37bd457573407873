package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "laytime.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	raw_lines  INTEGER NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshots (
	id            TEXT PRIMARY KEY,
	port_call_ref TEXT NOT NULL,
	snapshot      TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_extractions_document ON extractions(document);
CREATE INDEX IF NOT EXISTS idx_snapshots_port_call ON snapshots(port_call_ref);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveExtraction(ctx context.Context, documentName string, rawLineCount int, result model.NormalizeResult) (*ExtractionRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, document, raw_lines, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, documentName, rawLineCount, string(resultJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert extraction")
	}

	return &ExtractionRecord{
		ID:           id,
		DocumentName: documentName,
		RawLineCount: rawLineCount,
		Result:       result,
		CreatedAt:    now,
	}, nil
}

func (s *SQLiteStore) GetExtraction(ctx context.Context, id string) (*ExtractionRecord, error) {
	var rec ExtractionRecord
	var resultJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document, raw_lines, result, created_at FROM extractions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.DocumentName, &rec.RawLineCount, &resultJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: extraction %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get extraction")
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListExtractions(ctx context.Context, limit int) ([]ExtractionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, raw_lines, result, created_at FROM extractions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list extractions")
	}
	defer rows.Close()

	var out []ExtractionRecord
	for rows.Next() {
		var rec ExtractionRecord
		var resultJSON string
		if err := rows.Scan(&rec.ID, &rec.DocumentName, &rec.RawLineCount, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan extraction")
		}
		if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, portCallRef string, snap model.Snapshot) (*SnapshotRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal snapshot")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, port_call_ref, snapshot, created_at) VALUES (?, ?, ?, ?)`,
		id, portCallRef, string(snapJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert snapshot")
	}

	return &SnapshotRecord{ID: id, PortCallRef: portCallRef, Snapshot: snap, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, portCallRef string, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, port_call_ref, snapshot, created_at FROM snapshots WHERE port_call_ref = ? ORDER BY created_at DESC LIMIT ?`,
		portCallRef, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var snapJSON string
		if err := rows.Scan(&rec.ID, &rec.PortCallRef, &snapJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		if err := json.Unmarshal([]byte(snapJSON), &rec.Snapshot); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal snapshot")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
