package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id         UUID PRIMARY KEY,
	document   TEXT NOT NULL,
	raw_lines  INTEGER NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	id            UUID PRIMARY KEY,
	port_call_ref TEXT NOT NULL,
	snapshot      JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_extractions_document ON extractions(document);
CREATE INDEX IF NOT EXISTS idx_snapshots_port_call ON snapshots(port_call_ref);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveExtraction(ctx context.Context, documentName string, rawLineCount int, result model.NormalizeResult) (*ExtractionRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO extractions (id, document, raw_lines, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, documentName, rawLineCount, resultJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert extraction")
	}

	return &ExtractionRecord{
		ID:           id,
		DocumentName: documentName,
		RawLineCount: rawLineCount,
		Result:       result,
		CreatedAt:    now,
	}, nil
}

func (s *PostgresStore) GetExtraction(ctx context.Context, id string) (*ExtractionRecord, error) {
	var rec ExtractionRecord
	var resultJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, document, raw_lines, result, created_at FROM extractions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.DocumentName, &rec.RawLineCount, &resultJSON, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: extraction %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get extraction")
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &rec, nil
}

func (s *PostgresStore) ListExtractions(ctx context.Context, limit int) ([]ExtractionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, document, raw_lines, result, created_at FROM extractions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list extractions")
	}
	defer rows.Close()

	var out []ExtractionRecord
	for rows.Next() {
		var rec ExtractionRecord
		var resultJSON []byte
		if err := rows.Scan(&rec.ID, &rec.DocumentName, &rec.RawLineCount, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan extraction")
		}
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, portCallRef string, snap model.Snapshot) (*SnapshotRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal snapshot")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, port_call_ref, snapshot, created_at) VALUES ($1, $2, $3, $4)`,
		id, portCallRef, snapJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert snapshot")
	}

	return &SnapshotRecord{ID: id, PortCallRef: portCallRef, Snapshot: snap, CreatedAt: now}, nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, portCallRef string, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, port_call_ref, snapshot, created_at FROM snapshots WHERE port_call_ref = $1 ORDER BY created_at DESC LIMIT $2`,
		portCallRef, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var snapJSON []byte
		if err := rows.Scan(&rec.ID, &rec.PortCallRef, &snapJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		if err := json.Unmarshal(snapJSON, &rec.Snapshot); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal snapshot")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
