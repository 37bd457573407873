// Package store persists extraction results and laytime snapshots. The
// core pipeline never touches it; commands and the HTTP surface do.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/seaward-group/laytime-cli/internal/config"
	"github.com/seaward-group/laytime-cli/internal/model"
)

// ExtractionRecord is one stored normalization run.
type ExtractionRecord struct {
	ID           string                `json:"id"`
	DocumentName string                `json:"document_name"`
	RawLineCount int                   `json:"raw_line_count"`
	Result       model.NormalizeResult `json:"result"`
	CreatedAt    time.Time             `json:"created_at"`
}

// SnapshotRecord is one stored laytime snapshot.
type SnapshotRecord struct {
	ID          string         `json:"id"`
	PortCallRef string         `json:"port_call_ref"`
	Snapshot    model.Snapshot `json:"snapshot"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Store defines the persistence interface for extraction runs and
// laytime snapshots.
type Store interface {
	SaveExtraction(ctx context.Context, documentName string, rawLineCount int, result model.NormalizeResult) (*ExtractionRecord, error)
	GetExtraction(ctx context.Context, id string) (*ExtractionRecord, error)
	ListExtractions(ctx context.Context, limit int) ([]ExtractionRecord, error)

	SaveSnapshot(ctx context.Context, portCallRef string, snap model.Snapshot) (*SnapshotRecord, error)
	ListSnapshots(ctx context.Context, portCallRef string, limit int) ([]SnapshotRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store based on config.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
