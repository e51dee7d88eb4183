package store

import (
	"context"
	"time"

	"github.com/abhisek/xpquest/internal/catalog"
)

// ImportRecord describes one catalog import.
type ImportRecord struct {
	Revision   int64
	Source     string
	Items      int
	Scenarios  int
	ImportedAt time.Time
}

// CatalogRepo stores a catalog and serves it back to the engines.
type CatalogRepo interface {
	catalog.Source

	// Import validates c and replaces the stored catalog with it in one
	// transaction. source is recorded in the import history.
	Import(ctx context.Context, c *catalog.Catalog, source string) (*ImportRecord, error)

	// Imports lists the import history, newest first. limit <= 0 means all.
	Imports(ctx context.Context, limit int) ([]ImportRecord, error)
}

var _ CatalogRepo = (*Store)(nil)
