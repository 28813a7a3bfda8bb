package repositories

import (
	"context"

	"docsearch/internal/domain/models"
)

// DocumentRepository is the document store boundary. The store provides
// atomic per-key upsert (keyed by absolute path) and a ranked full-text
// query; everything else in the system layers on top of those two
// capabilities.
type DocumentRepository interface {
	// Upsert inserts or replaces the record for doc.Path. On replace the
	// stored id and created_at are preserved; the caller's doc is updated
	// in place with the persisted values.
	Upsert(ctx context.Context, doc *models.Document) error

	// GetByID returns the record with the given id, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetByRelativePath returns the record for a path relative to the
	// document root, or domain.ErrNotFound.
	GetByRelativePath(ctx context.Context, relativePath string) (*models.Document, error)

	// ListPaths returns the absolute paths of all stored records.
	ListPaths(ctx context.Context) ([]string, error)

	// DeleteByPaths removes the records for the given absolute paths and
	// reports how many were deleted.
	DeleteByPaths(ctx context.Context, paths []string) (int64, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)

	// Search runs a ranked full-text query over content and name,
	// descending by relevance, capped at limit.
	Search(ctx context.Context, query string, limit int) ([]models.RankedDocument, error)

	// EnsureSchema creates the documents table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// EnsureSearchIndex creates the full-text indexes if they do not
	// exist. Idempotent; index-already-exists is not an error.
	EnsureSearchIndex(ctx context.Context) error
}
