// Package memory provides an in-memory DocumentRepository used by tests
// and local development. Ranking is a naive occurrence count, standing in
// for the store's opaque relevance score.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docsearch/internal/domain"
	"docsearch/internal/domain/models"
	"docsearch/internal/domain/repositories"
)

// Ensure DocumentRepository implements the interface.
var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

// DocumentRepository is an in-memory implementation of
// repositories.DocumentRepository, keyed by absolute path.
type DocumentRepository struct {
	mu          sync.RWMutex
	byPath      map[string]models.Document
	searchCalls int
	indexCalls  int
}

// NewDocumentRepository creates a new in-memory document repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		byPath: make(map[string]models.Document),
	}
}

// Upsert stores or replaces the record for doc.Path, preserving id and
// created_at for an existing path like the real store does.
func (r *DocumentRepository) Upsert(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPath[doc.Path]; ok {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	}
	r.byPath[doc.Path] = *doc
	return nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(_ context.Context, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.byPath {
		if doc.ID == id {
			d := doc
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

// GetByRelativePath retrieves a document by relative path.
func (r *DocumentRepository) GetByRelativePath(_ context.Context, relativePath string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.byPath {
		if doc.RelativePath == relativePath {
			d := doc
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document at path '%s': %w", relativePath, domain.ErrNotFound)
}

// ListPaths returns all stored absolute paths.
func (r *DocumentRepository) ListPaths(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.byPath))
	for path := range r.byPath {
		paths = append(paths, path)
	}
	return paths, nil
}

// DeleteByPaths removes the given paths.
func (r *DocumentRepository) DeleteByPaths(_ context.Context, paths []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for _, path := range paths {
		if _, ok := r.byPath[path]; ok {
			delete(r.byPath, path)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored records.
func (r *DocumentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPath), nil
}

// Search matches case-insensitive substrings over content and name, with
// name matches weighted 2x, descending by score, capped at limit.
func (r *DocumentRepository) Search(_ context.Context, query string, limit int) ([]models.RankedDocument, error) {
	r.mu.Lock()
	r.searchCalls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var ranked []models.RankedDocument
	for _, doc := range r.byPath {
		score := float64(strings.Count(strings.ToLower(doc.Content), q)) +
			2.0*float64(strings.Count(strings.ToLower(doc.Name), q))
		if score > 0 {
			ranked = append(ranked, models.RankedDocument{Document: doc, Score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// EnsureSchema is a no-op for the in-memory store.
func (r *DocumentRepository) EnsureSchema(_ context.Context) error {
	return nil
}

// EnsureSearchIndex is a no-op for the in-memory store.
func (r *DocumentRepository) EnsureSearchIndex(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexCalls++
	return nil
}

// SearchCalls reports how many times Search was invoked. Test hook.
func (r *DocumentRepository) SearchCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.searchCalls
}

// EnsureSearchIndexCalls reports how many times EnsureSearchIndex was
// invoked. Test hook.
func (r *DocumentRepository) EnsureSearchIndexCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexCalls
}
