// Package search runs ranked full-text queries against the document store
// and computes a human-readable snippet per hit.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"docsearch/internal/domain"
	"docsearch/internal/domain/models"
	"docsearch/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Snippet window sizes, in characters around the first query occurrence.
const (
	snippetBefore   = 50
	snippetAfter    = 100
	snippetFallback = 150
)

// Service answers search requests. Relevance ordering comes entirely from
// the store's ranking function; this service only guards the query, caps
// the limit and derives snippets.
type Service struct {
	repo         repositories.DocumentRepository
	logger       *slog.Logger
	indexEnsured atomic.Bool
}

// New creates a search service.
func New(repo repositories.DocumentRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Search executes a full-text query. A blank query returns an empty result
// set without a store round-trip.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return &models.SearchResponse{
			Results: []models.SearchResult{},
			Total:   0,
			Query:   req.Query,
		}, nil
	}

	req.ApplyDefaults()
	if err := s.validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.ensureIndex(ctx)

	ranked, err := s.repo.Search(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	results := make([]models.SearchResult, 0, len(ranked))
	for _, hit := range ranked {
		results = append(results, models.SearchResult{
			Document:       hit.Document,
			RelevanceScore: hit.Score,
			Snippet:        Snippet(hit.Document.Content, req.Query),
		})
	}

	return &models.SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   req.Query,
	}, nil
}

func (s *Service) validate(req *models.SearchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Limit, validation.Min(1), validation.Max(models.MaxSearchLimit)),
	)
}

// ensureIndex lazily creates the store's full-text indexes on first use.
// Creation is idempotent; a failure is logged and retried on the next
// search rather than failing the query, since the store can answer
// (slowly) without the indexes.
func (s *Service) ensureIndex(ctx context.Context) {
	if s.indexEnsured.Load() {
		return
	}
	if err := s.repo.EnsureSearchIndex(ctx); err != nil {
		s.logger.Warn("ensure search index", "error", err)
		return
	}
	s.indexEnsured.Store(true)
}

// Snippet extracts the excerpt shown with a hit. The window spans from 50
// characters before the first case-insensitive occurrence of the raw query
// to len(query)+100 characters after it, clamped to the content and wrapped
// in ellipsis markers. Without an occurrence it falls back to the first 150
// characters, ellipsis-suffixed when truncated. Counting characters rather
// than bytes keeps the window intact for non-ASCII text and never splits a
// rune.
func Snippet(content, query string) string {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		runes := []rune(content)
		if len(runes) > snippetFallback {
			return string(runes[:snippetFallback]) + "..."
		}
		return content
	}

	runes := []rune(content)
	matchStart := utf8.RuneCountInString(content[:idx])
	matchLen := utf8.RuneCountInString(query)

	start := matchStart - snippetBefore
	if start < 0 {
		start = 0
	}
	end := matchStart + matchLen + snippetAfter
	if end > len(runes) {
		end = len(runes)
	}

	return "..." + string(runes[start:end]) + "..."
}
