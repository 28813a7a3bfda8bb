package handler

import (
	"log/slog"
	"net/http"

	"docsearch/internal/domain/repositories"
	"docsearch/internal/httputil"
	"docsearch/internal/scanner"
)

// StatsHandler handles liveness and indexing statistics
type StatsHandler struct {
	repo    repositories.DocumentRepository
	scanner *scanner.Scanner
	root    string
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(repo repositories.DocumentRepository, sc *scanner.Scanner, root string, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		repo:    repo,
		scanner: sc,
		root:    root,
		logger:  logger,
	}
}

// Root is the API liveness endpoint
// GET /api/
func (h *StatsHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Document Search API",
		"status":  "running",
	})
}

// GetStats returns indexing statistics
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	total, err := h.repo.Count(r.Context())
	if err != nil {
		h.logger.Error("count documents", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"total_documents": total,
		"last_scan":       h.scanner.LastScan(),
		"document_root":   h.root,
	})
}
