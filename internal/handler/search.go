package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docsearch/internal/domain"
	"docsearch/internal/domain/models"
	"docsearch/internal/httputil"
	"docsearch/internal/search"
)

// SearchHandler handles full-text search requests
type SearchHandler struct {
	searchService *search.Service
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *search.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search runs a ranked full-text query
// POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.searchService.Search(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Store failures during search are surfaced with detail,
		// unlike indexing-time failures which are only logged.
		h.logger.Error("search failed", "query", req.Query, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
