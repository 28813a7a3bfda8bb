package handler

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"docsearch/internal/domain/repositories"
	"docsearch/internal/httputil"
)

// DocumentHandler handles document lookup and download requests
type DocumentHandler struct {
	repo   repositories.DocumentRepository
	logger *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(repo repositories.DocumentRepository, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		repo:   repo,
		logger: logger,
	}
}

// Resolve dispatches the documents subtree. The by-path route takes
// arbitrary nested segments, which ServeMux cannot disambiguate from
// "{id}/download" (the patterns conflict on e.g. /path/download), so
// this subtree is routed by hand.
// GET /api/documents/...
func (h *DocumentHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	switch {
	case strings.HasPrefix(rest, "path/"):
		r.SetPathValue("path", strings.TrimPrefix(rest, "path/"))
		h.GetDocumentByPath(w, r)
	case strings.HasSuffix(rest, "/download") && strings.Count(rest, "/") == 1:
		r.SetPathValue("id", strings.TrimSuffix(rest, "/download"))
		h.DownloadDocument(w, r)
	case rest != "" && !strings.Contains(rest, "/"):
		r.SetPathValue("id", rest)
		h.GetDocument(w, r)
	default:
		httputil.RespondError(w, http.StatusNotFound, "no such route")
	}
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetDocumentByPath retrieves a document by its path relative to the
// document root
// GET /api/documents/path/{path...}
func (h *DocumentHandler) GetDocumentByPath(w http.ResponseWriter, r *http.Request) {
	relativePath := r.PathValue("path")
	if relativePath == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document path is required")
		return
	}

	doc, err := h.repo.GetByRelativePath(r.Context(), relativePath)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DownloadDocument streams the raw file bytes for a document
// GET /api/documents/{id}/download
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	// The record can outlive the file: scans never prune deletions.
	if _, err := os.Stat(doc.Path); err != nil {
		httputil.RespondError(w, http.StatusNotFound, "file not found on disk")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, doc.Path)
}
