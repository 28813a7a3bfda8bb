package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docsearch/internal/domain"
	"docsearch/internal/filetree"
	"docsearch/internal/httputil"
)

// TreeHandler handles file-tree requests
type TreeHandler struct {
	builder *filetree.Builder
	root    string
	logger  *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(builder *filetree.Builder, root string, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		builder: builder,
		root:    root,
		logger:  logger,
	}
}

// GetFileTree returns the browsable hierarchy of folders and supported
// files, rebuilt from the filesystem on every request
// GET /api/file-tree
func (h *TreeHandler) GetFileTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.builder.Build(h.root)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondJSON(w, http.StatusOK, map[string]string{
				"error": "Document root not found",
			})
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
