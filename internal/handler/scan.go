package handler

import (
	"log/slog"
	"net/http"

	"docsearch/internal/httputil"
	"docsearch/internal/indexer"
	"docsearch/internal/scanner"
)

// ScanHandler handles scan and reconciliation triggers
type ScanHandler struct {
	scanner *scanner.Scanner
	indexer *indexer.Indexer
	logger  *slog.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(sc *scanner.Scanner, ix *indexer.Indexer, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: sc,
		indexer: ix,
		logger:  logger,
	}
}

// TriggerScan enqueues an out-of-band scan and returns immediately.
// A dropped trigger means a scan is already pending, which covers the
// request either way.
// POST /api/scan
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	enqueued := h.scanner.Trigger()
	h.logger.Info("manual scan requested", "enqueued", enqueued)

	httputil.RespondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Scan initiated",
	})
}

// Reconcile synchronously prunes records whose files were deleted from
// disk. Kept separate from scans, which never remove records.
// POST /api/reconcile
func (h *ScanHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	removed, err := h.indexer.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("reconciliation failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{
		"removed": removed,
	})
}
