// Package indexer walks the document root, extracts content from supported
// files and keeps the document store in sync with the filesystem.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docsearch/internal/classify"
	"docsearch/internal/domain/models"
	"docsearch/internal/domain/repositories"
	"docsearch/internal/extract"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds parallel per-file indexing during a tree scan.
// Safe because each file's upsert key is independent.
const defaultConcurrency = 4

// Indexer orchestrates classify, extract and upsert for a document root.
type Indexer struct {
	repo        repositories.DocumentRepository
	classifier  *classify.Classifier
	extractors  *extract.Registry
	root        string
	concurrency int
	logger      *slog.Logger
}

// New creates an indexer for the given document root.
func New(
	repo repositories.DocumentRepository,
	classifier *classify.Classifier,
	extractors *extract.Registry,
	root string,
	logger *slog.Logger,
) *Indexer {
	return &Indexer{
		repo:        repo,
		classifier:  classifier,
		extractors:  extractors,
		root:        root,
		concurrency: defaultConcurrency,
		logger:      logger,
	}
}

// Root returns the document root this indexer serves.
func (ix *Indexer) Root() string {
	return ix.root
}

// IndexFile indexes a single file. It returns (nil, nil) for paths that do
// not produce a record: missing files, directories, unsupported formats,
// extraction failures and files with no extractable text. A record is
// written only when extraction produced non-empty content; a stale record
// from a prior scan is left in place when extraction stops producing text.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		ix.logger.Warn("file not readable", "path", path, "error", err)
		return nil, nil
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	format := ix.classifier.Classify(path)
	if format == classify.FormatUnsupported {
		return nil, nil
	}

	text, preview, err := ix.extractors.Extract(path, format)
	if err != nil {
		ix.logger.Warn("extraction failed, skipping file", "path", path, "format", format, "error", err)
		return nil, nil
	}
	if text == "" {
		return nil, nil
	}

	rel, err := filepath.Rel(ix.root, path)
	if err != nil {
		return nil, fmt.Errorf("relative path for %s: %w", path, err)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		ID:           uuid.NewString(),
		Name:         info.Name(),
		Path:         path,
		RelativePath: filepath.ToSlash(rel),
		FileType:     strings.ToLower(filepath.Ext(path)),
		Size:         info.Size(),
		Content:      text,
		Preview:      preview,
		CreatedAt:    now,
		UpdatedAt:    now,
		IndexedAt:    now,
	}

	// The upsert preserves id and created_at for an existing path, so a
	// re-indexed file keeps its identity while updated_at/indexed_at move.
	if err := ix.repo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", path, err)
	}

	ix.logger.Info("indexed file", "path", path, "size", info.Size())
	return doc, nil
}

// ScanTree walks the document root and indexes every supported file.
// Per-file failures are logged and isolated; one bad file never aborts the
// scan of the remaining tree. A missing root is a warning, not an error.
func (ix *Indexer) ScanTree(ctx context.Context) error {
	if _, err := os.Stat(ix.root); err != nil {
		ix.logger.Warn("document root does not exist, skipping scan", "root", ix.root)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)

	walkErr := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ix.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !ix.classifier.SupportedExt(path) {
			return nil
		}

		g.Go(func() error {
			if _, err := ix.IndexFile(gctx, path); err != nil {
				// Store failures abandon this file only; it is
				// retried when the next scan reaches it.
				ix.logger.Error("indexing failed", "path", path, "error", err)
			}
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("scan tree: %w", err)
	}
	if walkErr != nil {
		return fmt.Errorf("walk %s: %w", ix.root, walkErr)
	}

	return nil
}

// Reconcile removes store records whose files no longer exist on disk.
// This is a deliberate, separate operation: regular scans only append and
// update, so deletions accumulate as stale records until reconciliation
// runs.
func (ix *Indexer) Reconcile(ctx context.Context) (int64, error) {
	stored, err := ix.repo.ListPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored paths: %w", err)
	}

	var orphans []string
	for _, path := range stored {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			orphans = append(orphans, path)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	removed, err := ix.repo.DeleteByPaths(ctx, orphans)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned records: %w", err)
	}

	ix.logger.Info("reconciled store against filesystem", "removed", removed)
	return removed, nil
}
