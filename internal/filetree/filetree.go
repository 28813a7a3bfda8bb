// Package filetree builds the browsable directory hierarchy straight from
// the filesystem. It never touches the document store.
package filetree

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"docsearch/internal/classify"
	"docsearch/internal/domain"
	"docsearch/internal/domain/models"
)

// Builder constructs file trees rooted at the document root.
type Builder struct {
	classifier *classify.Classifier
	logger     *slog.Logger
}

// New creates a tree builder.
func New(classifier *classify.Classifier, logger *slog.Logger) *Builder {
	return &Builder{
		classifier: classifier,
		logger:     logger,
	}
}

// Build walks root depth-first and returns its tree. Children are sorted
// by name; directories are always included, files only when their
// extension is supported. Returns domain.ErrNotFound when root is missing.
func (b *Builder) Build(root string) (*models.FileTreeNode, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("document root %s: %w", root, domain.ErrNotFound)
	}

	return b.node(root, info.IsDir()), nil
}

func (b *Builder) node(path string, isDir bool) *models.FileTreeNode {
	kind := models.NodeKindFile
	if isDir {
		kind = models.NodeKindFolder
	}

	n := &models.FileTreeNode{
		Name:     filepath.Base(path),
		Path:     path,
		Kind:     kind,
		Children: []*models.FileTreeNode{},
	}
	if !isDir {
		return n
	}

	// os.ReadDir returns entries sorted by filename. Unreadable
	// directories render with whatever children could be listed.
	entries, err := os.ReadDir(path)
	if err != nil {
		b.logger.Warn("cannot list directory", "path", path, "error", err)
		return n
	}

	for _, entry := range entries {
		if !entry.IsDir() && !b.classifier.SupportedExt(entry.Name()) {
			continue
		}
		n.Children = append(n.Children, b.node(filepath.Join(path, entry.Name()), entry.IsDir()))
	}

	return n
}
