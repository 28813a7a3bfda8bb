package indexer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"docsearch/internal/classify"
	"docsearch/internal/extract"
	"docsearch/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T, root string) (*Indexer, *memory.DocumentRepository) {
	t.Helper()

	classifier, err := classify.New()
	require.NoError(t, err)

	repo := memory.NewDocumentRepository()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return New(repo, classifier, extract.NewRegistry(), root, logger), repo
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexFile_WritesRecord(t *testing.T) {
	root := t.TempDir()
	ix, repo := newTestIndexer(t, root)
	path := writeFile(t, root, "sub/a.txt", "hello world")

	doc, err := ix.IndexFile(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "a.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "sub/a.txt", doc.RelativePath)
	assert.Equal(t, ".txt", doc.FileType)
	assert.Equal(t, int64(len("hello world")), doc.Size)
	assert.Equal(t, "hello world", doc.Content)
	assert.Contains(t, doc.Preview, "data:text/plain;base64,")
	assert.False(t, doc.CreatedAt.IsZero())
	assert.False(t, doc.IndexedAt.IsZero())

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndexFile_Idempotent(t *testing.T) {
	root := t.TempDir()
	ix, _ := newTestIndexer(t, root)
	path := writeFile(t, root, "a.txt", "stable content")

	first, err := ix.IndexFile(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, first)

	time.Sleep(5 * time.Millisecond)

	second, err := ix.IndexFile(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, second)

	// Same identity and content, advanced indexed_at.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.Content, second.Content)
	assert.True(t, second.IndexedAt.After(first.IndexedAt))
}

func TestIndexFile_SkipsWithoutRecord(t *testing.T) {
	root := t.TempDir()
	ix, repo := newTestIndexer(t, root)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string {
			return filepath.Join(root, "gone.txt")
		}},
		{"directory", func(t *testing.T) string {
			dir := filepath.Join(root, "adir.txt")
			require.NoError(t, os.MkdirAll(dir, 0o755))
			return dir
		}},
		{"unsupported extension", func(t *testing.T) string {
			return writeFile(t, root, "tool.exe", "MZbinary")
		}},
		{"empty content", func(t *testing.T) string {
			return writeFile(t, root, "empty.txt", "")
		}},
		{"malformed pdf", func(t *testing.T) string {
			return writeFile(t, root, "broken.pdf", "not a pdf")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ix.IndexFile(context.Background(), tt.path(t))
			require.NoError(t, err)
			assert.Nil(t, doc)
		})
	}

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScanTree_IndexesSupportedFiles(t *testing.T) {
	root := t.TempDir()
	ix, repo := newTestIndexer(t, root)

	writeFile(t, root, "a.txt", "hello world")
	writeFile(t, root, "docs/b.txt", "nested notes")
	writeFile(t, root, "c.exe", "MZbinary")

	require.NoError(t, ix.ScanTree(context.Background()))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	doc, err := repo.GetByRelativePath(context.Background(), "docs/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested notes", doc.Content)
}

func TestScanTree_MissingRoot(t *testing.T) {
	ix, repo := newTestIndexer(t, filepath.Join(t.TempDir(), "nope"))

	// Missing root is logged, not an error.
	require.NoError(t, ix.ScanTree(context.Background()))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScanTree_ConcurrentScansLeaveOneRecordPerFile(t *testing.T) {
	root := t.TempDir()
	ix, repo := newTestIndexer(t, root)

	writeFile(t, root, "a.txt", "alpha")
	writeFile(t, root, "b.txt", "beta")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ix.ScanTree(context.Background()))
		}()
	}
	wg.Wait()

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Identity is stable across overlapping scans.
	before, err := repo.GetByRelativePath(context.Background(), "a.txt")
	require.NoError(t, err)
	require.NoError(t, ix.ScanTree(context.Background()))
	after, err := repo.GetByRelativePath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
}

func TestReconcile_RemovesOrphans(t *testing.T) {
	root := t.TempDir()
	ix, repo := newTestIndexer(t, root)

	keep := writeFile(t, root, "keep.txt", "still here")
	gone := writeFile(t, root, "gone.txt", "about to vanish")

	require.NoError(t, ix.ScanTree(context.Background()))
	require.NoError(t, os.Remove(gone))

	removed, err := ix.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	paths, err := repo.ListPaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, paths)
}

func TestReconcile_NothingToRemove(t *testing.T) {
	root := t.TempDir()
	ix, _ := newTestIndexer(t, root)

	writeFile(t, root, "a.txt", "content")
	require.NoError(t, ix.ScanTree(context.Background()))

	removed, err := ix.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
