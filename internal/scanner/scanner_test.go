package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docsearch/internal/classify"
	"docsearch/internal/extract"
	"docsearch/internal/indexer"
	"docsearch/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T, root string, interval time.Duration) (*Scanner, *memory.DocumentRepository) {
	t.Helper()

	classifier, err := classify.New()
	require.NoError(t, err)

	repo := memory.NewDocumentRepository()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ix := indexer.New(repo, classifier, extract.NewRegistry(), root, logger)

	return New(ix, interval, logger), repo
}

func TestTrigger_RunsScan(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	// Interval long enough that only the manual trigger can fire.
	sc, repo := newTestScanner(t, root, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx)

	before := sc.LastScan()
	assert.True(t, sc.Trigger())

	require.Eventually(t, func() bool {
		count, err := repo.Count(context.Background())
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return sc.LastScan().After(before)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTrigger_DroppedWhenPending(t *testing.T) {
	// No Run loop draining the queue: the first trigger stays pending.
	sc, _ := newTestScanner(t, t.TempDir(), time.Hour)

	assert.True(t, sc.Trigger())
	assert.False(t, sc.Trigger())
	assert.False(t, sc.Trigger())
}

func TestRun_PeriodicScan(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	sc, repo := newTestScanner(t, root, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx)

	require.Eventually(t, func() bool {
		count, err := repo.Count(context.Background())
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLastScan_InitializedAtStart(t *testing.T) {
	before := time.Now().UTC()
	sc, _ := newTestScanner(t, t.TempDir(), time.Hour)

	last := sc.LastScan()
	assert.False(t, last.IsZero())
	assert.False(t, last.Before(before))
}

func TestRun_StopsOnCancel(t *testing.T) {
	sc, _ := newTestScanner(t, t.TempDir(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop after cancel")
	}
}
