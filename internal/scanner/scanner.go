// Package scanner drives indexing: a fixed-interval background loop plus
// on-demand triggers, sharing one bounded work queue.
package scanner

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"docsearch/internal/indexer"
)

// Scanner owns the process-wide scan state: the periodic loop, the manual
// trigger queue and the last-scan timestamp.
type Scanner struct {
	indexer  *indexer.Indexer
	interval time.Duration
	triggers chan struct{}
	logger   *slog.Logger

	mu       sync.RWMutex
	lastScan time.Time
}

// New creates a scanner that rescans the tree every interval. The trigger
// queue holds a single pending scan; further triggers while one is pending
// are dropped rather than piling up unbounded work.
func New(ix *indexer.Indexer, interval time.Duration, logger *slog.Logger) *Scanner {
	return &Scanner{
		indexer:  ix,
		interval: interval,
		triggers: make(chan struct{}, 1),
		logger:   logger,
		lastScan: time.Now().UTC(),
	}
}

// Run consumes interval ticks and manual triggers until ctx is cancelled.
// A failing iteration is logged and the loop continues on the next tick; a
// single bad file or transient store error never terminates the loop.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scanner stopped")
			return
		case <-ticker.C:
		case <-s.triggers:
		}
		s.scan(ctx)
	}
}

// Trigger enqueues an out-of-band scan without waiting for it. Returns
// false when a scan is already pending, in which case that pending scan
// covers the request.
func (s *Scanner) Trigger() bool {
	select {
	case s.triggers <- struct{}{}:
		return true
	default:
		return false
	}
}

// LastScan returns the completion time of the most recent successful scan.
// Initialized to process start before any scan has finished.
func (s *Scanner) LastScan() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScan
}

func (s *Scanner) scan(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scan panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	s.logger.Info("starting directory scan", "root", s.indexer.Root())
	start := time.Now()

	if err := s.indexer.ScanTree(ctx); err != nil {
		s.logger.Error("directory scan failed", "error", err)
		return
	}

	// End-of-scan time: data is consistent as of this moment.
	s.mu.Lock()
	s.lastScan = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("directory scan completed", "duration", time.Since(start))
}
