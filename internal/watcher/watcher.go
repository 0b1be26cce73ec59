// Package watcher polls a project root for Dart source changes and
// triggers a re-scan when the tree's mtime/size snapshot moves. Polling
// interval adapts to tree size so large projects cost less.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/arbiter-l10n/arbiter/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// ScanFunc is the callback signature for triggering a re-scan.
type ScanFunc func(ctx context.Context, rootPath string) error

// Watcher polls one project root for file changes.
type Watcher struct {
	rootPath string
	opts     *discover.Options
	scanFn   ScanFunc

	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// New creates a Watcher over rootPath. scanFn is called when changes
// are detected; opts carries the discovery exclusions so output files
// written by the scan itself never trigger another scan.
func New(rootPath string, opts *discover.Options, scanFn ScanFunc) *Watcher {
	return &Watcher{rootPath: rootPath, opts: opts, scanFn: scanFn}
}

// Run blocks until ctx is cancelled. Ticks at baseInterval, polling
// only when the adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().Before(w.nextPoll) {
				continue
			}
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the file tree and compares with previous.
// First poll: captures baseline without triggering a scan.
// Subsequent polls: triggers scanFn if any file changed.
func (w *Watcher) poll(ctx context.Context) {
	if _, err := os.Stat(w.rootPath); err != nil {
		slog.Warn("watcher.root_gone", "path", w.rootPath)
		w.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := w.captureSnapshot(ctx)
	if err != nil {
		slog.Warn("watcher.snapshot", "err", err)
		w.nextPoll = time.Now().Add(w.interval)
		return
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "files", len(snap))
	if err := w.scanFn(ctx, w.rootPath); err != nil {
		slog.Warn("watcher.scan", "err", err)
		// Keep old snapshot so we retry next cycle
		w.nextPoll = time.Now().Add(interval)
		return
	}

	// Scan may have rewritten sources; re-snapshot so the scan's own
	// writes are the new baseline instead of the next trigger.
	if after, err := w.captureSnapshot(ctx); err == nil {
		snap = after
	}
	w.snapshot = snap
	w.interval = pollInterval(len(snap))
	w.nextPoll = time.Now().Add(w.interval)
}

// captureSnapshot walks the file tree using discover.Discover and
// captures mtime+size for each file.
func (w *Watcher) captureSnapshot(ctx context.Context) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, w.rootPath, w.opts)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual returns true if two snapshots have identical files with same mtime+size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
