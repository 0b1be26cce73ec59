package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeDart(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("void main() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSnapshotsEqual(t *testing.T) {
	now := time.Now()

	a := map[string]fileSnapshot{
		"lib/main.dart":  {modTime: now, size: 100},
		"lib/login.dart": {modTime: now, size: 200},
	}
	b := map[string]fileSnapshot{
		"lib/main.dart":  {modTime: now, size: 100},
		"lib/login.dart": {modTime: now, size: 200},
	}
	if !snapshotsEqual(a, b) {
		t.Error("identical snapshots should be equal")
	}

	// Different size
	c := map[string]fileSnapshot{
		"lib/main.dart":  {modTime: now, size: 101},
		"lib/login.dart": {modTime: now, size: 200},
	}
	if snapshotsEqual(a, c) {
		t.Error("different size should not be equal")
	}

	// Different mtime
	d := map[string]fileSnapshot{
		"lib/main.dart":  {modTime: now.Add(time.Second), size: 100},
		"lib/login.dart": {modTime: now, size: 200},
	}
	if snapshotsEqual(a, d) {
		t.Error("different mtime should not be equal")
	}

	// Missing file
	e := map[string]fileSnapshot{
		"lib/main.dart": {modTime: now, size: 100},
	}
	if snapshotsEqual(a, e) {
		t.Error("different file count should not be equal")
	}

	// Both empty
	if !snapshotsEqual(map[string]fileSnapshot{}, map[string]fileSnapshot{}) {
		t.Error("both empty should be equal")
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		files    int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{70, 1 * time.Second},
		{499, 1 * time.Second},
		{500, 2 * time.Second},
		{2000, 5 * time.Second},
		{5000, 11 * time.Second},
		{50000, 60 * time.Second},
		{100000, 60 * time.Second},
	}
	for _, tt := range tests {
		got := pollInterval(tt.files)
		if got != tt.expected {
			t.Errorf("pollInterval(%d) = %v, want %v", tt.files, got, tt.expected)
		}
	}
}

func TestCaptureSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	writeDart(t, tmpDir, "lib/main.dart")

	w := New(tmpDir, nil, nil)
	snap, err := w.captureSnapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(snap) != 1 {
		t.Fatalf("expected 1 file, got %d", len(snap))
	}
	s, ok := snap["lib/main.dart"]
	if !ok {
		t.Fatal("expected lib/main.dart in snapshot")
	}
	if s.size == 0 || s.modTime.IsZero() {
		t.Errorf("incomplete snapshot entry: %+v", s)
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	dartFile := writeDart(t, tmpDir, "lib/main.dart")

	var scanCount atomic.Int32
	w := New(tmpDir, nil, func(context.Context, string) error {
		scanCount.Add(1)
		return nil
	})
	ctx := context.Background()

	// First poll — baseline capture, no scan
	w.poll(ctx)
	if scanCount.Load() != 0 {
		t.Errorf("first poll should not trigger scan, got %d", scanCount.Load())
	}

	// Poll again without changes — no scan
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if scanCount.Load() != 0 {
		t.Errorf("no-change poll should not trigger scan, got %d", scanCount.Load())
	}

	// Modify the file
	now := time.Now().Add(time.Second)
	if err := os.Chtimes(dartFile, now, now); err != nil {
		t.Fatal(err)
	}

	w.nextPoll = time.Time{}
	w.poll(ctx)
	if scanCount.Load() != 1 {
		t.Errorf("changed file should trigger scan, got %d", scanCount.Load())
	}
}

func TestWatcherNewFileTriggersScan(t *testing.T) {
	tmpDir := t.TempDir()
	writeDart(t, tmpDir, "lib/main.dart")

	var scanCount atomic.Int32
	w := New(tmpDir, nil, func(context.Context, string) error {
		scanCount.Add(1)
		return nil
	})
	ctx := context.Background()

	// Baseline
	w.poll(ctx)

	writeDart(t, tmpDir, "lib/settings.dart")
	w.nextPoll = time.Time{}
	w.poll(ctx)
	if scanCount.Load() != 1 {
		t.Errorf("new file should trigger scan, got %d", scanCount.Load())
	}
}

func TestWatcherSkipsMissingRoot(t *testing.T) {
	var scanCount atomic.Int32
	w := New("/nonexistent/path", nil, func(context.Context, string) error {
		scanCount.Add(1)
		return nil
	})

	w.poll(context.Background())
	if scanCount.Load() != 0 {
		t.Errorf("should not scan missing root, got %d", scanCount.Load())
	}
}

func TestWatcherCancellation(t *testing.T) {
	w := New(t.TempDir(), nil, func(context.Context, string) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
		// OK — goroutine exited cleanly
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
