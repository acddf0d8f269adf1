package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vines/internal/watcher"
)

// gitDirFixture lays out the parts of a .git directory the watcher cares
// about.
func gitDirFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "refs", "heads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index"), []byte("DIRC"), 0o644))
	return dir
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := gitDirFixture(t)
	indexPath := filepath.Join(dir, "index")

	w, err := watcher.New(watcher.Config{
		GitDir:      dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(indexPath, []byte(fmt.Sprintf("DIRC%d", i)), 0o644)
		require.NoError(t, err, "failed to write index")
		time.Sleep(10 * time.Millisecond)
	}

	// Should receive exactly one notification
	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_NotifiesOnHeadChange(t *testing.T) {
	dir := gitDirFixture(t)

	w, err := watcher.New(watcher.Config{
		GitDir:      dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/feature\n"), 0o644))

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for HEAD change")
	}
}

func TestWatcher_NotifiesOnBranchRefChange(t *testing.T) {
	dir := gitDirFixture(t)

	w, err := watcher.New(watcher.Config{
		GitDir:      dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	refPath := filepath.Join(dir, "refs", "heads", "main")
	require.NoError(t, os.WriteFile(refPath, []byte("a1b2c3d4\n"), 0o644))

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for ref update")
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := gitDirFixture(t)
	otherPath := filepath.Join(dir, "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0o644))
	lockPath := filepath.Join(dir, "index.lock")

	w, err := watcher.New(watcher.Config{
		GitDir:      dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(otherPath, []byte("wip message"), 0o644))
	require.NoError(t, os.WriteFile(lockPath, []byte(""), 0o644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := gitDirFixture(t)

	w, err := watcher.New(watcher.Config{
		GitDir:      dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/repo/.git")

	assert.Equal(t, "/repo/.git", cfg.GitDir)
	assert.Equal(t, 400*time.Millisecond, cfg.DebounceDur)
}
