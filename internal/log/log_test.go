package log

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vines/internal/pubsub"
)

// Init is guarded by sync.Once, so all tests share one logger pointed at
// a temp file. Helpers swap the writer to inspect output per test.
func initTestLogger(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	cleanup, err := Init(path)
	if err == nil {
		t.Cleanup(cleanup)
	}
	require.NotNil(t, defaultLogger)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	defaultLogger.mu.Lock()
	defaultLogger.writer = f
	defaultLogger.mu.Unlock()
	SetEnabled(true)
	SetMinLevel(LevelDebug)
	return f
}

func readLog(t *testing.T, f *os.File) string {
	t.Helper()
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return string(data)
}

func TestLog_FormatsLevelCategoryAndFields(t *testing.T) {
	f := initTestLogger(t)

	Info(CatStage, "hunk staged", "file", "main.go", "hunk", 2)

	out := readLog(t, f)
	require.Contains(t, out, "[INFO]")
	require.Contains(t, out, "[stage]")
	require.Contains(t, out, "hunk staged")
	require.Contains(t, out, "file=main.go")
	require.Contains(t, out, "hunk=2")
}

func TestLog_OddFieldCountMarksMissing(t *testing.T) {
	f := initTestLogger(t)

	Debug(CatGraph, "page loaded", "skip")

	require.Contains(t, readLog(t, f), "skip=<missing>")
}

func TestLog_ErrorErrAppendsError(t *testing.T) {
	f := initTestLogger(t)

	ErrorErr(CatGit, "apply failed", os.ErrNotExist, "file", "a.go")

	out := readLog(t, f)
	require.Contains(t, out, "[ERROR]")
	require.Contains(t, out, "error=file does not exist")
}

func TestLog_MinLevelFilters(t *testing.T) {
	f := initTestLogger(t)
	SetMinLevel(LevelWarn)

	Debug(CatUI, "dropped")
	Info(CatUI, "also dropped")
	Warn(CatUI, "kept")

	out := readLog(t, f)
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "kept")
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	f := initTestLogger(t)
	SetEnabled(false)

	Error(CatWatcher, "should not appear")

	require.NotContains(t, readLog(t, f), "should not appear")
}

func TestLog_PublishesEntriesToListeners(t *testing.T) {
	initTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatCache, "cache flushed", "name", "commits")

	msg := listener.Listen()()
	event, ok := msg.(LogEvent)
	require.True(t, ok)
	require.Equal(t, pubsub.LogEntryEvent, event.Type)
	require.True(t, strings.Contains(event.Payload, "cache flushed"))
}
