package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Op
		ok   bool
	}{
		{fsnotify.Write, Modified, true},
		{fsnotify.Create, Created, true},
		{fsnotify.Remove, Removed, true},
		{fsnotify.Rename, Removed, true},
		{fsnotify.Create | fsnotify.Write, Created, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := classify(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in.String())
		if ok {
			assert.Equal(t, tt.want, got, tt.in.String())
		}
	}
}

func TestCoalesce(t *testing.T) {
	created := Event{Path: "a", Op: Created}

	got := coalesce(created, true, Event{Path: "a", Op: Modified})
	assert.Equal(t, Created, got.Op)

	got = coalesce(got, true, Event{Path: "a", Op: Removed})
	assert.Equal(t, Removed, got.Op)

	got = coalesce(Event{}, false, Event{Path: "b", Op: Modified})
	assert.Equal(t, Modified, got.Op)

	// Atomic save: the old file is renamed away, then a new one appears.
	got = coalesce(Event{Path: "c", Op: Removed}, true, Event{Path: "c", Op: Created})
	assert.Equal(t, Created, got.Op)
	got = coalesce(Event{Path: "d", Op: Removed}, true, Event{Path: "d", Op: Modified})
	assert.Equal(t, Removed, got.Op)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "unknown", Op(9).String())
}

func TestAdd(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	ok, err := w.Add(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = w.Add(file)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < 2; i++ {
		ok, err = w.Add(dir)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, []string{dir}, w.Dirs())
}

func TestAdd_AfterStop(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, err = w.Add(t.TempDir())
	assert.ErrorIs(t, err, ErrWatcherClosed)
}

func TestWatcher_ReportsDocumentChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := New(WithQuiet(10*time.Millisecond), WithExtensions(".yaml"))
	require.NoError(t, err)
	defer w.Stop()

	ok, err := w.Add(dir)
	require.NoError(t, err)
	require.True(t, ok)

	var mu sync.Mutex
	var got []string
	w.OnChange(func(Event) { panic("handler failure") })
	w.OnChange(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, filepath.Base(ev.Path))
	})
	w.Start(context.Background())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("a: 1\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, got, "config.yaml")
	assert.NotContains(t, got, "notes.txt")
}
