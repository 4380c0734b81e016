package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReportsFightFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "fight.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-fw.Events():
			assert.Equal(t, target, ev.Path, "only fight files are reported")
			return
		case <-timeout:
			t.Fatal("no event for fight file")
		}
	}
}

func TestFileWatcherMissingPath(t *testing.T) {
	_, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestFileWatcherCloseClosesEvents(t *testing.T) {
	fw, err := NewFileWatcher([]string{t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, fw.Close())
	require.NoError(t, fw.Close(), "second close is a no-op")

	select {
	case _, ok := <-fw.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestBatchCoalescesBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event)
	batches := Batch(ctx, events, 20*time.Millisecond)

	events <- Event{Path: "b.json"}
	events <- Event{Path: "a.json"}
	events <- Event{Path: "b.json"}

	select {
	case batch := <-batches:
		assert.Equal(t, []string{"a.json", "b.json"}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch")
	}

	events <- Event{Path: "c.json"}
	close(events)

	batch, ok := <-batches
	require.True(t, ok)
	assert.Equal(t, []string{"c.json"}, batch)

	_, ok = <-batches
	assert.False(t, ok)
}

func TestBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	batches := Batch(ctx, make(chan Event), time.Hour)
	cancel()

	select {
	case _, ok := <-batches:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("batch channel not closed")
	}
}
