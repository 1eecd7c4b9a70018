package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_MissingDirectory_ReturnsError(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "gone", "doc.md")}, func(string) {})
	require.Error(t, err)
}

func TestWatcher_FileWrite_InvokesCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# hello\n"), 0o644))

	changed := make(chan string, 1)
	w, err := New([]string{path}, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to start consuming events.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("# changed\n"), 0o644))

	select {
	case p := <-changed:
		abs, err := filepath.Abs(p)
		require.NoError(t, err)
		wantAbs, err := filepath.Abs(path)
		require.NoError(t, err)
		require.Equal(t, wantAbs, abs)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher to stop")
	}
}

func TestWatcher_UnwatchedSibling_DoesNotInvokeCallback(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "doc.md")
	sibling := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(watched, []byte("a\n"), 0o644))

	changed := make(chan string, 1)
	w, err := New([]string{watched}, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(sibling, []byte("b\n"), 0o644))

	select {
	case p := <-changed:
		t.Fatalf("unexpected notification for %s", p)
	case <-time.After(500 * time.Millisecond):
	}
}
