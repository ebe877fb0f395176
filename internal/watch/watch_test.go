package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewResolvesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "b.yaml"), filepath.Join(dir, "a.yaml"), filepath.Join(dir, "a.yaml")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")}, w.Files())
}

func TestRunDebouncesWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "fields.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(doc, []byte("version: \"1.0\"\n"), 0o600))

	w, err := New([]string{doc}, WithDelay(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) {
			calls <- changed
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(doc, []byte("version: \"1.1\"\n"), 0o600))
	}

	select {
	case changed := <-calls:
		require.Equal(t, []string{doc}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case changed := <-calls:
		t.Fatalf("unexpected second notification: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	w, err := New([]string{filepath.Join(t.TempDir(), "missing", "fields.yaml")})
	require.NoError(t, err)

	err = w.Run(context.Background(), func(context.Context, []string) {})
	require.Error(t, err)
}
