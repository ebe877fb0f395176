package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/livepreview/internal/logger"
)

func TestWatchPicksUpFiltersAddedAfterStart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeDoc(t, dir, "fields.yaml", cleanDoc)
	out := filepath.Join(dir, "preview.js")
	banner := filepath.Join(dir, "banner.star")
	withFilter := strings.Replace(cleanDoc, "fields:\n", "build:\n  filters:\n    - path: banner.star\nfields:\n", 1)

	cmd := newWatchCmd(&rootFlags{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, cmd, logger.Nop(), &watchOptions{configPath: doc, output: out, delay: 20 * time.Millisecond})
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	readOutput := func() string {
		data, _ := os.ReadFile(out)
		return string(data)
	}
	writeBanner := func(text string) {
		content := "def filter(script):\n    return \"/* " + text + " */\\n\" + script\n"
		_ = os.WriteFile(banner, []byte(content), 0o644)
	}

	require.Eventually(t, func() bool { return readOutput() == bodyColorProcedure }, 5*time.Second, 20*time.Millisecond)

	writeBanner("first")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(doc, []byte(withFilter), 0o644)
		return readOutput() == "/* first */\n"+bodyColorProcedure
	}, 5*time.Second, 100*time.Millisecond)

	// The document stays unchanged from here on.
	require.Eventually(t, func() bool {
		writeBanner("second")
		return readOutput() == "/* second */\n"+bodyColorProcedure
	}, 5*time.Second, 100*time.Millisecond)
}

func TestWatchedFilesIncludeFilters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeDoc(t, dir, "fields.yaml", strings.Replace(cleanDoc, "fields:\n",
		"build:\n  filters:\n    - path: z.star\n    - path: a.star\n    - path: a.star\nfields:\n", 1))

	p, err := loadProject("watch", doc)
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(dir, "a.star"),
		filepath.Join(dir, "fields.yaml"),
		filepath.Join(dir, "z.star"),
	}, p.watchedFiles())
}
