package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/watch"
)

func TestWatcherRefreshesOnFileChange(t *testing.T) {
	root := t.TempDir()
	docPath := filepath.Join(root, "doc.adoc")
	require.NoError(t, os.WriteFile(docPath, []byte("= Title\n\nbody\n"), 0o644))

	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Refresh())

	w := watch.New(root, ix, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to install its recursive watch before editing.
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(docPath, []byte("= Title\n\nupdated body\n"), 0o644))

	require.Eventually(t, func() bool {
		sec, ok := ix.Section("title")
		return ok && sec.Content == "updated body"
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
