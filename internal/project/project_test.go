package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func newTestIndex(t *testing.T, root string) *Index {
	t.Helper()
	ix, err := New(root, markup.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Refresh())
	return ix
}

// S1 — basic parse.
func TestRefreshBasicParse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.adoc", "= Intro\n\nHello.\n\n== Overview\n\nBody.\n")

	ix := newTestIndex(t, root)

	var got State
	ix.View(func(s *State) { got = *s })

	require.Len(t, got.SectionsByID, 2)
	require.Equal(t, []string{"main.adoc"}, got.RootFiles)

	intro, ok := got.SectionsByID["intro"]
	require.True(t, ok)
	require.Equal(t, 1, intro.Level)
	require.Equal(t, []string{"intro.overview"}, intro.Children)

	overview, ok := got.SectionsByID["intro.overview"]
	require.True(t, ok)
	require.Equal(t, "Body.", overview.Content)
	require.Equal(t, "intro", overview.ParentID)
}

// S2 — include resolution.
func TestRefreshIncludeResolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.adoc", "= Main\n\ninclude::_chap.adoc[]\n")
	writeFile(t, root, "_chap.adoc", "== Chap\n\ntext\n")

	ix := newTestIndex(t, root)

	var got State
	ix.View(func(s *State) { got = *s })

	require.Contains(t, got.SectionsByID, "main.chap")
	require.Equal(t, "_chap.adoc", got.SectionsByID["main.chap"].SourceFile)
	require.True(t, got.IsIncluded("_chap.adoc"))
	require.False(t, got.IsRootFile("_chap.adoc"))
	require.Equal(t, []string{"main.adoc"}, got.RootFiles)
}

// S6 — include cycle.
func TestRefreshIncludeCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.adoc", "= A\n\ninclude::b.adoc[]\n")
	writeFile(t, root, "b.adoc", "== B\n\ninclude::a.adoc[]\n")

	ix := newTestIndex(t, root)

	var got State
	ix.View(func(s *State) { got = *s })

	require.NotEmpty(t, got.Warnings)
	found := false
	for _, w := range got.Warnings {
		if w.Kind == markup.WarningIncludeCycle {
			found = true
		}
	}
	require.True(t, found, "expected a cycle warning, got %+v", got.Warnings)

	count := 0
	for id := range got.SectionsByID {
		if id == "a" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestDiscoverIgnoresPartialsAndDotDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.md", "# Main\n")
	writeFile(t, root, "_partial.md", "# Hidden\n")
	writeFile(t, root, ".git/ref.md", "# Not a file\n")
	writeFile(t, root, "node_modules/pkg.md", "# Not a file\n")

	found, err := discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"main.md"}, found)
}

func TestCollidingTopLevelTitlesAcrossRootsAreDisambiguated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# Intro\n\nFirst.\n")
	writeFile(t, root, "b.md", "# Intro\n\nSecond.\n")

	ix := newTestIndex(t, root)

	var got State
	ix.View(func(s *State) { got = *s })

	require.Contains(t, got.SectionsByID, "intro")
	require.Contains(t, got.SectionsByID, "intro-2")
}

func TestIncrementalRefreshOnRootChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.adoc", "= Intro\n\nHello.\n\n== Overview\n\nBody.\n")

	ix := newTestIndex(t, root)
	_, ok := ix.Section("intro.overview")
	require.True(t, ok)

	writeFile(t, root, "main.adoc", "= Intro\n\nHello.\n\n== Summary\n\nBody.\n")
	require.NoError(t, ix.RefreshFile(filepath.Join(root, "main.adoc")))

	_, stillThere := ix.Section("intro.overview")
	require.False(t, stillThere)
	sec, ok := ix.Section("intro.summary")
	require.True(t, ok)
	require.Equal(t, "Body.", sec.Content)
}

// S4 — search.
func TestSearchCandidates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.adoc", "= Intro\n\nHello.\n\n== Overview\n\nBody.\n")

	ix := newTestIndex(t, root)

	ids, err := ix.SearchCandidates("body")
	require.NoError(t, err)
	require.Contains(t, ids, "intro.overview")
}

func TestEmptyProject(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndex(t, root)

	var got State
	ix.View(func(s *State) { got = *s })
	require.Empty(t, got.SectionsByID)
	require.Empty(t, got.RootFiles)
}
