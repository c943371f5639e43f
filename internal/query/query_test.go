package query_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func newSurface(t *testing.T) (*query.Surface, string) {
	t.Helper()
	root := t.TempDir()
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return query.New(ix), root
}

func TestGetStructureAndSections(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.adoc", "= Title\n\ncontent\n\n== Child\n\nmore\n\n=== Grandchild\n\ndeep\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	full := s.GetStructure(0)
	require.Len(t, full, 3)
	require.Equal(t, "Title", full[0].Title)
	require.Equal(t, 1, full[0].ChildrenCount)

	pruned := s.GetStructure(1)
	require.Len(t, pruned, 1)
	require.Equal(t, "Title", pruned[0].Title)

	level2, err := s.GetSections(2)
	require.NoError(t, err)
	require.Len(t, level2, 1)
	require.Equal(t, "Child", level2[0].Title)

	_, err = s.GetSections(0)
	require.Error(t, err)
}

func TestGetSectionNotFound(t *testing.T) {
	s, _ := newSurface(t)
	_, err := s.GetSection("nope")
	require.Error(t, err)
}

func TestGetRootFilesStructure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.adoc", "= A\n\ntext\n\n== A1\n\nt\n")
	writeFile(t, root, "b.adoc", "= B\n\ntext\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	structures := s.GetRootFilesStructure()
	require.Len(t, structures, 2)
	for _, fs := range structures {
		require.Len(t, fs.Sections, 1)
	}
}

func TestGetMainChapters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.adoc", "= Intro\n\ntext\n\n== 1. Scope\n\nt\n\n== Glossary\n\ng\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	chapters := s.GetMainChapters()
	var titles []string
	for _, c := range chapters {
		titles = append(titles, c.Title)
	}
	require.Contains(t, titles, "Intro")
	require.Contains(t, titles, "1. Scope")
	require.NotContains(t, titles, "Glossary")
}

func TestSearchContentRanksTitleMatchesFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.adoc", "= Widgets\n\nabout widgets\n\n== Other\n\nmentions widget somewhere\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	hits, err := s.SearchContent("widget")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "Widgets", hits[0].Title)
}

func TestMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.adoc", "= Title\n\none two three\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	pm := s.GetProjectMetadata()
	require.Equal(t, 1, pm.TotalSections)
	require.Equal(t, []string{"doc.adoc"}, pm.RootFiles)

	id := pm.RootFiles[0]
	_ = id
	structure := s.GetStructure(0)
	require.Len(t, structure, 1)
	meta, err := s.GetSectionMetadata(structure[0].ID)
	require.NoError(t, err)
	require.Equal(t, 3, meta.WordCount)
	require.True(t, meta.HasContent)
}

func TestDependenciesAndValidate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.adoc", "= Main\n\ninclude::part.adoc[]\n")
	writeFile(t, root, "part.adoc", "== Part\n\ntext\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	deps := s.GetDependencies()
	require.Contains(t, deps.Includes["main.adoc"], "part.adoc")
	require.Empty(t, deps.OrphanedSections)

	result := s.ValidateStructure()
	require.True(t, result.Valid)
	require.Empty(t, result.Issues)
}

func TestValidateStructureReportsCycleWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.adoc", "= A\n\ninclude::b.adoc[]\n")
	writeFile(t, root, "b.adoc", "include::a.adoc[]\n")
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	require.NoError(t, ix.Refresh())
	s := query.New(ix)

	result := s.ValidateStructure()
	require.NotEmpty(t, result.Warnings)
}
