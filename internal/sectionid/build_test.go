package sectionid

import (
	"testing"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/stretchr/testify/require"
)

func rec(level int, title string) markup.Record {
	return markup.Record{Level: level, Title: title, OriginFile: "main.adoc"}
}

func TestBuildAssignsDottedNestedIDs(t *testing.T) {
	d := NewDisambiguator()
	nodes := d.Build([]markup.Record{
		rec(1, "Intro"),
		rec(2, "Overview"),
	})
	require.Equal(t, "intro", nodes[0].ID)
	require.Equal(t, "intro.overview", nodes[1].ID)
	require.Equal(t, "intro", nodes[1].ParentID)
}

func TestBuildDisambiguatesCollidingSlugs(t *testing.T) {
	d := NewDisambiguator()
	nodes := d.Build([]markup.Record{
		rec(1, "Intro"),
		rec(1, "Intro"),
	})
	require.Equal(t, "intro", nodes[0].ID)
	require.Equal(t, "intro-2", nodes[1].ID)
}

// Reparsing the same root's unchanged records must reproduce identical
// ids every time once the prior contribution is released first — this is
// what keeps internal/project's incremental refresh idempotent.
func TestReleaseMakesRebuildIdempotent(t *testing.T) {
	d := NewDisambiguator()
	records := []markup.Record{
		rec(1, "Intro"),
		rec(2, "Overview"),
	}

	first, usage := d.BuildTracked(records)
	require.Equal(t, "intro", first[0].ID)
	require.Equal(t, "intro.overview", first[1].ID)

	d.Release(usage)
	second, usage2 := d.BuildTracked(records)
	require.Equal(t, first[0].ID, second[0].ID)
	require.Equal(t, first[1].ID, second[1].ID)

	d.Release(usage2)
	third, _ := d.BuildTracked(records)
	require.Equal(t, first[0].ID, third[0].ID)
	require.Equal(t, first[1].ID, third[1].ID)
}

// Releasing one root's contribution must not disturb an unrelated root's
// ids still live in the same Disambiguator.
func TestReleaseOnlyAffectsItsOwnContribution(t *testing.T) {
	d := NewDisambiguator()

	aRecords := []markup.Record{rec(1, "Intro")}
	bRecords := []markup.Record{rec(1, "Setup")}

	aNodes, aUsage := d.BuildTracked(aRecords)
	bNodes, _ := d.BuildTracked(bRecords)
	require.Equal(t, "intro", aNodes[0].ID)
	require.Equal(t, "setup", bNodes[0].ID)

	d.Release(aUsage)
	aNodes2, _ := d.BuildTracked(aRecords)
	require.Equal(t, "intro", aNodes2[0].ID)

	bNodes2, _ := d.BuildTracked(bRecords)
	require.Equal(t, "setup-2", bNodes2[0].ID)
}
