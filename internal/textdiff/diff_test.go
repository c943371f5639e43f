package textdiff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/textdiff"
)

func TestComputeIdentical(t *testing.T) {
	d := textdiff.Compute("a\nb\nc\n", "a\nb\nc\n")
	for _, rec := range d {
		require.Equal(t, textdiff.Equal, rec.Kind)
	}
}

func TestComputeSimpleEdit(t *testing.T) {
	d := textdiff.Compute("a\nb\nc\n", "a\nx\nc\n")
	var kinds []textdiff.OpKind
	for _, rec := range d {
		kinds = append(kinds, rec.Kind)
	}
	require.Contains(t, kinds, textdiff.Removed)
	require.Contains(t, kinds, textdiff.Added)
	require.Equal(t, "a\nx\nc\n", textdiff.Apply(d, "a\nb\nc\n"))
}

func TestComputeCollapsesBlankRuns(t *testing.T) {
	old := "a\n\n\n\nb\n"
	new := "a\n\nb\n"
	d := textdiff.Compute(old, new)
	var changed []textdiff.Record
	for _, rec := range d {
		if rec.Kind == textdiff.Changed {
			changed = append(changed, rec)
		}
	}
	require.Len(t, changed, 1)
	require.Equal(t, 3, changed[0].OldCount)
	require.Equal(t, 1, changed[0].NewCount)
}

func TestApplyRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"one\ntwo\nthree\n", "one\ntwo\nthree\nfour\n"},
		{"a\nb\n", "a\n"},
		{"", "fresh content\n"},
		{"x\n\n\ny\n", "x\n\ny\nz\n"},
	}
	for _, p := range pairs {
		d := textdiff.Compute(p[0], p[1])
		require.Equal(t, p[1], textdiff.Apply(d, p[0]))
	}
}

func TestTrailingWhitespaceNormalized(t *testing.T) {
	d := textdiff.Compute("line  \n", "line\n")
	require.Len(t, d, 1)
	require.Equal(t, textdiff.Equal, d[0].Kind)
}
