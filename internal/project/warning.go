package project

import "github.com/aidanlsb/docsectiond/internal/markup"

// WarningKind reuses internal/markup's warning vocabulary; the Project
// Indexer adds no kinds of its own.
type WarningKind = markup.WarningKind

// Warning is a non-fatal condition recorded during the last full index
// build, with paths resolved to project-relative form.
type Warning struct {
	Kind     WarningKind
	Includer string // project-relative
	Line     int
	Target   string
}
