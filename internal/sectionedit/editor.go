// Package sectionedit implements the Section Editor (spec.md §4.7):
// update_section and insert_section, both writing through
// internal/atomicfile and synchronously refreshing the Project Index
// afterward.
package sectionedit

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aidanlsb/docsectiond/internal/apperr"
	"github.com/aidanlsb/docsectiond/internal/atomicfile"
	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/textdiff"
)

// Editor mutates section bodies in place on disk.
type Editor struct {
	index    *project.Index
	suppress *SuppressionMap
}

// New creates an Editor over index. suppress, if non-nil, records every
// write's path+mtime so the Watcher can discard the filesystem echo it
// causes (spec.md §4.5's "ignoring self-edits").
func New(index *project.Index, suppress *SuppressionMap) *Editor {
	return &Editor{index: index, suppress: suppress}
}

// Result is what update_section/insert_section hand back to the Tool
// Dispatcher.
type Result struct {
	Success bool        `json:"success"`
	Diff    textdiff.Diff `json:"diff,omitempty"`
	Error   string      `json:"error_kind,omitempty"`
}

func failure(kind apperr.Kind) Result {
	return Result{Success: false, Error: string(kind)}
}

// UpdateSection replaces the body of the section id with content.
func (e *Editor) UpdateSection(id, content string) (Result, error) {
	sec, ok := e.index.Section(id)
	if !ok {
		return failure(apperr.NotFound), apperr.New(apperr.NotFound, fmt.Sprintf("no section %q", id))
	}

	absPath := e.index.AbsPath(sec.SourceFile)
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return failure(apperr.IOError), apperr.Wrap(apperr.IOError, "read source file", err)
	}
	lines := markup.SplitLines(string(raw))

	if err := checkFresh(lines, sec); err != nil {
		return failure(apperr.Stale), err
	}

	oldBody := bodyText(lines, sec)
	newLines := spliceBody(lines, sec.LineStart, sec.LineEnd, content)
	newText := strings.Join(newLines, "\n") + "\n"

	if err := e.writeAndRefresh(absPath, sec.SourceFile, newText); err != nil {
		return failure(apperr.IOError), err
	}

	return Result{Success: true, Diff: textdiff.Compute(oldBody, normalizeBody(content))}, nil
}

// InsertSection inserts a new section as a child of parentID.
func (e *Editor) InsertSection(parentID, title, content, position string) (Result, error) {
	if position != "before" && position != "after" && position != "append" {
		return failure(apperr.InvalidArgument), apperr.New(apperr.InvalidArgument, fmt.Sprintf("invalid position %q", position))
	}

	parent, ok := e.index.Section(parentID)
	if !ok {
		return failure(apperr.NotFound), apperr.New(apperr.NotFound, fmt.Sprintf("no section %q", parentID))
	}

	absPath := e.index.AbsPath(parent.SourceFile)
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return failure(apperr.IOError), apperr.Wrap(apperr.IOError, "read source file", err)
	}
	lines := markup.SplitLines(string(raw))

	if err := checkFresh(lines, parent); err != nil {
		return failure(apperr.Stale), err
	}

	dialect := markup.Dialect(parent.Dialect)
	heading := headingLine(dialect, parent.Level+1, title)
	firstChildLine := -1
	if len(parent.Children) > 0 {
		if first, ok := e.index.Section(parent.Children[0]); ok && first.SourceFile == parent.SourceFile {
			firstChildLine = first.LineStart
		}
	}
	insertAt := insertionPoint(lines, parent, position, firstChildLine)

	block := []string{"", heading, ""}
	block = append(block, strings.Split(strings.TrimRight(content, "\n"), "\n")...)
	block = append(block, "")

	newLines := make([]string, 0, len(lines)+len(block))
	newLines = append(newLines, lines[:insertAt]...)
	newLines = append(newLines, block...)
	newLines = append(newLines, lines[insertAt:]...)
	newText := strings.Join(newLines, "\n") + "\n"

	if err := e.writeAndRefresh(absPath, parent.SourceFile, newText); err != nil {
		return failure(apperr.IOError), err
	}

	return Result{Success: true, Diff: textdiff.Compute("", content)}, nil
}

func (e *Editor) writeAndRefresh(absPath, relPath, newText string) error {
	if err := atomicfile.WriteFile(absPath, []byte(newText), 0); err != nil {
		return apperr.Wrap(apperr.IOError, "write source file", err)
	}
	if e.suppress != nil {
		if st, err := os.Stat(absPath); err == nil {
			e.suppress.Record(absPath, st.ModTime())
		}
	}
	if err := e.index.RefreshFile(relPath); err != nil {
		return apperr.Wrap(apperr.IOError, "refresh after write", err)
	}
	return nil
}

// checkFresh detects the external-modification race described in spec.md
// §4.7's Consistency clause: the line at sec.LineStart (0-based) must
// still contain the heading text the Editor last observed.
func checkFresh(lines []string, sec project.Section) error {
	idx := sec.LineStart
	if idx < 0 || idx >= len(lines) {
		return apperr.New(apperr.Stale, "source file is shorter than expected")
	}
	if !strings.Contains(lines[idx], sec.Title) {
		return apperr.New(apperr.Stale, "heading line no longer matches the indexed section")
	}
	return nil
}

// bodyText returns the body lines (sec.LineStart, sec.LineEnd] in 0-based,
// heading-exclusive, body-inclusive terms.
func bodyText(lines []string, sec project.Section) string {
	start := sec.LineStart + 1
	end := sec.LineEnd + 1 // exclusive
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

func normalizeBody(content string) string {
	return strings.TrimRight(content, "\n")
}

// spliceBody replaces the body lines after the heading at lineStart through
// lineEnd inclusive (both 0-based) with content, leaving the heading line
// itself intact.
func spliceBody(lines []string, lineStart, lineEnd int, content string) []string {
	headEnd := lineStart + 1 // 0-based index just past the heading line
	if headEnd > len(lines) {
		headEnd = len(lines)
	}
	tailStart := lineEnd + 1
	if tailStart > len(lines) {
		tailStart = len(lines)
	}
	if tailStart < headEnd {
		tailStart = headEnd
	}

	var body []string
	trimmed := strings.TrimRight(content, "\n")
	if trimmed != "" {
		body = strings.Split(trimmed, "\n")
	}

	out := make([]string, 0, headEnd+len(body)+(len(lines)-tailStart))
	out = append(out, lines[:headEnd]...)
	out = append(out, body...)
	out = append(out, lines[tailStart:]...)
	return out
}

func headingLine(dialect markup.Dialect, level int, title string) string {
	if dialect == markup.Markdown {
		return strings.Repeat("#", level) + " " + title
	}
	return strings.Repeat("=", level) + " " + title
}

// insertionPoint picks the 0-based line index at which to splice a new
// child block. "before" places it at the heading line of parent's first
// child (firstChildLine, -1 when parent has no child in the same file),
// falling back to the end of parent's body; "after" and "append" both place
// it at the end of parent's body, after the last existing child.
func insertionPoint(lines []string, parent project.Section, position string, firstChildLine int) int {
	end := parent.LineEnd + 1
	if end > len(lines) {
		end = len(lines)
	}
	switch position {
	case "before":
		if firstChildLine > parent.LineStart && firstChildLine < end {
			return firstChildLine
		}
		return end
	default: // "after", "append"
		return end
	}
}

// SuppressionMap tracks recent Editor writes so the Watcher can discard
// the filesystem event they themselves trigger (spec.md §4.5).
type SuppressionMap struct {
	entries map[string]time.Time
	ttl     time.Duration
}

// NewSuppressionMap creates a SuppressionMap with the spec's 2-second TTL.
func NewSuppressionMap() *SuppressionMap {
	return &SuppressionMap{entries: map[string]time.Time{}, ttl: 2 * time.Second}
}

// Record notes that absPath was written by the Editor at mtime.
func (m *SuppressionMap) Record(absPath string, mtime time.Time) {
	m.entries[absPath] = mtime
}

// ShouldSuppress reports whether a just-observed change at absPath with
// the given mtime is the echo of a recent Editor write, and prunes expired
// entries as a side effect.
func (m *SuppressionMap) ShouldSuppress(absPath string, mtime time.Time) bool {
	recorded, ok := m.entries[absPath]
	if !ok {
		return false
	}
	if time.Since(recorded) > m.ttl {
		delete(m.entries, absPath)
		return false
	}
	return !mtime.After(recorded.Add(time.Second))
}
