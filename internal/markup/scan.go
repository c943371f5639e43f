package markup

import (
	"os"
	"path/filepath"
)

// DefaultMaxIncludeDepth is the default cap on include nesting (spec.md §4.1).
const DefaultMaxIncludeDepth = 4

// Options configures a Scan.
type Options struct {
	// MaxIncludeDepth caps AsciiDoc include nesting. Zero means
	// DefaultMaxIncludeDepth.
	MaxIncludeDepth int
}

// Scan parses rootFile (a path on disk) according to its dialect, resolving
// AsciiDoc includes inline, and returns the flat ordered record stream plus
// any warnings.
func Scan(rootFile string, dialect Dialect, opts Options) (Result, error) {
	maxDepth := opts.MaxIncludeDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxIncludeDepth
	}
	s := &scanner{maxDepth: maxDepth, edges: map[string][]string{}}
	data, err := os.ReadFile(rootFile)
	if err != nil {
		return Result{}, err
	}
	recs, warnings := s.scanContent(dialect, rootFile, string(data), nil, 0)
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = *r
	}
	return Result{Records: out, Warnings: warnings, Includes: s.includes, Edges: s.edges}, nil
}

type scanner struct {
	maxDepth int
	includes []string
	edges    map[string][]string
}

// scanContent scans one file's already-read content. includeStack holds the
// chain of ancestor file paths currently being expanded, for cycle
// detection; depth is the current include nesting depth (0 for the root
// file).
func (s *scanner) scanContent(dialect Dialect, path, content string, includeStack []string, depth int) ([]*Record, []Warning) {
	switch dialect {
	case Markdown:
		return s.scanMarkdown(path, content)
	default:
		return s.scanAsciidoc(path, content, includeStack, depth)
	}
}

func (s *scanner) scanMarkdown(path, content string) ([]*Record, []Warning) {
	hits := scanMarkdownHeadings([]byte(content))
	lines := splitLines(content)
	lastLine := len(lines) - 1

	var records []*Record
	var open []*Record
	closeLevel := func(level, uptoLine int) {
		i := len(open)
		for i > 0 && open[i-1].Level >= level {
			i--
		}
		for _, r := range open[i:] {
			r.BodyEnd = uptoLine
		}
		open = open[:i]
	}
	for _, h := range hits {
		closeLevel(h.Level, h.Line-1)
		rec := &Record{Level: h.Level, Title: h.Title, HeadingLine: h.Line, BodyStart: h.Line + 1, OriginFile: path}
		records = append(records, rec)
		open = append(open, rec)
	}
	for _, r := range open {
		r.BodyEnd = lastLine
	}
	return records, nil
}

func (s *scanner) scanAsciidoc(path, content string, includeStack []string, depth int) ([]*Record, []Warning) {
	lines := splitLines(content)
	var records []*Record
	var warnings []Warning
	var open []*Record
	lastLine := len(lines) - 1

	closeLevel := func(level, uptoLine int) {
		i := len(open)
		for i > 0 && open[i-1].Level >= level {
			i--
		}
		for _, r := range open[i:] {
			r.BodyEnd = uptoLine
		}
		open = open[:i]
	}
	closeAll := func(uptoLine int) {
		for _, r := range open {
			r.BodyEnd = uptoLine
		}
		open = open[:0]
	}

	inFence := false
	var fenceChar rune
	var fenceLen int

	newStack := append(append([]string{}, includeStack...), path)

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if ch, ok := asciidocFenceDelim(line); ok {
			if inFence {
				if ch == fenceChar && len(line) == fenceLen {
					inFence = false
				}
				continue
			}
			inFence = true
			fenceChar = ch
			fenceLen = len(line)
			continue
		}
		if inFence {
			continue
		}

		if h, ok := matchAsciidocHeading(line); ok {
			closeLevel(h.Level, i-1)
			rec := &Record{Level: h.Level, Title: h.Title, HeadingLine: i, BodyStart: i + 1, OriginFile: path}
			records = append(records, rec)
			open = append(open, rec)
			continue
		}

		if target, ok := matchAsciidocInclude(line); ok {
			closeAll(i - 1)

			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))

			if containsPath(newStack, resolved) {
				warnings = append(warnings, Warning{Kind: WarningIncludeCycle, Includer: path, Line: i, Target: target})
				continue
			}
			if depth+1 > s.maxDepth {
				warnings = append(warnings, Warning{Kind: WarningIncludeDepth, Includer: path, Line: i, Target: target})
				continue
			}

			data, err := os.ReadFile(resolved)
			if err != nil {
				if os.IsNotExist(err) {
					warnings = append(warnings, Warning{Kind: WarningMissingInclude, Includer: path, Line: i, Target: target})
				} else {
					warnings = append(warnings, Warning{Kind: WarningIncludeReadError, Includer: path, Line: i, Target: target})
				}
				continue
			}

			childDialect, ok := DialectForPath(resolved)
			if !ok {
				childDialect = AsciiDoc
			}

			s.includes = append(s.includes, resolved)
			s.edges[path] = append(s.edges[path], resolved)
			childRecords, childWarnings := s.scanContent(childDialect, resolved, string(data), newStack, depth+1)
			records = append(records, childRecords...)
			warnings = append(warnings, childWarnings...)
			continue
		}
	}

	closeAll(lastLine)
	return records, warnings
}

func containsPath(stack []string, path string) bool {
	for _, p := range stack {
		if p == path {
			return true
		}
	}
	return false
}
