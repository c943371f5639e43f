// Package markup extracts ordered heading records from a single source file,
// resolving AsciiDoc includes inline. It does not build a section tree (that
// is internal/sectionid's job) and it does not know about projects of files
// (that is internal/project's job).
package markup

// Dialect identifies which markup grammar a file is parsed with.
type Dialect string

const (
	Markdown Dialect = "markdown"
	AsciiDoc Dialect = "asciidoc"
)

// DialectForPath returns the Dialect implied by a file's extension, and false
// if the extension is not a recognized markup extension.
func DialectForPath(path string) (Dialect, bool) {
	ext := lowerExt(path)
	switch ext {
	case ".md", ".markdown":
		return Markdown, true
	case ".adoc", ".ad", ".asciidoc":
		return AsciiDoc, true
	default:
		return "", false
	}
}

func lowerExt(path string) string {
	dot := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			break
		}
		if path[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return ""
	}
	ext := path[dot:]
	out := make([]byte, len(ext))
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Record is one heading found while scanning a file, with no identifier or
// parent/child information attached yet.
type Record struct {
	Level       int
	Title       string
	HeadingLine int // 0-based, within OriginFile
	BodyStart   int // 0-based, within OriginFile; heading line + 1
	BodyEnd     int // 0-based, within OriginFile, inclusive
	OriginFile  string
}

// WarningKind enumerates the recoverable parse warnings spec.md §4.1 and §7
// define as non-fatal.
type WarningKind string

const (
	WarningMissingInclude    WarningKind = "missing_include"
	WarningIncludeReadError  WarningKind = "include_read_error"
	WarningIncludeCycle      WarningKind = "cycle"
	WarningIncludeDepth      WarningKind = "include_depth_exceeded"
)

// Warning is a non-fatal condition recorded during parsing.
type Warning struct {
	Kind     WarningKind
	Includer string
	Line     int
	Target   string
}

// Result is the full output of scanning one root file (with any includes
// inlined for AsciiDoc).
type Result struct {
	Records  []Record
	Warnings []Warning
	// Includes lists every file directly or transitively included while
	// scanning, in first-seen order. Empty for Markdown.
	Includes []string
	// Edges maps each includer path to the ordered list of includee paths it
	// directly names, for every file touched during the scan (the root file
	// and any file it transitively includes). Used by internal/project to
	// populate include_edges.
	Edges map[string][]string
}
