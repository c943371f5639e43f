package markup

import (
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownHeadingRe recognizes ATX headings only; it exists to filter out
// Setext-style headings, which goldmark also represents as ast.Heading
// nodes but which spec.md says must not be recognized.
var markdownHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

type markdownHeadingHit struct {
	Level int
	Title string
	Line  int // 0-based
}

// scanMarkdownHeadings parses source with goldmark and returns every ATX
// heading in document order, skipping anything goldmark considers part of a
// fenced or indented code block (it simply never emits Heading nodes there)
// and skipping Setext-style headings via markdownHeadingRe.
func scanMarkdownHeadings(source []byte) []markdownHeadingHit {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(source)

	var hits []markdownHeadingHit
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := heading.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := lines.At(0)
		lineIdx := offsetToLine(lineStarts, seg.Start)
		raw := string(sourceLine(source, lineStarts, lineIdx))
		m := markdownHeadingRe.FindStringSubmatch(raw)
		if m == nil {
			// Setext heading or something goldmark otherwise produced; spec
			// only recognizes ATX syntax.
			return ast.WalkContinue, nil
		}
		level := len(m[1])
		hits = append(hits, markdownHeadingHit{Level: level, Title: m[2], Line: lineIdx})
		return ast.WalkContinue, nil
	})
	return hits
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetToLine(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func sourceLine(source []byte, starts []int, lineIdx int) []byte {
	start := starts[lineIdx]
	end := len(source)
	if lineIdx+1 < len(starts) {
		end = starts[lineIdx+1]
	}
	line := source[start:end]
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
