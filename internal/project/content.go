package project

import "strings"

// contentFromLines recovers a section's content from its origin file's
// lines, given 0-based, inclusive [start, end] body bounds. Per spec.md §3
// this trims at most one leading and one trailing blank line; interior
// blank lines and code fences are preserved verbatim.
func contentFromLines(lines []string, start, end int) string {
	if start < 0 || start >= len(lines) || start > end {
		return ""
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}
	body := append([]string(nil), lines[start:end+1]...)
	if len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	if len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return strings.Join(body, "\n")
}
