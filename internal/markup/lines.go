package markup

import "strings"

// SplitLines splits text into lines without trailing terminators, the way
// internal/project indexes a Record's BodyStart/BodyEnd to recover content.
func SplitLines(text string) []string {
	return splitLines(text)
}

// splitLines splits text into lines without the trailing terminators, the
// way the rest of the pipeline expects to index by 0-based line number.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	// A trailing newline produces one extra empty element; drop it so
	// line_end math lines up with "last line of file" rather than an
	// imaginary blank line past EOF.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
