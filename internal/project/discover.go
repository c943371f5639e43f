package project

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/docsectiond/internal/markup"
)

var ignoredDirNames = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
}

// discover walks root and returns every markup file's project-relative,
// slash-separated path, in the deterministic lexical order WalkDir visits
// them, per spec.md §4.3's discovery rules.
func discover(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if ignoredDirNames[name] || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") {
			return nil
		}
		if _, ok := markup.DialectForPath(path); !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
