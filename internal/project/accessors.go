package project

import "path/filepath"

// AbsPath resolves a project-relative path to an absolute path on disk.
func (ix *Index) AbsPath(relPath string) string {
	return filepath.Join(ix.root, filepath.FromSlash(relPath))
}

// Section returns a copy of the section with the given id, under a shared
// lock.
func (ix *Index) Section(id string) (Section, bool) {
	var sec Section
	var ok bool
	ix.View(func(s *State) {
		sec, ok = s.SectionsByID[id]
	})
	return sec, ok
}

// RefreshFile is a convenience wrapper around RefreshPaths for a single
// changed file, used by the Section Editor immediately after a write.
func (ix *Index) RefreshFile(path string) error {
	return ix.RefreshPaths([]string{path})
}

// SearchCandidates returns the ids of every section whose title or content
// contains query as a case-insensitive substring, via the in-memory search
// mirror. internal/query ranks and trims these into the final result.
func (ix *Index) SearchCandidates(query string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.search.candidates(query)
}
