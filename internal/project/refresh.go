package project

import "path/filepath"

// Refresh forces a full re-discovery and re-parse from scratch, the
// behavior `refresh_index` exposes at the Tool Dispatcher (§4.8).
func (ix *Index) Refresh() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.fullRebuildLocked()
}

// toProjectRelative normalizes a path the Watcher or Section Editor reports
// (which may be absolute) to the project-relative, slash-separated form the
// index keys everything by.
func (ix *Index) toProjectRelative(p string) string {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(ix.root, p)
		if err != nil {
			return ""
		}
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// RefreshPaths performs the incremental refresh described in spec.md §4.3
// for a batch of changed paths. A path that names a known root file
// triggers a targeted reparse of that root; a path that names a known
// included file triggers a targeted reparse of every root that transitively
// includes it; a path the index does not recognize triggers full
// rediscovery, since root/included classification may have changed.
func (ix *Index) RefreshPaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	affected := map[string]bool{}
	unknown := false
	for _, raw := range paths {
		p := ix.toProjectRelative(raw)
		if p == "" {
			unknown = true
			continue
		}
		switch {
		case ix.state.IsRootFile(p):
			affected[p] = true
		case ix.state.IsIncluded(p):
			if owner, ok := ix.sourceOwner[p]; ok {
				affected[owner] = true
			} else {
				unknown = true
			}
		default:
			unknown = true
		}
	}

	if unknown {
		return ix.fullRebuildLocked()
	}
	if len(affected) == 0 {
		return nil
	}

	for root := range affected {
		ix.dropRootLocked(root)
	}
	for root := range affected {
		ix.reparseRootLocked(root)
	}
	return ix.search.rebuild(ix.state.SectionsByID)
}

// dropRootLocked removes every section, include edge, and warning a root's
// prior parse contributed, per spec.md §4.3's "drop all sections whose
// source_file ∈ {root} ∪ prior_includes(root)" rule. It also releases that
// root's prior contribution to ix.disambig, so a reparse of this root below
// starts from only the other roots' slug counts and reproduces identical
// identifiers when this root's headings didn't change. Caller must hold mu.
func (ix *Index) dropRootLocked(root string) {
	if usage, ok := ix.rootUsage[root]; ok {
		ix.disambig.Release(usage)
		delete(ix.rootUsage, root)
	}

	oldSources := ix.rootSources[root]
	oldSourceSet := make(map[string]bool, len(oldSources))
	for _, src := range oldSources {
		oldSourceSet[src] = true
		delete(ix.state.IncludeEdges, src)
		delete(ix.sourceOwner, src)
		if src != root {
			delete(ix.state.IncludedFiles, src)
		}
	}
	for _, id := range ix.state.RootSectionIDs[root] {
		delete(ix.state.SectionsByID, id)
	}

	if len(oldSourceSet) > 0 {
		filtered := ix.state.Warnings[:0]
		for _, w := range ix.state.Warnings {
			if !oldSourceSet[w.Includer] {
				filtered = append(filtered, w)
			}
		}
		ix.state.Warnings = filtered
	}

	delete(ix.rootSources, root)
	delete(ix.state.RootSectionIDs, root)
}

// reparseRootLocked reparses root fully and folds the result back into the
// index, reusing ix.disambig so identifiers remain stable relative to every
// other root already in the index. Caller must hold mu.
func (ix *Index) reparseRootLocked(root string) {
	abs := filepath.Join(ix.root, filepath.FromSlash(root))
	result, err := scanFile(abs, ix.opts)
	if err != nil {
		return
	}
	rr := sectionsFromResult(ix.root, root, result, ix.disambig)
	for id, sec := range rr.sections {
		ix.state.SectionsByID[id] = sec
	}
	for k, v := range rr.edges {
		ix.state.IncludeEdges[k] = v
	}
	ix.state.Warnings = append(ix.state.Warnings, rr.warnings...)
	ix.rootSources[root] = rr.sources
	ix.rootUsage[root] = rr.usage
	ix.state.RootSectionIDs[root] = rr.ids
	for _, src := range rr.sources {
		ix.sourceOwner[src] = root
		if src != root {
			ix.state.IncludedFiles[src] = struct{}{}
		}
	}
}
