package project

import (
	"os"
	"path/filepath"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/sectionid"
)

// rootResult is everything one root file's full parse contributes to the
// index.
type rootResult struct {
	ids      []string // section ids owned by this root, in source order
	sections map[string]Section
	sources  []string // project-relative; root itself first, then includes
	edges    map[string][]string
	warnings []Warning
	usage    sectionid.Usage // this root's contribution to disambig, for later Release
}

func scanFile(absPath string, opts markup.Options) (markup.Result, error) {
	dialect, ok := markup.DialectForPath(absPath)
	if !ok {
		dialect = markup.AsciiDoc
	}
	return markup.Scan(absPath, dialect, opts)
}

func relSlash(projectRoot, absPath string) string {
	rel, err := filepath.Rel(projectRoot, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}

// sectionsFromResult folds one root's already-computed markup.Result into
// Sections with stable identifiers, using disambig to assign them.
func sectionsFromResult(projectRoot, root string, result markup.Result, disambig *sectionid.Disambiguator) rootResult {
	nodes, usage := disambig.BuildTracked(result.Records)

	children := map[string][]string{}
	for _, n := range nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	lineCache := map[string][]string{}
	linesOf := func(absPath string) []string {
		if l, ok := lineCache[absPath]; ok {
			return l
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil
		}
		l := markup.SplitLines(string(data))
		lineCache[absPath] = l
		return l
	}

	sections := make(map[string]Section, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		rec := n.Record
		dialect, _ := markup.DialectForPath(rec.OriginFile)
		lines := linesOf(rec.OriginFile)
		content := contentFromLines(lines, rec.BodyStart, rec.BodyEnd)
		lineEnd := rec.BodyEnd
		if lineEnd < rec.HeadingLine {
			lineEnd = rec.HeadingLine
		}
		sections[n.ID] = Section{
			ID:         n.ID,
			ParentID:   n.ParentID,
			Title:      rec.Title,
			Level:      rec.Level,
			Content:    content,
			SourceFile: relSlash(projectRoot, rec.OriginFile),
			Dialect:    string(dialect),
			LineStart:  rec.HeadingLine,
			LineEnd:    lineEnd,
			Children:   children[n.ID],
		}
		ids = append(ids, n.ID)
	}

	sources := []string{root}
	seen := map[string]bool{root: true}
	for _, inc := range result.Includes {
		rel := relSlash(projectRoot, inc)
		if !seen[rel] {
			seen[rel] = true
			sources = append(sources, rel)
		}
	}

	edges := make(map[string][]string, len(result.Edges))
	for includer, targets := range result.Edges {
		list := make([]string, 0, len(targets))
		for _, t := range targets {
			list = append(list, relSlash(projectRoot, t))
		}
		edges[relSlash(projectRoot, includer)] = list
	}

	warnings := make([]Warning, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, Warning{
			Kind:     w.Kind,
			Includer: relSlash(projectRoot, w.Includer),
			Line:     w.Line,
			Target:   w.Target,
		})
	}

	return rootResult{ids: ids, sections: sections, sources: sources, edges: edges, warnings: warnings, usage: usage}
}

// classify runs discovery's first pass: scan every discovered file in
// isolation to collect include targets, per spec.md §4.3. It returns the
// set of included files and a cache of each file's scan result so the
// second pass (parsing roots) never rescans a file it has already read.
func (ix *Index) classify(discovered []string) (map[string]struct{}, map[string]markup.Result) {
	included := map[string]struct{}{}
	cache := make(map[string]markup.Result, len(discovered))
	for _, rel := range discovered {
		abs := filepath.Join(ix.root, filepath.FromSlash(rel))
		result, err := scanFile(abs, ix.opts)
		if err != nil {
			continue
		}
		cache[rel] = result
		for _, inc := range result.Includes {
			included[relSlash(ix.root, inc)] = struct{}{}
		}
	}
	return included, cache
}

// fullRebuildLocked performs discovery, root classification, and a full
// parse of every root, replacing the entire index. Caller must hold mu.
func (ix *Index) fullRebuildLocked() error {
	discovered, err := discover(ix.root)
	if err != nil {
		return err
	}

	included, cache := ix.classify(discovered)

	rootFiles := make([]string, 0, len(discovered))
	for _, rel := range discovered {
		if _, isIncluded := included[rel]; !isIncluded {
			rootFiles = append(rootFiles, rel)
		}
	}

	disambig := sectionid.NewDisambiguator()
	state := newState(ix.root)
	state.RootFiles = rootFiles
	for p := range included {
		state.IncludedFiles[p] = struct{}{}
	}

	rootSources := map[string][]string{}
	sourceOwner := map[string]string{}
	rootUsage := map[string]sectionid.Usage{}

	for _, root := range rootFiles {
		result, ok := cache[root]
		if !ok {
			abs := filepath.Join(ix.root, filepath.FromSlash(root))
			var scanErr error
			result, scanErr = scanFile(abs, ix.opts)
			if scanErr != nil {
				continue
			}
		}
		rr := sectionsFromResult(ix.root, root, result, disambig)
		for id, sec := range rr.sections {
			state.SectionsByID[id] = sec
		}
		for k, v := range rr.edges {
			state.IncludeEdges[k] = v
		}
		state.Warnings = append(state.Warnings, rr.warnings...)
		state.RootSectionIDs[root] = rr.ids
		rootSources[root] = rr.sources
		rootUsage[root] = rr.usage
		for _, src := range rr.sources {
			sourceOwner[src] = root
		}
	}

	// A discovered file that no root reaches (for example two files that
	// only include each other) still reports the warnings of its own scan.
	for _, rel := range discovered {
		if _, owned := sourceOwner[rel]; owned {
			continue
		}
		for _, w := range cache[rel].Warnings {
			state.Warnings = append(state.Warnings, Warning{Kind: w.Kind, Includer: relSlash(ix.root, w.Includer), Line: w.Line, Target: w.Target})
		}
	}

	ix.state = state
	ix.disambig = disambig
	ix.rootUsage = rootUsage
	ix.rootSources = rootSources
	ix.sourceOwner = sourceOwner
	return ix.search.rebuild(state.SectionsByID)
}
