package project

import (
	"sync"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/sectionid"
)

// State is the Project Index's data at a point in time (spec.md §3). Index
// never publishes a State until it is fully formed, and every mutation of
// it happens while the exclusive lock is held, so a View callback always
// sees one complete, internally consistent State.
type State struct {
	ProjectRoot   string
	SectionsByID  map[string]Section
	RootFiles     []string
	IncludedFiles map[string]struct{}
	IncludeEdges  map[string][]string
	Warnings      []Warning
	// RootSectionIDs maps each root file to the identifiers of every
	// section it owns, in source order — including sections whose ParentID
	// is empty (that root's top-level sections) and their descendants.
	RootSectionIDs map[string][]string
}

func newState(root string) *State {
	return &State{
		ProjectRoot:    root,
		SectionsByID:   map[string]Section{},
		IncludedFiles:  map[string]struct{}{},
		IncludeEdges:   map[string][]string{},
		RootSectionIDs: map[string][]string{},
	}
}

// TopLevelIDs returns root's top-level section ids (ParentID == ""), in
// source order.
func (s *State) TopLevelIDs(root string) []string {
	var out []string
	for _, id := range s.RootSectionIDs[root] {
		if sec, ok := s.SectionsByID[id]; ok && sec.ParentID == "" {
			out = append(out, id)
		}
	}
	return out
}

// IsIncluded reports whether p (project-relative) is a known included file.
func (s *State) IsIncluded(p string) bool {
	_, ok := s.IncludedFiles[p]
	return ok
}

// IsRootFile reports whether p (project-relative) is a known root file.
func (s *State) IsRootFile(p string) bool {
	for _, r := range s.RootFiles {
		if r == p {
			return true
		}
	}
	return false
}

// Index is the single in-memory, single-owner Project Index, guarded by one
// reader-writer lock per spec.md §5.
type Index struct {
	mu   sync.RWMutex
	root string
	opts markup.Options

	state *State

	disambig *sectionid.Disambiguator
	// rootUsage maps each root file to the disambiguation Usage its last
	// parse contributed to disambig, so dropRootLocked can cleanly undo
	// exactly that root's contribution (and no one else's) before a
	// reparse re-adds it. Without this, reparsing an unchanged root would
	// see its own prior slugs as already "used" and bump identifiers that
	// never should have moved (spec.md §4.3, §8 properties 4-6).
	rootUsage map[string]sectionid.Usage
	// rootSources maps each root file to every source file its last parse
	// touched (the root itself, first, then its transitive includes in
	// first-seen order) — this is "{root} ∪ prior_includes(root)" from
	// spec.md §4.3's incremental refresh rule.
	rootSources map[string][]string
	// sourceOwner maps every known source file to the root that owns it,
	// used to find "every root that transitively includes" a changed
	// included file.
	sourceOwner map[string]string

	search *searchStore
}

// New creates an empty Index for projectRoot. Call Refresh to populate it.
func New(projectRoot string, opts markup.Options) (*Index, error) {
	store, err := newSearchStore()
	if err != nil {
		return nil, err
	}
	return &Index{
		root:        projectRoot,
		opts:        opts,
		state:       newState(projectRoot),
		disambig:    sectionid.NewDisambiguator(),
		rootUsage:   map[string]sectionid.Usage{},
		rootSources: map[string][]string{},
		sourceOwner: map[string]string{},
		search:      store,
	}, nil
}

// Close releases resources held by the Index (its in-memory search mirror).
func (ix *Index) Close() error {
	return ix.search.close()
}

// Root returns the project's root directory on disk.
func (ix *Index) Root() string {
	return ix.root
}

// View runs fn with the shared lock held for its entire duration, per
// §5's "every Query Surface operation acquires the lock in shared mode
// for its entire duration." fn must not retain State or its maps beyond
// the call.
func (ix *Index) View(fn func(*State)) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	fn(ix.state)
}
