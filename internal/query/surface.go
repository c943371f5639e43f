package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aidanlsb/docsectiond/internal/apperr"
	"github.com/aidanlsb/docsectiond/internal/project"
)

// Surface is the Query Surface: every method here is read-only and runs
// under the Project Index's shared lock for its entire duration (spec.md
// §4.4, §5).
type Surface struct {
	index *project.Index
}

// New wraps an index with the Query Surface.
func New(index *project.Index) *Surface {
	return &Surface{index: index}
}

func toView(sec project.Section) SectionView {
	return SectionView{
		ID:         sec.ID,
		Title:      sec.Title,
		Level:      sec.Level,
		Content:    sec.Content,
		SourceFile: sec.SourceFile,
		LineStart:  sec.LineStart,
		LineEnd:    sec.LineEnd,
		Children:   sec.Children,
	}
}

// GetStructure returns every section pruned to level <= maxDepth (0 means
// unlimited), in depth-first source order. internal/project.State already
// stores each root's sections in that order (markup.Scan emits records as
// it walks the document, includes inlined), so no recursive walk is needed.
func (s *Surface) GetStructure(maxDepth int) []StructureNode {
	var out []StructureNode
	s.index.View(func(st *project.State) {
		for _, root := range st.RootFiles {
			for _, id := range st.RootSectionIDs[root] {
				sec := st.SectionsByID[id]
				if maxDepth > 0 && sec.Level > maxDepth {
					continue
				}
				out = append(out, StructureNode{
					ID: sec.ID, Title: sec.Title, Level: sec.Level,
					ChildrenCount: len(sec.Children),
				})
			}
		}
	})
	if out == nil {
		out = []StructureNode{}
	}
	return out
}

// GetSection resolves a single section by id.
func (s *Surface) GetSection(id string) (SectionView, error) {
	sec, ok := s.index.Section(id)
	if !ok {
		return SectionView{}, apperr.New(apperr.NotFound, fmt.Sprintf("no section %q", id))
	}
	return toView(sec), nil
}

// GetSections returns every section at level, in source order. Backs both
// get_sections and get_sections_by_level, which spec.md §9 treats as
// identical.
func (s *Surface) GetSections(level int) ([]SectionView, error) {
	if level < 1 || level > 6 {
		return nil, apperr.New(apperr.InvalidArgument, "level must be between 1 and 6")
	}
	var out []SectionView
	s.index.View(func(st *project.State) {
		for _, root := range st.RootFiles {
			for _, id := range st.RootSectionIDs[root] {
				if sec := st.SectionsByID[id]; sec.Level == level {
					out = append(out, toView(sec))
				}
			}
		}
	})
	if out == nil {
		out = []SectionView{}
	}
	return out, nil
}

func buildTree(st *project.State, id string) TreeNode {
	sec := st.SectionsByID[id]
	node := TreeNode{ID: sec.ID, Title: sec.Title, Level: sec.Level}
	for _, cid := range sec.Children {
		node.Children = append(node.Children, buildTree(st, cid))
	}
	return node
}

// GetRootFilesStructure returns root files (included files excluded), each
// with its top-level sections nested recursively into their full subtree.
func (s *Surface) GetRootFilesStructure() []FileStructure {
	var out []FileStructure
	s.index.View(func(st *project.State) {
		for _, root := range st.RootFiles {
			var top []TreeNode
			for _, id := range st.TopLevelIDs(root) {
				top = append(top, buildTree(st, id))
			}
			out = append(out, FileStructure{
				Path:     root,
				Sections: top,
				FileInfo: FileInfo{SectionCount: len(st.RootSectionIDs[root])},
			})
		}
	})
	if out == nil {
		out = []FileStructure{}
	}
	return out
}

var numericChapterPrefix = regexp.MustCompile(`^\d+[.\s]`)

// GetMainChapters returns level-2 sections with a numeric chapter prefix
// plus any level-1 section without one, for arc42-style documents.
func (s *Surface) GetMainChapters() []SectionView {
	var out []SectionView
	s.index.View(func(st *project.State) {
		for _, root := range st.RootFiles {
			for _, id := range st.RootSectionIDs[root] {
				sec := st.SectionsByID[id]
				switch {
				case sec.Level == 2 && numericChapterPrefix.MatchString(sec.Title):
					out = append(out, toView(sec))
				case sec.Level == 1 && !numericChapterPrefix.MatchString(sec.Title):
					out = append(out, toView(sec))
				}
			}
		}
	})
	if out == nil {
		out = []SectionView{}
	}
	return out
}

// SearchContent ranks sections whose title or content contains query
// (case-insensitive), per spec.md §4.4: title match before content match,
// earlier match position, lower level first.
func (s *Surface) SearchContent(query string) ([]SearchHit, error) {
	ids, err := s.index.SearchCandidates(query)
	if err != nil {
		return nil, apperr.Wrap(apperr.IOError, "search failed", err)
	}
	lowerQ := strings.ToLower(query)

	type scored struct {
		sec        project.Section
		titleMatch bool
		pos        int
	}
	var items []scored
	s.index.View(func(st *project.State) {
		for _, id := range ids {
			sec, ok := st.SectionsByID[id]
			if !ok {
				continue
			}
			lowerTitle := strings.ToLower(sec.Title)
			if idx := strings.Index(lowerTitle, lowerQ); idx >= 0 {
				items = append(items, scored{sec: sec, titleMatch: true, pos: idx})
				continue
			}
			idx := strings.Index(strings.ToLower(sec.Content), lowerQ)
			items = append(items, scored{sec: sec, titleMatch: false, pos: idx})
		}
	})

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.titleMatch != b.titleMatch {
			return a.titleMatch
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		return a.sec.Level < b.sec.Level
	})

	hits := make([]SearchHit, 0, len(items))
	for i, it := range items {
		score := 1.0
		if !it.titleMatch {
			score = 0.5
		}
		score -= float64(i) * 1e-6 // keep ranking order visible in the score too
		hits = append(hits, SearchHit{
			ID:      it.sec.ID,
			Title:   it.sec.Title,
			Score:   score,
			Snippet: snippetAround(it.sec.Content, lowerQ, query),
		})
	}
	return hits, nil
}

func snippetAround(content, lowerQuery, query string) string {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, lowerQuery)
	if idx < 0 {
		if len(content) > 80 {
			return content[:80]
		}
		return content
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + 40
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// GetSectionMetadata returns metadata for a single section.
func (s *Surface) GetSectionMetadata(id string) (SectionMetadata, error) {
	sec, ok := s.index.Section(id)
	if !ok {
		return SectionMetadata{}, apperr.New(apperr.NotFound, fmt.Sprintf("no section %q", id))
	}
	return SectionMetadata{
		ID:            sec.ID,
		Title:         sec.Title,
		Level:         sec.Level,
		WordCount:     wordCount(sec.Content),
		ChildrenCount: len(sec.Children),
		HasContent:    strings.TrimSpace(sec.Content) != "",
	}, nil
}

// GetProjectMetadata returns project-wide totals.
func (s *Surface) GetProjectMetadata() ProjectMetadata {
	var out ProjectMetadata
	s.index.View(func(st *project.State) {
		out.ProjectRoot = st.ProjectRoot
		total := 0
		for _, sec := range st.SectionsByID {
			total += wordCount(sec.Content)
		}
		out.TotalSections = len(st.SectionsByID)
		out.TotalWords = total
		out.RootFiles = append([]string(nil), st.RootFiles...)
	})
	if out.RootFiles == nil {
		out.RootFiles = []string{}
	}
	return out
}

// GetDependencies reports include edges and any orphaned sections (always
// empty under the invariants; emitted for verification per spec.md §4.4).
func (s *Surface) GetDependencies() Dependencies {
	out := Dependencies{CrossReferences: []string{}}
	s.index.View(func(st *project.State) {
		out.Includes = make(map[string][]string, len(st.IncludeEdges))
		for k, v := range st.IncludeEdges {
			out.Includes[k] = append([]string(nil), v...)
		}

		topLevel := map[string]bool{}
		for _, root := range st.RootFiles {
			for _, id := range st.TopLevelIDs(root) {
				topLevel[id] = true
			}
		}
		for id, sec := range st.SectionsByID {
			if sec.ParentID == "" && !topLevel[id] {
				out.OrphanedSections = append(out.OrphanedSections, id)
			}
		}
		sort.Strings(out.OrphanedSections)
	})
	if out.OrphanedSections == nil {
		out.OrphanedSections = []string{}
	}
	return out
}

// ValidateStructure checks every invariant spec.md §3 names against the
// live index and surfaces every warning accumulated during the last full
// build (spec.md §7's propagation policy).
func (s *Surface) ValidateStructure() ValidationResult {
	var issues []string
	var warnings []string
	s.index.View(func(st *project.State) {
		for id, sec := range st.SectionsByID {
			if sec.ParentID != "" {
				parent, ok := st.SectionsByID[sec.ParentID]
				if !ok {
					issues = append(issues, fmt.Sprintf("section %q references missing parent %q", id, sec.ParentID))
					continue
				}
				if parent.Level >= sec.Level {
					issues = append(issues, fmt.Sprintf("section %q has level %d not greater than parent %q's level %d", id, sec.Level, sec.ParentID, parent.Level))
				}
				if !containsID(parent.Children, id) {
					issues = append(issues, fmt.Sprintf("parent %q does not list child %q", sec.ParentID, id))
				}
			}
			if sec.LineStart > sec.LineEnd {
				issues = append(issues, fmt.Sprintf("section %q has line_start %d after line_end %d", id, sec.LineStart, sec.LineEnd))
			}
		}
		for p := range st.IncludedFiles {
			if st.IsRootFile(p) {
				issues = append(issues, fmt.Sprintf("%q is both an included file and a root file", p))
			}
		}
		for _, w := range st.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s -> %s (line %d)", w.Kind, w.Includer, w.Target, w.Line))
		}
	})
	if issues == nil {
		issues = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ValidationResult{Valid: len(issues) == 0, Issues: issues, Warnings: warnings}
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
