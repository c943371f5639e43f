package tooldispatch

import (
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/sectionedit"
)

func buildTools(index *project.Index, s *query.Surface, e *sectionedit.Editor) []Tool {
	return []Tool{
		{
			Name:        "get_structure",
			Description: "Return the full section tree, optionally pruned to a maximum heading level.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"max_depth": {Type: "integer", Description: "prune to sections at this level or shallower; 0 or omitted means unlimited"},
			}},
			Handle: func(args map[string]any) (any, error) {
				maxDepth, err := intArg(args, "max_depth", 0)
				if err != nil {
					return nil, err
				}
				return s.GetStructure(maxDepth), nil
			},
		},
		{
			Name:        "get_section",
			Description: "Resolve a single section by identifier.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"id": {Type: "string", Description: "dotted section identifier"},
			}, Required: []string{"id"}},
			Handle: func(args map[string]any) (any, error) {
				id, err := stringArg(args, "id")
				if err != nil {
					return nil, err
				}
				return s.GetSection(id)
			},
		},
		{
			Name:        "get_sections",
			Description: "Return every section at a given heading level, in source order.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"level": {Type: "integer", Description: "heading level 1-6"},
			}, Required: []string{"level"}},
			Handle: handleGetSections(s),
		},
		{
			Name:        "get_sections_by_level",
			Description: "Alias of get_sections.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"level": {Type: "integer", Description: "heading level 1-6"},
			}, Required: []string{"level"}},
			Handle: handleGetSections(s),
		},
		{
			Name:        "get_root_files_structure",
			Description: "Return every root file with its top-level sections nested into their full subtree.",
			InputSchema: InputSchema{Type: "object"},
			Handle: func(args map[string]any) (any, error) {
				return s.GetRootFilesStructure(), nil
			},
		},
		{
			Name:        "get_main_chapters",
			Description: "Return the document's main chapter sections (numeric-prefixed level-2, or un-prefixed level-1).",
			InputSchema: InputSchema{Type: "object"},
			Handle: func(args map[string]any) (any, error) {
				return s.GetMainChapters(), nil
			},
		},
		{
			Name:        "search_content",
			Description: "Search section titles and content for a case-insensitive substring, ranked by match quality.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"query": {Type: "string", Description: "substring to search for"},
			}, Required: []string{"query"}},
			Handle: func(args map[string]any) (any, error) {
				q, err := stringArg(args, "query")
				if err != nil {
					return nil, err
				}
				return s.SearchContent(q)
			},
		},
		{
			Name:        "get_metadata",
			Description: "Return metadata for a single section, or project-wide metadata when no path is given.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"path": {Type: "string", Description: "section id; omit for project-wide metadata"},
			}},
			Handle: func(args map[string]any) (any, error) {
				if path := optionalStringArg(args, "path", ""); path != "" {
					return s.GetSectionMetadata(path)
				}
				return s.GetProjectMetadata(), nil
			},
		},
		{
			Name:        "get_dependencies",
			Description: "Return include edges, cross-references, and orphaned sections.",
			InputSchema: InputSchema{Type: "object"},
			Handle: func(args map[string]any) (any, error) {
				return s.GetDependencies(), nil
			},
		},
		{
			Name:        "validate_structure",
			Description: "Check the live index against its structural invariants and return any issues and warnings.",
			InputSchema: InputSchema{Type: "object"},
			Handle: func(args map[string]any) (any, error) {
				return s.ValidateStructure(), nil
			},
		},
		{
			Name:        "refresh_index",
			Description: "Force a full re-discovery and re-parse from scratch; returns the new project metadata.",
			InputSchema: InputSchema{Type: "object"},
			Handle: func(args map[string]any) (any, error) {
				if err := index.Refresh(); err != nil {
					return nil, err
				}
				return s.GetProjectMetadata(), nil
			},
		},
		{
			Name:        "update_section",
			Description: "Replace the body of a section with new content.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"path":    {Type: "string", Description: "section id"},
				"content": {Type: "string", Description: "replacement body text"},
			}, Required: []string{"path", "content"}},
			Handle: func(args map[string]any) (any, error) {
				path, err := stringArg(args, "path")
				if err != nil {
					return nil, err
				}
				content, err := stringArg(args, "content")
				if err != nil {
					return nil, err
				}
				// spec.md §4.7 step 5: failures here are reported as a
				// {success:false, error_kind} tool result, not a JSON-RPC
				// protocol error.
				result, _ := e.UpdateSection(path, content)
				return result, nil
			},
		},
		{
			Name:        "insert_section",
			Description: "Insert a new section as a child of parent_path.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{
				"parent_path": {Type: "string", Description: "parent section id"},
				"title":       {Type: "string", Description: "new section's heading text"},
				"content":     {Type: "string", Description: "new section's body text"},
				"position":    {Type: "string", Description: `one of "before", "after", "append"`},
			}, Required: []string{"parent_path", "title", "content", "position"}},
			Handle: func(args map[string]any) (any, error) {
				parentPath, err := stringArg(args, "parent_path")
				if err != nil {
					return nil, err
				}
				title, err := stringArg(args, "title")
				if err != nil {
					return nil, err
				}
				content, err := stringArg(args, "content")
				if err != nil {
					return nil, err
				}
				position, err := stringArg(args, "position")
				if err != nil {
					return nil, err
				}
				result, _ := e.InsertSection(parentPath, title, content, position)
				return result, nil
			},
		},
	}
}

func handleGetSections(s *query.Surface) func(map[string]any) (any, error) {
	return func(args map[string]any) (any, error) {
		level, err := intArg(args, "level", 0)
		if err != nil {
			return nil, err
		}
		return s.GetSections(level)
	}
}
