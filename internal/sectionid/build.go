package sectionid

import (
	"strconv"

	"github.com/aidanlsb/docsectiond/internal/markup"
)

// Node is a Record with its computed identifier and parent linkage, ready
// for the Project Indexer to fold into the section map.
type Node struct {
	ID       string
	ParentID string // empty means top-level
	Record   markup.Record
}

type stackEntry struct {
	id    string
	level int
}

// Build assigns identifiers to records in source order per spec.md §4.2's
// nesting and disambiguation rules. records must already be in document
// order (the order internal/markup.Scan returns them in).
func Build(records []markup.Record) []Node {
	return NewDisambiguator().Build(records)
}

// BuildMulti runs Build independently over each group (one group per root
// file's record stream, so nesting never leaks across roots) while sharing
// one disambiguation table across all of them. This is what lets two root
// files whose top-level heading titles collide still get distinct
// identifiers ("intro", "intro-2", ...), matching spec.md §4.2's claim that
// identifiers never collide across roots.
func BuildMulti(groups [][]markup.Record) [][]Node {
	d := NewDisambiguator()
	out := make([][]Node, len(groups))
	for gi, records := range groups {
		out[gi] = d.Build(records)
	}
	return out
}

// Disambiguator assigns identifiers to one or more independent record groups
// (each typically a root file's record stream) while remembering every slug
// it has ever handed out under each parent scope. Reusing one Disambiguator
// across an internal/project incremental refresh is what keeps top-level
// identifiers stable and collision-free across roots that are reparsed at
// different times, without having to rebuild the whole project from scratch.
type Disambiguator struct {
	used map[string]map[string]int
}

// NewDisambiguator returns an empty Disambiguator.
func NewDisambiguator() *Disambiguator {
	return &Disambiguator{used: map[string]map[string]int{}}
}

// Usage records how many slugs a single Build call added to each
// disambiguation scope (parentID -> slug -> count). A caller that reparses
// the same root again later passes it to Release first, so the re-parse
// starts from the counts contributed by every *other* root and reproduces
// identical identifiers when the reparsed root's headings didn't change.
type Usage map[string]map[string]int

// Build assigns identifiers to one record group (one root's stream). The
// nesting stack always starts empty; the disambiguation table persists
// across calls on the same Disambiguator.
func (d *Disambiguator) Build(records []markup.Record) []Node {
	nodes, _ := d.BuildTracked(records)
	return nodes
}

// BuildTracked behaves like Build but also returns the Usage this call
// contributed, so the caller can later undo exactly this contribution with
// Release before re-adding the same root's records.
func (d *Disambiguator) BuildTracked(records []markup.Record) ([]Node, Usage) {
	usage := Usage{}
	var stack []stackEntry
	nodes := make([]Node, 0, len(records))
	for _, rec := range records {
		for len(stack) > 0 && stack[len(stack)-1].level >= rec.Level {
			stack = stack[:len(stack)-1]
		}

		parentID := ""
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}

		slug := Slug(rec.Title)
		id := d.disambiguate(parentID, slug, parentID != "")

		scope, ok := usage[parentID]
		if !ok {
			scope = map[string]int{}
			usage[parentID] = scope
		}
		scope[slug]++

		nodes = append(nodes, Node{ID: id, ParentID: parentID, Record: rec})
		stack = append(stack, stackEntry{id: id, level: rec.Level})
	}
	return nodes, usage
}

// Release undoes a prior BuildTracked call's contribution, decrementing the
// scope counts it incremented. Call this before reparsing a root that was
// already folded into d, so the reparse starts from only the other roots'
// contributions rather than double-counting this root's prior slugs.
func (d *Disambiguator) Release(usage Usage) {
	for parentID, scope := range usage {
		dscope, ok := d.used[parentID]
		if !ok {
			continue
		}
		for slug, n := range scope {
			dscope[slug] -= n
			if dscope[slug] <= 0 {
				delete(dscope, slug)
			}
		}
		if len(dscope) == 0 {
			delete(d.used, parentID)
		}
	}
}

// disambiguate returns a unique identifier for slug scoped to parentID,
// appending "-2", "-3", ... on collision. The full identifier is
// parentID + "." + slug (or just slug for top-level sections).
func (d *Disambiguator) disambiguate(parentID, slug string, hasParent bool) string {
	scope, ok := d.used[parentID]
	if !ok {
		scope = map[string]int{}
		d.used[parentID] = scope
	}

	count := scope[slug]
	scope[slug] = count + 1

	candidate := slug
	if count > 0 {
		candidate = slugSuffix(slug, count+1)
	}

	if hasParent {
		return parentID + "." + candidate
	}
	return candidate
}

func slugSuffix(slug string, n int) string {
	return slug + "-" + strconv.Itoa(n)
}
