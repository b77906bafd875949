package core

import (
	"fmt"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
)

// link adds the link and backlink attributes for every reference found in a note.
func (r *Runtime) link(note *Note) {
	for _, block := range note.Tree.Leaves() {
		if block.Kind == markup.Code {
			continue
		}
		for _, link := range markup.ExtractLinks(block.Content) {
			target, ok := r.resolve(link, true)
			if !ok {
				// Reported when rendering
				continue
			}
			r.addLink(note.Entity, target, link)
		}
	}
}

// resolve finds the entity referenced by a link.
//
// The reference is tried as an identity, then as a note title.
// Typed data tags (^type[Ref]) fall back on a virtual entity with the same
// type and name, created on first mention when create is set.
func (r *Runtime) resolve(link markup.Link, create bool) (*graph.Node, bool) {
	if node := r.graph.Lookup(link.Ref); node != nil && node.Type == graph.Object {
		if note := r.byEntity[node]; note != nil && note.Error {
			return nil, false
		}
		return node, true
	}
	if note := r.NoteByTitle(link.Ref); note != nil && note.Entity != nil && !note.Error {
		return note.Entity, true
	}
	if link.Kind != markup.EntityLink || link.Type == "" {
		return nil, false
	}
	for _, virtual := range r.virtuals {
		if virtual.HasType(link.Type) && virtual.Name() == link.Ref {
			return virtual, true
		}
	}
	if !create {
		return nil, false
	}
	entity := r.graph.NewObject()
	entity.AddObject(graph.PredicateType, link.Type)
	entity.AddString(graph.PredicateName, link.Ref)
	r.virtualID(entity)
	return entity, true
}

// virtualID returns the identifier used to render an entity without a note.
func (r *Runtime) virtualID(entity *graph.Node) string {
	if id, ok := r.virtualIDs[entity]; ok {
		return id
	}
	r.virtuals = append(r.virtuals, entity)
	id := fmt.Sprintf("v%d", len(r.virtuals))
	r.virtualIDs[entity] = id
	return id
}

// addLink connects two entities in both directions.
//
//	source link [ target <target> ; section "..." ; text "..." ]
//	target backlink [ target <source> ; section "..." ; text "..." ]
func (r *Runtime) addLink(source, target *graph.Node, link markup.Link) {
	forward := r.newLinkNode(target, link)
	if !source.ContainsValue(graph.PredicateLink, forward) {
		source.Add(graph.PredicateLink, forward)
	}
	backward := r.newLinkNode(source, link)
	if !target.ContainsValue(graph.PredicateBacklink, backward) {
		target.Add(graph.PredicateBacklink, backward)
	}
}

func (r *Runtime) newLinkNode(target *graph.Node, link markup.Link) *graph.Node {
	node := r.graph.NewObject()
	node.Add(graph.PredicateTarget, target)
	if link.Section != "" {
		node.AddString(graph.PredicateSection, link.Section)
	}
	node.AddString(graph.PredicateText, link.Text)
	return node
}
