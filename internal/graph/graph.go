// Package graph implements the semantic graph shared by every note:
// nodes with sorted multi-valued attributes and floating values,
// the Graph Text Format parser, and its canonical writer.
package graph

import (
	"fmt"
	"strconv"
)

// Graph owns every node created during a run.
//
// A non-empty identity maps to exactly one node. Literal nodes are never interned.
// Graph is not safe for concurrent mutation.
type Graph struct {
	nodes    map[string]*Node
	entities []*Node

	// Undo log of mutations, only kept while a savepoint is active
	journal    []func()
	savepoints int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// Lookup returns the node with the given identity or nil.
func (g *Graph) Lookup(id string) *Node {
	return g.nodes[id]
}

// GetOrCreate returns the node with the given identity, creating it on first mention.
// An empty identity always creates a new anonymous node.
func (g *Graph) GetOrCreate(id string, typ Type) *Node {
	if id != "" {
		if node, ok := g.nodes[id]; ok {
			return node
		}
	}
	node := &Node{
		Type:  typ,
		ID:    id,
		graph: g,
	}
	g.register(node)
	return node
}

// NewObject creates an anonymous object.
func (g *Graph) NewObject() *Node {
	return g.GetOrCreate("", Object)
}

// NewString creates a string literal.
func (g *Graph) NewString(value string) *Node {
	return &Node{Type: String, Value: value, graph: g}
}

// NewInteger creates an integer literal.
func (g *Graph) NewInteger(value int64) *Node {
	return &Node{Type: Integer, Value: strconv.FormatInt(value, 10), graph: g}
}

// NewDouble creates a double literal.
func (g *Graph) NewDouble(value float64) *Node {
	return &Node{Type: Double, Value: formatDouble(value), graph: g}
}

// NewURI returns the interned node for an URI.
func (g *Graph) NewURI(uri string) *Node {
	return g.GetOrCreate(uri, URI)
}

func (g *Graph) newLiteral(typ Type, raw string) *Node {
	return &Node{Type: typ, Value: raw, graph: g}
}

// SetID names an anonymous node.
func (g *Graph) SetID(node *Node, id string) error {
	if node.ID == id {
		return nil
	}
	if !node.IsAnonymous() {
		return fmt.Errorf("node %q is already named", node.ID)
	}
	if existing, ok := g.nodes[id]; ok && existing != node {
		return fmt.Errorf("identity %q is already used", id)
	}
	node.ID = id
	g.nodes[id] = node
	g.record(func() {
		delete(g.nodes, id)
		node.ID = ""
	})
	return nil
}

func (g *Graph) register(node *Node) {
	if node.ID != "" {
		g.nodes[node.ID] = node
	}
	g.entities = append(g.entities, node)
	g.record(func() {
		if node.ID != "" {
			delete(g.nodes, node.ID)
		}
		g.entities = g.entities[:len(g.entities)-1]
	})
}

// Entities returns every object and URI created in order of creation.
func (g *Graph) Entities() []*Node {
	return g.entities
}

// Named returns every identified node in order of creation.
func (g *Graph) Named() []*Node {
	var results []*Node
	for _, node := range g.entities {
		if !node.IsAnonymous() {
			results = append(results, node)
		}
	}
	return results
}

// EntitiesOfType returns the objects declared with "a <typ>".
func (g *Graph) EntitiesOfType(typ string) []*Node {
	var results []*Node
	for _, node := range g.entities {
		if node.HasType(typ) {
			results = append(results, node)
		}
	}
	return results
}

// FindByName returns the objects whose "name" attribute matches.
func (g *Graph) FindByName(name string) []*Node {
	var results []*Node
	for _, node := range g.entities {
		for _, value := range node.Attribute(PredicateName) {
			if value.IsLiteral() && value.Value == name {
				results = append(results, node)
				break
			}
		}
	}
	return results
}

// Size returns the number of objects and URIs.
func (g *Graph) Size() int {
	return len(g.entities)
}
