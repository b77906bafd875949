package graph

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Type of a node.
type Type int

const (
	Object Type = iota
	String
	Integer
	Double
	URI
)

func (t Type) String() string {
	switch t {
	case Object:
		return "object"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Double:
		return "double"
	case URI:
		return "uri"
	}
	return "unknown"
}

// IsLiteral returns if values of this type are never interned.
func (t Type) IsLiteral() bool {
	return t == String || t == Integer || t == Double
}

// Well-known predicates.
const (
	PredicateType     = "a"
	PredicateName     = "name"
	PredicateID       = "id"
	PredicateLink     = "link"
	PredicateBacklink = "backlink"
	PredicateTarget   = "target"
	PredicateSection  = "section"
	PredicateText     = "text"
)

// Node is an entity of the semantic graph.
//
// Objects and URIs are identified by ID (empty for anonymous objects).
// Literals (strings, integers, doubles) carry a Value and no identity.
type Node struct {
	Type  Type
	ID    string
	Value string

	attributes map[string][]*Node
	floating   []*Node

	graph *Graph
}

// IsAnonymous returns if the node has no identity.
func (n *Node) IsAnonymous() bool {
	return n.ID == ""
}

// IsLiteral returns if the node is a string, an integer or a double.
func (n *Node) IsLiteral() bool {
	return n.Type.IsLiteral()
}

// IsEmpty returns if the node has neither attributes nor floating values.
func (n *Node) IsEmpty() bool {
	return len(n.attributes) == 0 && len(n.floating) == 0
}

// IsReference returns if the node is an identity only.
func (n *Node) IsReference() bool {
	return !n.IsAnonymous() && n.IsEmpty()
}

// IsCollapsible returns if the node is only a wrapper around a single floating value.
// Such nodes are replaced by their floating value when used as a value.
func (n *Node) IsCollapsible() bool {
	return n.Type == Object && n.IsAnonymous() && len(n.attributes) == 0 && len(n.floating) == 1
}

// Predicates returns the attribute names in lexicographic order.
func (n *Node) Predicates() []string {
	var results []string
	for key := range n.attributes {
		results = append(results, key)
	}
	slices.Sort(results)
	return results
}

// Attribute returns the values of a predicate.
func (n *Node) Attribute(predicate string) []*Node {
	return n.attributes[predicate]
}

// First returns the first value of a predicate or nil.
func (n *Node) First(predicate string) *Node {
	values := n.attributes[predicate]
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// StringAttribute returns the first literal value of a predicate.
func (n *Node) StringAttribute(predicate string) (string, bool) {
	for _, value := range n.attributes[predicate] {
		if value.IsLiteral() {
			return value.Value, true
		}
	}
	return "", false
}

// Name returns the value of the "name" attribute.
func (n *Node) Name() string {
	name, _ := n.StringAttribute(PredicateName)
	return name
}

// Types returns the identities of the "a" attribute.
func (n *Node) Types() []string {
	var results []string
	for _, value := range n.attributes[PredicateType] {
		results = append(results, value.Text())
	}
	return results
}

// HasType returns if the node is declared with the given type.
func (n *Node) HasType(typ string) bool {
	return slices.Contains(n.Types(), typ)
}

// Floating returns the values attached without predicate.
func (n *Node) Floating() []*Node {
	return n.floating
}

// Text returns the identity of an object or the value of a literal.
func (n *Node) Text() string {
	if n.IsLiteral() {
		return n.Value
	}
	return n.ID
}

// Add appends values to a predicate.
// Collapsible values are replaced by their floating values.
func (n *Node) Add(predicate string, values ...*Node) {
	for _, value := range values {
		if value.IsCollapsible() {
			n.Add(predicate, value.floating...)
			continue
		}
		n.appendAttribute(predicate, value)
	}
}

// AddString is a shortcut to add a string literal.
func (n *Node) AddString(predicate, value string) {
	n.Add(predicate, n.graph.NewString(value))
}

// AddObject is a shortcut to add a reference to a named object.
func (n *Node) AddObject(predicate, id string) {
	n.Add(predicate, n.graph.GetOrCreate(id, Object))
}

// AddFloating appends values without predicate.
// Collapsible values are replaced by their floating values.
func (n *Node) AddFloating(values ...*Node) {
	for _, value := range values {
		if value.IsCollapsible() {
			n.AddFloating(value.floating...)
			continue
		}
		n.appendFloating(value)
	}
}

// ContainsFloating returns if the exact node is a floating value.
func (n *Node) ContainsFloating(value *Node) bool {
	return slices.Contains(n.floating, value)
}

// ContainsValue returns if a predicate has a value equivalent to the given one.
func (n *Node) ContainsValue(predicate string, value *Node) bool {
	for _, existing := range n.attributes[predicate] {
		if Equivalent(existing, value) {
			return true
		}
	}
	return false
}

func (n *Node) appendAttribute(predicate string, value *Node) {
	if n.attributes == nil {
		n.attributes = make(map[string][]*Node)
	}
	n.attributes[predicate] = append(n.attributes[predicate], value)
	n.graph.record(func() {
		values := n.attributes[predicate]
		if len(values) <= 1 {
			delete(n.attributes, predicate)
			return
		}
		n.attributes[predicate] = values[:len(values)-1]
	})
}

func (n *Node) appendFloating(value *Node) {
	n.floating = append(n.floating, value)
	n.graph.record(func() {
		n.floating = n.floating[:len(n.floating)-1]
	})
}

// Equivalent compares two nodes structurally.
// Identified nodes are equivalent only to themselves.
func Equivalent(a, b *Node) bool {
	return equivalent(a, b, 0)
}

func equivalent(a, b *Node, depth int) bool {
	if a == b {
		return true
	}
	if a.Type != b.Type {
		return false
	}
	if a.IsLiteral() {
		return a.Value == b.Value
	}
	if !a.IsAnonymous() || !b.IsAnonymous() {
		return false
	}
	if depth > maxEquivalenceDepth {
		return false
	}
	if len(a.attributes) != len(b.attributes) || len(a.floating) != len(b.floating) {
		return false
	}
	for key, valuesA := range a.attributes {
		valuesB := b.attributes[key]
		if len(valuesA) != len(valuesB) {
			return false
		}
		for i := range valuesA {
			if !equivalent(valuesA[i], valuesB[i], depth+1) {
				return false
			}
		}
	}
	for i := range a.floating {
		if !equivalent(a.floating[i], b.floating[i], depth+1) {
			return false
		}
	}
	return true
}

const maxEquivalenceDepth = 32

// IsIdentifier returns if a string can be written as a bare identifier.
func IsIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		if !isIdentifierRune(r) {
			return false
		}
		if i == 0 && r == '-' {
			return false
		}
	}
	// A run of digits is a number, not an identifier
	return strings.TrimLeft(s, "0123456789") != ""
}

func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
