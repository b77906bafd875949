package graph

import (
	"strings"
)

const indentUnit = "  "

// Canonical returns the canonical Graph Text Format of a node.
//
// An anonymous node is written as a document whose statements are its content.
// A named node is written as a single "name { ... } ;" statement.
func Canonical(node *Node) string {
	w := newCanonicalWriter()
	if node.IsAnonymous() {
		return w.body(node, 0)
	}
	return w.value(node, 0) + " ;\n"
}

// Canonical returns the canonical Graph Text Format of every named object with content.
func (g *Graph) Canonical() string {
	w := newCanonicalWriter()
	var sb strings.Builder
	for _, node := range g.Named() {
		if node.Type != Object || node.IsEmpty() || w.printed[node] {
			continue
		}
		sb.WriteString(w.value(node, 0))
		sb.WriteString(" ;\n")
	}
	return sb.String()
}

type canonicalWriter struct {
	// Named nodes already expanded
	printed map[*Node]bool
	// Anonymous nodes being expanded
	visiting map[*Node]bool
}

func newCanonicalWriter() *canonicalWriter {
	return &canonicalWriter{
		printed:  make(map[*Node]bool),
		visiting: make(map[*Node]bool),
	}
}

func (w *canonicalWriter) body(node *Node, depth int) string {
	indent := strings.Repeat(indentUnit, depth)
	var sb strings.Builder

	for _, predicate := range node.Predicates() {
		var values []string
		for _, value := range w.flatten(node.Attribute(predicate), nil) {
			values = append(values, w.value(value, depth))
		}
		sb.WriteString(indent)
		sb.WriteString(predicate)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(values, ", "))
		sb.WriteString(" ;\n")
	}

	floating := w.flatten(node.Floating(), nil)
	for i := 0; i < len(floating); {
		first := floating[i]
		sb.WriteString(indent)
		if first.IsLiteral() {
			// Group the run of literals of the same type on a single line
			var run []string
			for i < len(floating) && floating[i].Type == first.Type {
				run = append(run, w.value(floating[i], depth))
				i++
			}
			sb.WriteString(strings.Join(run, ", "))
		} else {
			sb.WriteString(w.value(first, depth))
			i++
		}
		sb.WriteString(" ;\n")
	}

	return sb.String()
}

func (w *canonicalWriter) value(node *Node, depth int) string {
	switch node.Type {
	case String:
		return escapeString(node.Value)
	case Integer, Double:
		return node.Value
	case URI:
		return "<" + node.ID + ">"
	}

	indent := strings.Repeat(indentUnit, depth)
	if !node.IsAnonymous() {
		if node.IsEmpty() || w.printed[node] {
			return node.ID
		}
		w.printed[node] = true
		return node.ID + " {\n" + w.body(node, depth+1) + indent + "}"
	}

	if node.IsEmpty() || w.visiting[node] {
		return "_"
	}
	w.visiting[node] = true
	defer delete(w.visiting, node)
	return "[\n" + w.body(node, depth+1) + indent + "]"
}

// flatten replaces collapsible nodes by their floating value.
func (w *canonicalWriter) flatten(values []*Node, seen map[*Node]bool) []*Node {
	var results []*Node
	for _, value := range values {
		if !value.IsCollapsible() {
			results = append(results, value)
			continue
		}
		if seen == nil {
			seen = make(map[*Node]bool)
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		results = append(results, w.flatten(value.Floating(), seen)...)
	}
	return results
}
