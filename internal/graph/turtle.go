package graph

import (
	"fmt"
	"net/url"
	"strings"
)

// TurtleNamespace prefixes every identity in Turtle output.
const TurtleNamespace = "urn:noteweaver:"

// PredicateFloating replaces floating values in formats without this notion.
const PredicateFloating = "floating"

// Turtle writes the named objects of the graph as RDF Turtle triples.
// Anonymous objects become blank nodes.
func (g *Graph) Turtle() string {
	w := &turtleWriter{
		blanks: make(map[*Node]string),
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("@prefix : <%s> .\n", TurtleNamespace))

	var queue []*Node
	for _, node := range g.Named() {
		if node.Type == Object && !node.IsEmpty() {
			queue = append(queue, node)
		}
	}
	written := make(map[*Node]bool)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if written[node] {
			continue
		}
		written[node] = true

		var statements []string
		add := func(predicate string, value *Node) {
			statements = append(statements, fmt.Sprintf(":%s %s", url.PathEscape(predicate), w.term(value)))
			if value.Type == Object && value.IsAnonymous() && !written[value] {
				queue = append(queue, value)
			}
		}
		for _, predicate := range node.Predicates() {
			for _, value := range node.Attribute(predicate) {
				add(predicate, value)
			}
		}
		for _, value := range node.Floating() {
			add(PredicateFloating, value)
		}
		if len(statements) == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(w.term(node))
		sb.WriteString("\n    ")
		sb.WriteString(strings.Join(statements, " ;\n    "))
		sb.WriteString(" .\n")
	}
	return sb.String()
}

type turtleWriter struct {
	blanks map[*Node]string
}

func (w *turtleWriter) term(node *Node) string {
	switch node.Type {
	case String:
		return escapeString(node.Value)
	case Integer, Double:
		return node.Value
	case URI:
		return "<" + node.ID + ">"
	}
	if node.IsAnonymous() {
		label, ok := w.blanks[node]
		if !ok {
			label = fmt.Sprintf("_:b%d", len(w.blanks)+1)
			w.blanks[node] = label
		}
		return label
	}
	return "<" + TurtleNamespace + url.PathEscape(node.ID) + ">"
}
