package graph

import "strconv"

// Export converts the named objects of the graph into plain values
// (maps, slices, strings, numbers) usable by JSON encoders and jq queries.
//
//	{"entities": [{"id": "...", "types": [...], "attributes": {...}, "floating": [...]}]}
func (g *Graph) Export() map[string]any {
	var entities []any
	for _, node := range g.Named() {
		if node.Type != Object {
			continue
		}
		entities = append(entities, exportObject(node, make(map[*Node]bool)))
	}
	return map[string]any{
		"entities": entities,
	}
}

// Export converts a single node into plain values.
func Export(node *Node) any {
	if node.Type == Object {
		return exportObject(node, make(map[*Node]bool))
	}
	return exportValue(node, nil)
}

func exportObject(node *Node, visiting map[*Node]bool) map[string]any {
	visiting[node] = true
	defer delete(visiting, node)

	result := make(map[string]any)
	if node.ID != "" {
		result["id"] = node.ID
	}
	types := []any{}
	for _, typ := range node.Types() {
		types = append(types, typ)
	}
	result["types"] = types

	attributes := make(map[string]any)
	for _, predicate := range node.Predicates() {
		var values []any
		for _, value := range node.Attribute(predicate) {
			values = append(values, exportValue(value, visiting))
		}
		attributes[predicate] = values
	}
	result["attributes"] = attributes

	floating := []any{}
	for _, value := range node.Floating() {
		floating = append(floating, exportValue(value, visiting))
	}
	result["floating"] = floating
	return result
}

func exportValue(node *Node, visiting map[*Node]bool) any {
	switch node.Type {
	case String:
		return node.Value
	case Integer:
		if v, err := strconv.Atoi(node.Value); err == nil {
			return v
		}
		return node.Value
	case Double:
		if v, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return v
		}
		return node.Value
	case URI:
		return map[string]any{"uri": node.ID}
	}
	if !node.IsAnonymous() {
		return map[string]any{"ref": node.ID}
	}
	if visiting[node] {
		return nil
	}
	return exportObject(node, visiting)
}
