package text

import (
	"path"
	"strings"
)

// IsBlank returns if a text contains only whitespace.
func IsBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}

// TrimExtension removes the extension from a file name or a slash-separated path.
//
//	TrimExtension("projects/todo.nw") // projects/todo
func TrimExtension(p string) string {
	p = strings.TrimSuffix(p, "/")
	return strings.TrimSuffix(p, path.Ext(p))
}

// Indent prefixes every non-empty line.
func Indent(text string, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
