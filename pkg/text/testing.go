package text

import "strings"

// UnescapeTestContent replaces the ” character by a backquote.
// Raw strings in Go cannot contain backquotes used for inline code.
//
//	UnescapeTestContent("Run ”go test”") // Run `go test`
func UnescapeTestContent(content string) string {
	return strings.ReplaceAll(content, "”", "`")
}
