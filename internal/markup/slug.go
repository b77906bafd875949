package markup

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const slugPunctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~"

var lower = cases.Lower(language.Und)

// Slug converts a heading into an HTML anchor.
//
//	Slug("Hello, World!", "") // hello-world
func Slug(text string, prefix string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if r < 0x80 && strings.ContainsRune(slugPunctuation, r) {
			continue
		}
		sb.WriteRune(r)
	}
	result := lower.String(sb.String())
	result = strings.ReplaceAll(result, " ", "-")
	return prefix + result
}
