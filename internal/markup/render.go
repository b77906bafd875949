package markup

import (
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"wbr":    true,
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var attributeEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")

// Render serializes an element tree.
// Single quotes are left untouched as links embed JavaScript calls in attributes.
func Render(node *html.Node) string {
	var sb strings.Builder
	render(&sb, node)
	return sb.String()
}

// RenderChildren serializes the children of a node.
func RenderChildren(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		render(&sb, child)
	}
	return sb.String()
}

func render(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(textEscaper.Replace(node.Data))
	case html.RawNode:
		sb.WriteString(node.Data)
	case html.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(node.Data)
		sb.WriteString("-->")
	case html.DocumentNode:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			render(sb, child)
		}
	case html.ElementNode:
		sb.WriteByte('<')
		sb.WriteString(node.Data)
		for _, attr := range node.Attr {
			sb.WriteByte(' ')
			sb.WriteString(attr.Key)
			sb.WriteString(`="`)
			sb.WriteString(attributeEscaper.Replace(attr.Val))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if voidElements[node.Data] {
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			render(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(node.Data)
		sb.WriteByte('>')
	}
}
