package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultContentWidth is the width in pixels of the note content.
const DefaultContentWidth = 588

const attributesStyle = "align-items: baseline; display: flex; color: var(--secondary-fg-color)"
const typesStyle = "margin-bottom: 10px; " + attributesStyle
const valuesStyle = "row-gap: 3px; display: flex; flex-wrap: wrap;"

// Attributes not listed in the note attributes block.
var hiddenAttributes = map[string]bool{
	graph.PredicateType:     true,
	graph.PredicateName:     true,
	graph.PredicateLink:     true,
	graph.PredicateBacklink: true,
}

// Target is the destination of a resolved link.
type Target struct {
	NoteID    string
	VirtualID string
	Section   string
}

// Resolver provides the information the renderer cannot find in a single document.
type Resolver interface {
	// ResolveLink returns the destination of a link.
	ResolveLink(link Link) (Target, bool)
	// ResolveFile returns the path of a file relative to the files directory.
	ResolveFile(ref string) (string, bool)
	// Placeholder reserves the element for a tag processed after all notes are rendered.
	Placeholder(tag *Tag, node *html.Node) bool
	Warnf(format string, args ...any)
}

// NopResolver resolves nothing.
type NopResolver struct{}

func (NopResolver) ResolveLink(Link) (Target, bool)       { return Target{}, false }
func (NopResolver) ResolveFile(ref string) (string, bool) { return ref, true }
func (NopResolver) Placeholder(*Tag, *html.Node) bool     { return false }
func (NopResolver) Warnf(string, ...any)                  {}

// RenderOption customizes a renderer.
type RenderOption func(*Renderer)

// ContentWidth sets the width used to size images and videos.
func ContentWidth(width int) RenderOption {
	return func(r *Renderer) {
		r.contentWidth = width
	}
}

// HeadingPrefix prefixes the ids of headings.
func HeadingPrefix(prefix string) RenderOption {
	return func(r *Renderer) {
		r.headingPrefix = prefix
	}
}

// Renderer converts block trees to HTML element trees.
type Renderer struct {
	resolver      Resolver
	contentWidth  int
	headingPrefix string
}

func NewRenderer(resolver Resolver, options ...RenderOption) *Renderer {
	if resolver == nil {
		resolver = NopResolver{}
	}
	r := &Renderer{
		resolver:     resolver,
		contentWidth: DefaultContentWidth,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// RenderNote renders a note inside a <div> identified by the note id.
func (r *Renderer) RenderNote(id string, root *Block) *html.Node {
	wrapper := Element(atom.Div, "id", id)
	for i, child := range root.Children {
		for _, node := range r.RenderBlock(child) {
			wrapper.AppendChild(node)
		}
		if i == 0 && root.Data != nil {
			for _, node := range r.renderNoteAttributes(root.Data) {
				wrapper.AppendChild(node)
			}
		}
	}
	return wrapper
}

// RenderBlock renders a block and its children.
func (r *Renderer) RenderBlock(block *Block) []*html.Node {
	switch block.Kind {
	case Root:
		var nodes []*html.Node
		for _, child := range block.Children {
			nodes = append(nodes, r.RenderBlock(child)...)
		}
		return nodes

	case Heading:
		level := block.Level
		if level < 1 || level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		heading := Element(headingAtoms[level-1], "id", Slug(block.Content, r.headingPrefix))
		r.RenderInline(heading, block.Content)
		return []*html.Node{heading}

	case Paragraph:
		if block.Content == "" {
			return nil
		}
		paragraph := Element(atom.P)
		r.RenderInline(paragraph, block.Content)
		return []*html.Node{paragraph}

	case Code:
		pre := Element(atom.Pre)
		code := Element(atom.Code, "class", "code-block", "style", "display: block;")
		appendText(code, block.Content)
		pre.AppendChild(code)
		return []*html.Node{pre}

	case List:
		list := Element(atom.Ul)
		if block.ListKind == NumberedList {
			list = Element(atom.Ol)
		}
		for _, child := range block.Children {
			for _, node := range r.RenderBlock(child) {
				list.AppendChild(node)
			}
		}
		return []*html.Node{list}

	case ListItem:
		item := Element(atom.Li)
		for _, child := range block.Children {
			for _, node := range r.RenderBlock(child) {
				item.AppendChild(node)
			}
		}
		return []*html.Node{item}
	}
	return nil
}

// Tags rendered without any callback.
var builtinTags = map[string]bool{
	"link":    true,
	"image":   true,
	"youtube": true,
	"code":    true,
	"html":    true,
	"note":    true,
}

var headingAtoms = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func (r *Renderer) renderNoteAttributes(data *graph.Node) []*html.Node {
	var nodes []*html.Node

	if types := data.Types(); len(types) > 0 {
		div := Element(atom.Div, "style", typesStyle)
		for _, typ := range types {
			label := Element(atom.Div, "class", "type")
			appendText(label, typ)
			div.AppendChild(label)
		}
		nodes = append(nodes, div)
	}

	container := Element(atom.Div, "class", "attributes")
	for _, predicate := range data.Predicates() {
		if hiddenAttributes[predicate] {
			continue
		}
		attribute := Element(atom.Div, "style", attributesStyle)
		label := Element(atom.Div, "class", "attribute-label")
		appendText(label, predicate)
		attribute.AppendChild(label)
		values := Element(atom.Div, "style", valuesStyle)
		for _, value := range data.Attribute(predicate) {
			div := Element(atom.Div, "class", "attribute-value")
			appendText(div, displayValue(value))
			values.AppendChild(div)
		}
		attribute.AppendChild(values)
		container.AppendChild(attribute)
	}
	if container.FirstChild != nil {
		nodes = append(nodes, container)
	}
	return nodes
}

func displayValue(value *graph.Node) string {
	if value.IsLiteral() || value.Type == graph.URI {
		return value.Text()
	}
	if name := value.Name(); name != "" {
		return name
	}
	if !value.IsAnonymous() {
		return value.ID
	}
	return strings.TrimSpace(graph.Canonical(value))
}

// RenderInline renders inline content into the parent element.
func (r *Renderer) RenderInline(parent *html.Node, content string) {
	tokens := tokenize(content)
	stack := []*html.Node{parent}
	current := func() *html.Node {
		return stack[len(stack)-1]
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.kind {
		case inlineEOF:
			return

		case inlineText, inlineSpace:
			appendText(current(), tok.value)

		case inlineOperator:
			if tok.value == "}" && len(stack) > 1 {
				stack = stack[:len(stack)-1]
				continue
			}
			appendText(current(), tok.value)

		case inlineTextTag:
			tag := tok.tag
			if tag.Sigil == '\\' && styleTags[tag.Name] {
				if tokens[i+1].isOperator("{") {
					style := Element(atom.I)
					if tag.Name == "b" {
						style = Element(atom.B)
					}
					current().AppendChild(style)
					stack = append(stack, style)
					i++
					continue
				}
				appendText(current(), tag.Literal())
				continue
			}
			r.renderTag(current(), tag)

		case inlineDataTag:
			r.renderDataTag(current(), tok)
		}
	}
}

func (r *Renderer) renderTag(parent *html.Node, tag *Tag) {
	if !builtinTags[tag.Name] {
		placeholder := Element(atom.Div, "class", "tag-"+tag.Name)
		if r.resolver.Placeholder(tag, placeholder) {
			parent.AppendChild(placeholder)
			return
		}
		appendText(parent, tag.Literal())
		return
	}
	if !tag.HasContent {
		appendText(parent, tag.Literal())
		return
	}

	switch tag.Name {
	case "link":
		title, url, section := parseLinkContent(tag.Content)
		if section != "" {
			url += "#" + Slug(section, "")
		}
		a := Element(atom.A, "href", url, "target", "_blank")
		appendText(a, title)
		parent.AppendChild(a)

	case "image":
		ref := strings.TrimSpace(tag.Content)
		path, ok := r.resolver.ResolveFile(ref)
		if !ok {
			r.resolver.Warnf("unknown file %q", ref)
			path = ref
		}
		parent.AppendChild(Element(atom.Img, "src", "files/"+path, "width", strconv.Itoa(r.contentWidth)))

	case "youtube":
		id, ok := YouTubeID(strings.TrimSpace(tag.Content))
		if !ok {
			r.resolver.Warnf("invalid YouTube URL %q", tag.Content)
			appendText(parent, tag.Literal())
			return
		}
		width, height := videoSize(
			parseSize(tag.Named["width"]),
			parseSize(tag.Named["height"]),
			float64(r.contentWidth-30))
		parent.AppendChild(Element(atom.Iframe,
			"width", formatSize(width),
			"height", formatSize(height),
			"style", "margin: 0 auto; display: block;",
			"src", "https://www.youtube-nocookie.com/embed/"+id,
			"frameborder", "0",
			"allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture",
			"allowfullscreen", ""))

	case "code":
		code := Element(atom.Code, "class", "code-inline")
		appendText(code, strings.ReplaceAll(tag.Content, "\n", " "))
		parent.AppendChild(code)

	case "html":
		parent.AppendChild(&html.Node{Type: html.RawNode, Data: tag.Content})

	case "note":
		r.renderNoteLink(parent, tag)
	}
}

func (r *Renderer) renderNoteLink(parent *html.Node, tag *Tag) {
	link, ok := linkOf(inlineToken{kind: inlineTextTag, tag: tag})
	if !ok {
		appendText(parent, tag.Literal())
		return
	}
	target, ok := r.resolver.ResolveLink(link)
	if !ok || target.NoteID == "" {
		r.resolver.Warnf("broken note link, couldn't find note for title: %s", link.Ref)
		a := Element(atom.A, "class", "note-link-broken")
		appendText(a, link.Text)
		parent.AppendChild(a)
		return
	}
	parent.AppendChild(r.NoteLink(target, link.Text))
}

// NoteLink returns the anchor opening a note.
func (r *Renderer) NoteLink(target Target, text string) *html.Node {
	href := "?n=" + target.NoteID
	onclick := fmt.Sprintf("return open_note('%s');", target.NoteID)
	if target.Section != "" {
		anchor := Slug(target.Section, r.headingPrefix)
		href += "#" + anchor
		onclick = fmt.Sprintf("return open_note('%s','%s');", target.NoteID, anchor)
	}
	a := Element(atom.A, "href", href, "onclick", onclick, "class", "note-link")
	appendText(a, text)
	return a
}

func (r *Renderer) renderDataTag(parent *html.Node, tok inlineToken) {
	link, ok := linkOf(tok)
	if !ok {
		appendText(parent, tok.tag.Literal())
		return
	}
	target, ok := r.resolver.ResolveLink(link)
	switch {
	case ok && target.NoteID != "":
		parent.AppendChild(r.NoteLink(target, link.Text))
	case ok && target.VirtualID != "":
		parent.AppendChild(r.EntityLink(target, link.Text))
	default:
		appendText(parent, link.Text)
	}
}

// EntityLink returns the anchor opening a virtual entity.
func (r *Renderer) EntityLink(target Target, text string) *html.Node {
	a := Element(atom.A,
		"href", "?v="+target.VirtualID,
		"onclick", fmt.Sprintf("return open_virtual_entity('%s');", target.VirtualID),
		"class", "entity-link")
	appendText(a, text)
	return a
}

// parseLinkContent splits "title -> url" or "title" -> "url" > "section".
func parseLinkContent(content string) (title, url, section string) {
	content = strings.TrimSpace(content)
	i := strings.LastIndex(content, "->")
	if i < 0 {
		return content, content, ""
	}
	title = unquote(strings.TrimSpace(content[:i]))
	url = strings.TrimSpace(content[i+2:])
	if strings.HasPrefix(url, `"`) {
		if end := strings.IndexByte(url[1:], '"'); end >= 0 {
			rest := strings.TrimSpace(url[end+2:])
			url = url[1 : end+1]
			if strings.HasPrefix(rest, ">") {
				section = unquote(strings.TrimSpace(rest[1:]))
			}
		}
	}
	return title, url, section
}

// Element creates an element with attributes given as key/value pairs.
func Element(a atom.Atom, attrs ...string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		node.Attr = append(node.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return node
}

// appendText adds text to the parent, merging with a previous text node.
func appendText(parent *html.Node, text string) {
	if text == "" {
		return
	}
	if last := parent.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += text
		return
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
