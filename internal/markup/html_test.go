package markup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type fakeResolver struct {
	notes        map[string]string
	virtuals     map[string]string
	files        map[string]string
	lateTags     map[string]bool
	placeholders []*Tag
	warnings     []string
}

func (r *fakeResolver) ResolveLink(link Link) (Target, bool) {
	if link.Kind == NoteLink {
		id, ok := r.notes[link.Ref]
		return Target{NoteID: id, Section: link.Section}, ok
	}
	id, ok := r.virtuals[link.Ref]
	return Target{VirtualID: id}, ok
}

func (r *fakeResolver) ResolveFile(ref string) (string, bool) {
	path, ok := r.files[ref]
	return path, ok
}

func (r *fakeResolver) Placeholder(tag *Tag, node *html.Node) bool {
	if !r.lateTags[tag.Name] {
		return false
	}
	r.placeholders = append(r.placeholders, tag)
	return true
}

func (r *fakeResolver) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func renderInline(r *Renderer, content string) string {
	p := Element(atom.P)
	r.RenderInline(p, content)
	return Render(p)
}

func TestRenderNote(t *testing.T) {
	doc, _, _ := parseNote(t, "# T\n\nHello \\b{world}.\n")
	node := NewRenderer(nil).RenderNote("t", doc.Root)
	assert.Equal(t, `<div id="t"><h1 id="t">T</h1><p>Hello <b>world</b>.</p></div>`, Render(node))
}

func TestRenderInline(t *testing.T) {
	resolver := &fakeResolver{
		notes:    map[string]string{"Other": "other"},
		virtuals: map[string]string{"dune": "v1"},
		files:    map[string]string{"cat.png": "animals/cat.png"},
		lateTags: map[string]bool{"orphan_list": true},
	}
	r := NewRenderer(resolver)

	var tests = []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Escaping",
			content:  `\[x] & <y>`,
			expected: `<p>[x] &amp; &lt;y&gt;</p>`,
		},
		{
			name:     "Nested styles",
			content:  `\i{a \b{b}} c`,
			expected: `<p><i>a <b>b</b></i> c</p>`,
		},
		{
			name:     "Unbalanced brace",
			content:  `a} \b without`,
			expected: `<p>a} \b without</p>`,
		},
		{
			name:     "Unknown tag",
			content:  `\nonexistent{x} done`,
			expected: `<p>\nonexistent{x} done</p>`,
		},
		{
			name:     "Tag without content",
			content:  `\image and \note`,
			expected: `<p>\image and \note</p>`,
		},
		{
			name:     "Link",
			content:  `\link{Go -> https://go.dev}`,
			expected: `<p><a href="https://go.dev" target="_blank">Go</a></p>`,
		},
		{
			name:     "Quoted link",
			content:  `\link{"A -> B" -> "https://example.org" > "Part One"}`,
			expected: `<p><a href="https://example.org#part-one" target="_blank">A -&gt; B</a></p>`,
		},
		{
			name:     "Image",
			content:  `\image{cat.png}`,
			expected: `<p><img src="files/animals/cat.png" width="588"></p>`,
		},
		{
			name:     "Inline code",
			content:  "`a<b` and \\code{x {y}\nz}",
			expected: `<p><code class="code-inline">a&lt;b</code> and <code class="code-inline">x {y} z</code></p>`,
		},
		{
			name:     "Raw HTML",
			content:  `\html{<em>x</em>} \html|4|<hr>!`,
			expected: `<p><em>x</em> <hr>!</p>`,
		},
		{
			name:     "YouTube",
			content:  `\youtube{https://www.youtube.com/watch?v=dQw4w9WgXcQ}`,
			expected: `<p><iframe width="558" height="313.875" style="margin: 0 auto; display: block;" src="https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen=""></iframe></p>`,
		},
		{
			name:     "Note link",
			content:  `See \note{Other#Part One}.`,
			expected: `<p>See <a href="?n=other#part-one" onclick="return open_note('other','part-one');" class="note-link">Other#Part One</a>.</p>`,
		},
		{
			name:     "Entity link",
			content:  `^book[dune]{Dune}`,
			expected: `<p><a href="?v=v1" onclick="return open_virtual_entity('v1');" class="entity-link">Dune</a></p>`,
		},
		{
			name:     "Data tag without reference",
			content:  `^book is here`,
			expected: `<p>^book is here</p>`,
		},
		{
			name:     "Placeholder",
			content:  `\orphan_list`,
			expected: `<p><div class="tag-orphan_list"></div></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderInline(r, tt.content))
		})
	}
	assert.Empty(t, resolver.warnings)
	require.Len(t, resolver.placeholders, 1)
	assert.Equal(t, "orphan_list", resolver.placeholders[0].Name)
}

func TestRenderBrokenLinks(t *testing.T) {
	resolver := &fakeResolver{}
	r := NewRenderer(resolver)

	actual := renderInline(r, `\note{Missing} \image{dog.png} \youtube{https://example.org}`)
	assert.Equal(t, `<p><a class="note-link-broken">Missing</a> <img src="files/dog.png" width="588"> \youtube{https://example.org}</p>`, actual)
	assert.Equal(t, []string{
		"broken note link, couldn't find note for title: Missing",
		`unknown file "dog.png"`,
		`invalid YouTube URL "https://example.org"`,
	}, resolver.warnings)
}

func TestRenderNarrowContent(t *testing.T) {
	r := NewRenderer(&fakeResolver{}, ContentWidth(20))
	document, err := goquery.NewDocumentFromReader(strings.NewReader(renderInline(r, `\youtube{https://youtu.be/dQw4w9WgXcQ}`)))
	require.NoError(t, err)
	iframe := document.Find("iframe")
	assert.Equal(t, "160", iframe.AttrOr("width", ""))
	assert.Equal(t, "90", iframe.AttrOr("height", ""))
}

func TestElement(t *testing.T) {
	node := Element(atom.A, "href", "?n=a", "class", "note-link")
	node.AppendChild(&html.Node{Type: html.TextNode, Data: "A"})
	assert.Equal(t, `<a href="?n=a" class="note-link">A</a>`, Render(node))
}

func TestRenderBlocks(t *testing.T) {
	doc, _, _ := parseNote(t, `# Title

## A Section

- first
  - nested
- second

1. one

\code
|  if a < b {
|    return
|  }
`)
	r := NewRenderer(nil, HeadingPrefix("user-content-"))
	actual := Render(r.RenderNote("n1", doc.Root))
	assert.Equal(t, ``+
		`<div id="n1">`+
		`<h1 id="user-content-title">Title</h1>`+
		`<h2 id="user-content-a-section">A Section</h2>`+
		`<ul><li><p>first</p><ul><li><p>nested</p></li></ul></li><li><p>second</p></li></ul>`+
		`<ol><li><p>one</p></li></ol>`+
		`<pre><code class="code-block" style="display: block;">if a &lt; b {`+"\n"+`  return`+"\n"+`}</code></pre>`+
		`</div>`, actual)
}

func TestRenderNoteAttributes(t *testing.T) {
	doc, _, _ := parseNote(t, `# Tiramisu
^recipe ^dessert{
  serves 4, 6 ;
  origin "Italy" ;
}

Yum.
`)
	node := NewRenderer(nil).RenderNote("n1", doc.Root)
	document, err := goquery.NewDocumentFromReader(strings.NewReader(Render(node)))
	require.NoError(t, err)

	children := document.Find("#n1").Children()
	require.Equal(t, 4, children.Length())
	assert.Equal(t, "h1", goquery.NodeName(children.Eq(0)))
	assert.Equal(t, "p", goquery.NodeName(children.Eq(3)))

	var types []string
	document.Find("div.type").Each(func(i int, s *goquery.Selection) {
		types = append(types, s.Text())
	})
	assert.Equal(t, []string{"recipe", "dessert"}, types)

	var labels []string
	document.Find("div.attributes div.attribute-label").Each(func(i int, s *goquery.Selection) {
		labels = append(labels, s.Text())
	})
	assert.Equal(t, []string{"origin", "serves"}, labels)

	var values []string
	document.Find("div.attribute-value").Each(func(i int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	assert.Equal(t, []string{"Italy", "4", "6"}, values)
}

func TestRenderNoteWithoutAttributes(t *testing.T) {
	doc, _, _ := parseNote(t, "# T\n^draft\n\nText\n")
	actual := Render(NewRenderer(nil).RenderNote("n1", doc.Root))
	assert.Equal(t, `<div id="n1"><h1 id="t">T</h1><div style="margin-bottom: 10px; align-items: baseline; display: flex; color: var(--secondary-fg-color)"><div class="type">draft</div></div><p>Text</p></div>`, actual)
}

func TestDisplayValue(t *testing.T) {
	g := graph.New()
	named := g.GetOrCreate("dune", graph.Object)
	assert.Equal(t, "dune", displayValue(named))
	named.AddString(graph.PredicateName, "Dune")
	assert.Equal(t, "Dune", displayValue(named))
	assert.Equal(t, "42", displayValue(g.NewInteger(42)))
}

func TestRender(t *testing.T) {
	div := Element(atom.Div, "title", `"quoted" & 'single'`)
	appendText(div, "a")
	appendText(div, "b")
	div.AppendChild(Element(atom.Br))
	div.AppendChild(&html.Node{Type: html.CommentNode, Data: " c "})
	assert.Equal(t, `<div title="&quot;quoted&quot; &amp; 'single'">ab<br><!-- c --></div>`, Render(div))
	assert.Equal(t, `ab<br><!-- c -->`, RenderChildren(div))
}
