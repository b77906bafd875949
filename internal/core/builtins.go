package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func (r *Runtime) registerBuiltins() {
	r.RegisterEarly("math", mathCallback(false))
	r.RegisterEarly("Math", mathCallback(true))
	r.RegisterEarly("summary", summaryCallback)
	r.RegisterLate("orphan_list", orphanListCallback)
	r.RegisterLate("entity_list", entityListCallback)
}

/* Math */

// MathRenderer converts a TeX formula to HTML.
type MathRenderer interface {
	Render(tex string, display bool) (string, error)
}

// DefaultMathRenderer delegates the rendering to a client-side library (ex: MathJax).
type DefaultMathRenderer struct{}

func (DefaultMathRenderer) Render(tex string, display bool) (string, error) {
	escaped := html.EscapeString(tex)
	if display {
		return `<div class="math display">\[` + escaped + `\]</div>`, nil
	}
	return `<span class="math inline">\(` + escaped + `\)</span>`, nil
}

func mathCallback(display bool) EarlyCallback {
	return func(ctx *EarlyContext) (string, Status, error) {
		if !ctx.Tag.HasContent {
			return "", Continue, errors.New("missing formula")
		}
		rendered, err := ctx.Runtime.math.Render(strings.TrimSpace(ctx.Tag.Content), display)
		if err != nil {
			return "", Continue, err
		}
		return fmt.Sprintf(`\html|%d|%s`, len(rendered), rendered), Continue, nil
	}
}

/* Summary */

// summaryCallback replaces the block by a heading linking to another note
// followed by its first paragraph.
//
//	\summary{Tiramisu}
func summaryCallback(ctx *EarlyContext) (string, Status, error) {
	title := strings.TrimSpace(ctx.Tag.Content)
	target := ctx.Runtime.NoteByTitle(title)
	if target == nil || target.Tree == nil {
		return "", Continue, fmt.Errorf("can't find note with title: %s", title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## \\note{%s}\n", escapeTagContent(title))
	if paragraph := target.Tree.FirstParagraph(); paragraph != nil {
		sb.WriteString("\n")
		sb.WriteString(paragraph.Content)
		sb.WriteString("\n")
	}
	if err := ctx.ReplaceBlock(sb.String()); err != nil {
		return "", Continue, err
	}
	return "", Break, nil
}

func escapeTagContent(content string) string {
	return strings.ReplaceAll(content, "}", `\}`)
}

/* Lists */

// orphanListCallback lists the notes no other note links to.
//
//	\orphan_list
func orphanListCallback(ctx *LateContext) error {
	config := ctx.Runtime.config.ConfigFile
	list := markup.Element(atom.Ul, "class", "orphan-list")
	for _, note := range ctx.Runtime.notes {
		if !note.IsPublished() || config.IsTitleNote(note.Title) {
			continue
		}
		if len(note.Entity.Attribute(graph.PredicateBacklink)) > 0 {
			continue
		}
		item := markup.Element(atom.Li)
		item.AppendChild(ctx.Renderer.NoteLink(markup.Target{NoteID: note.ID}, note.Title))
		list.AppendChild(item)
	}
	ctx.Element.AppendChild(list)
	return nil
}

// entityListCallback lists the entities of a type.
//
//	\entity_list{recipe}
func entityListCallback(ctx *LateContext) error {
	r := ctx.Runtime
	typ := strings.TrimSpace(ctx.Tag.Content)
	if typ == "" && len(ctx.Tag.Positional) > 0 {
		typ = ctx.Tag.Positional[0]
	}
	if typ == "" {
		return errors.New("missing entity type")
	}

	entities := r.graph.EntitiesOfType(typ)
	for _, virtual := range r.virtuals {
		if virtual.HasType(typ) && !slices.Contains(entities, virtual) {
			entities = append(entities, virtual)
		}
	}

	type entry struct {
		label string
		node  *html.Node
	}
	var entries []entry
	for _, entity := range entities {
		if note := r.byEntity[entity]; note != nil {
			if !note.IsPublished() {
				continue
			}
			entries = append(entries, entry{
				label: note.Title,
				node:  ctx.Renderer.NoteLink(markup.Target{NoteID: note.ID}, note.Title),
			})
			continue
		}
		label := entityLabel(entity)
		if label == "" {
			continue
		}
		entries = append(entries, entry{
			label: label,
			node:  ctx.Renderer.EntityLink(markup.Target{VirtualID: r.virtualID(entity)}, label),
		})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return strings.Compare(strings.ToLower(a.label), strings.ToLower(b.label))
	})

	title := markup.Element(atom.Div, "class", "entity-list-title")
	title.AppendChild(&html.Node{Type: html.TextNode, Data: r.config.TypesFile.Label(typ)})
	ctx.Element.AppendChild(title)
	list := markup.Element(atom.Ul, "class", "entity-list")
	for _, e := range entries {
		item := markup.Element(atom.Li)
		item.AppendChild(e.node)
		list.AppendChild(item)
	}
	ctx.Element.AppendChild(list)
	return nil
}

func entityLabel(entity *graph.Node) string {
	if name := entity.Name(); name != "" {
		return name
	}
	return entity.ID
}
