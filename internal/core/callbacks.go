package core

import (
	"errors"
	"fmt"

	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"golang.org/x/net/html"
)

// Status tells the runtime whether to process the next tags of a block.
type Status int

const (
	// Continue processing the remaining tags of the block
	Continue Status = iota
	// Break ignores the remaining tags of the block
	Break
)

// EarlyContext is passed to callbacks run on the block tree, before links are created.
type EarlyContext struct {
	Runtime *Runtime
	Note    *Note
	Block   *markup.Block
	Tag     *markup.Tag

	replacement []*markup.Block
	replaced    bool
}

// ReplaceBlock parses markup and substitutes the result to the current block.
func (c *EarlyContext) ReplaceBlock(source string) error {
	r := c.Runtime
	sp := r.graph.Savepoint()
	root, warnings, err := markup.ParseString(r.graph, nil, source, r.parseOptions()...)
	if err != nil {
		r.graph.Rollback(sp)
		return err
	}
	r.graph.Release(sp)
	for _, warning := range warnings {
		c.Note.Warnf("%s", warning)
	}
	c.replacement = root.Children
	c.replaced = true
	return nil
}

// EarlyCallback returns the text substituted to the tag.
type EarlyCallback func(ctx *EarlyContext) (string, Status, error)

// LateContext is passed to callbacks run once every note is rendered.
type LateContext struct {
	Runtime  *Runtime
	Note     *Note
	Tag      *markup.Tag
	Element  *html.Node
	Renderer *markup.Renderer
}

// LateCallback fills the element reserved for the tag.
type LateCallback func(ctx *LateContext) error

type lateCall struct {
	note    *Note
	tag     *markup.Tag
	element *html.Node
}

// RegisterEarly registers a callback for a custom tag.
// Tags are processed in source order and replaced by the returned text.
func (r *Runtime) RegisterEarly(name string, callback EarlyCallback) {
	r.early[name] = callback
}

// RegisterLate registers a callback for a custom tag needing the complete output.
func (r *Runtime) RegisterLate(name string, callback LateCallback) {
	r.late[name] = callback
}

// expand runs the early callbacks on every leaf block under the parent.
func (r *Runtime) expand(note *Note, parent *markup.Block) {
	for i := 0; i < len(parent.Children); i++ {
		block := parent.Children[i]
		if !block.IsLeaf() {
			r.expand(note, block)
			continue
		}
		if block.Kind == markup.Code {
			continue
		}
		replacement, ok := r.expandBlock(note, block)
		if !ok {
			continue
		}
		children := make([]*markup.Block, 0, len(parent.Children)+len(replacement))
		children = append(children, parent.Children[:i]...)
		children = append(children, replacement...)
		children = append(children, parent.Children[i+1:]...)
		parent.Children = children
		i += len(replacement) - 1
	}
}

type edit struct {
	start, end int
	text       string
}

// expandBlock substitutes the tags of a block.
// Returns the blocks replacing it when a callback asked for it.
func (r *Runtime) expandBlock(note *Note, block *markup.Block) ([]*markup.Block, bool) {
	var edits []edit
	for _, tag := range markup.ScanTags(block.Content) {
		callback, ok := r.early[tag.Name]
		if !ok {
			continue
		}
		ctx := &EarlyContext{
			Runtime: r,
			Note:    note,
			Block:   block,
			Tag:     tag,
		}
		text, status, err := callEarly(callback, ctx)
		if err != nil {
			note.Warnf("failed parsing of custom tag '%s'", tag.Name)
			CurrentLogger().Debugf("%s: \\%s: %v", note.Path, tag.Name, err)
			continue
		}
		if ctx.replaced {
			return ctx.replacement, true
		}
		edits = append(edits, edit{start: tag.Start, end: tag.End, text: text})
		if status == Break {
			break
		}
	}

	// Apply from the end to keep the offsets valid
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		block.Content = block.Content[:e.start] + e.text + block.Content[e.end:]
	}
	return nil, false
}

func callEarly(callback EarlyCallback, ctx *EarlyContext) (text string, status Status, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("panic: %v", e)
		}
	}()
	return callback(ctx)
}

func (r *Runtime) runLateCallbacks() {
	queue := r.lateQueue
	r.lateQueue = nil
	for _, call := range queue {
		ctx := &LateContext{
			Runtime:  r,
			Note:     call.note,
			Tag:      call.tag,
			Element:  call.element,
			Renderer: r.renderer(call.note),
		}
		if err := callLate(r.late[call.tag.Name], ctx); err != nil {
			call.note.Warnf("failed parsing of custom tag '%s'", call.tag.Name)
			CurrentLogger().Debugf("%s: \\%s: %v", call.note.Path, call.tag.Name, err)
		}
	}
}

func callLate(callback LateCallback, ctx *LateContext) (err error) {
	if callback == nil {
		return errors.New("no callback")
	}
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("panic: %v", e)
		}
	}()
	return callback(ctx)
}
