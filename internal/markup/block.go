// Package markup parses notes written in the markup source format
// into a block tree, and renders block trees as HTML.
package markup

import (
	"fmt"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
)

// Kind of block.
type Kind int

const (
	Root Kind = iota
	List
	ListItem
	Heading
	Paragraph
	Code
)

var kindNames = map[Kind]string{
	Root:      "root",
	List:      "list",
	ListItem:  "item",
	Heading:   "heading",
	Paragraph: "paragraph",
	Code:      "code",
}

func (k Kind) String() string {
	return kindNames[k]
}

// ListKind distinguishes bullet lists from numbered lists.
type ListKind int

const (
	BulletList ListKind = iota
	NumberedList
)

// Block is a node of the block tree.
// Leaf blocks (headings, paragraphs, code) have a content, container blocks have children.
type Block struct {
	Kind     Kind
	Margin   int
	Content  string
	Children []*Block
	Line     int

	// Headings only
	Level int

	// Lists only
	ListKind    ListKind
	MarkerWidth int

	// Graph data attached by a data tag (ex: ^recipe{ serves 4 })
	Data *graph.Node
}

// IsLeaf returns if the block contains inline content.
func (b *Block) IsLeaf() bool {
	return b.Kind == Heading || b.Kind == Paragraph || b.Kind == Code
}

func (b *Block) append(child *Block) {
	b.Children = append(b.Children, child)
}

// Leaves returns the leaf blocks in document order.
func (b *Block) Leaves() []*Block {
	var results []*Block
	b.Walk(func(block *Block) {
		if block.IsLeaf() {
			results = append(results, block)
		}
	})
	return results
}

// Walk visits the tree depth-first in document order.
func (b *Block) Walk(fn func(*Block)) {
	fn(b)
	for _, child := range b.Children {
		child.Walk(fn)
	}
}

// FirstParagraph returns the first paragraph with content.
func (b *Block) FirstParagraph() *Block {
	var result *Block
	b.Walk(func(block *Block) {
		if result == nil && block.Kind == Paragraph && block.Content != "" {
			result = block
		}
	})
	return result
}

// Outline returns a human-readable representation of the tree.
func (b *Block) Outline() string {
	var sb strings.Builder
	b.outline(&sb, 0)
	return sb.String()
}

func (b *Block) outline(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(b.Kind.String())
	switch b.Kind {
	case Heading:
		sb.WriteString(fmt.Sprintf("(%d)", b.Level))
	case List:
		if b.ListKind == NumberedList {
			sb.WriteString("(numbered)")
		} else {
			sb.WriteString("(bullet)")
		}
	}
	sb.WriteString(fmt.Sprintf(" margin=%d", b.Margin))
	if b.IsLeaf() {
		sb.WriteString(fmt.Sprintf(" %q", b.Content))
	}
	if b.Data != nil {
		sb.WriteString(" +data")
	}
	sb.WriteString("\n")
	for _, child := range b.Children {
		child.outline(sb, depth+1)
	}
}
