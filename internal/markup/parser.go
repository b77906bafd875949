package markup

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
)

var ErrNoTitle = errors.New("note has no title")
var ErrHeadingLevel1 = errors.New("only the note title can have heading level 1")

// ParseError is a fatal error raised while parsing a document.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is the result of parsing a note.
type Document struct {
	Title    string
	Root     *Block
	Warnings []string
}

// Option customizes the parser.
type Option func(*parser)

// WithGraphOptions forwards options to the graph parser used for block data.
func WithGraphOptions(options ...graph.Option) Option {
	return func(p *parser) {
		p.graphOptions = append(p.graphOptions, options...)
	}
}

type parser struct {
	s            *scanner.Scanner
	g            *graph.Graph
	entity       *graph.Node
	stack        []*Block
	warnings     []string
	graphOptions []graph.Option
}

func newParser(g *graph.Graph, entity *graph.Node, source string, options ...Option) *parser {
	p := &parser{
		s:      scanner.New(source),
		g:      g,
		entity: entity,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *parser) fail(line int, err error) error {
	return &ParseError{Line: line, Err: err}
}

// ParseNote parses a complete note. The first line must be the title.
// Block data are written into the graph g, the root data being the note entity.
// The caller is responsible for rolling back the graph on error.
func ParseNote(g *graph.Graph, entity *graph.Node, source string, options ...Option) (*Document, error) {
	p := newParser(g, entity, source, options...)
	root := &Block{Kind: Root}
	p.stack = []*Block{root}

	tok := nextLine(p.s)
	for tok.kind == lineBlank {
		tok = nextLine(p.s)
	}
	if tok.kind != lineTitle {
		return nil, p.fail(tok.line, ErrNoTitle)
	}
	if tok.level != 1 {
		p.warnf("note title must use heading level 1 (found %d)", tok.level)
	}
	root.append(&Block{
		Kind:    Heading,
		Level:   1,
		Content: tok.value,
		Margin:  tok.margin,
		Line:    tok.line,
	})
	if entity != nil {
		entity.AddString(graph.PredicateName, tok.value)
	}
	if err := p.parseAttributes(root, true); err != nil {
		return nil, err
	}

	if err := p.parseBlocks(); err != nil {
		return nil, err
	}
	return &Document{
		Title:    tok.value,
		Root:     root,
		Warnings: p.warnings,
	}, nil
}

// ParseString parses markup without a mandatory title.
// Used to parse markup generated while processing another note.
func ParseString(g *graph.Graph, entity *graph.Node, source string, options ...Option) (*Block, []string, error) {
	p := newParser(g, entity, source, options...)
	root := &Block{Kind: Root}
	p.stack = []*Block{root}
	if err := p.parseBlocks(); err != nil {
		return nil, nil, err
	}
	return root, p.warnings, nil
}

// ParseTitle extracts the title of a note without parsing it.
func ParseTitle(source string) (string, bool) {
	s := scanner.New(source)
	tok := nextLine(s)
	for tok.kind == lineBlank {
		tok = nextLine(s)
	}
	if tok.kind != lineTitle {
		return "", false
	}
	return tok.value, true
}

func (p *parser) top() *Block {
	return p.stack[len(p.stack)-1]
}

// pop removes the blocks the token cannot be nested into.
func (p *parser) pop(tok lineToken) {
	idx := len(p.stack) - 1
	for idx > 0 && tok.margin <= p.stack[idx].Margin {
		if (tok.isList() || p.stack[idx].Kind == ListItem) && tok.margin == p.stack[idx].Margin {
			break
		}
		idx--
	}
	if p.stack[idx].Kind == List && tok.isList() && p.stack[idx].ListKind != tok.listKind() {
		idx--
	}
	p.stack = p.stack[:idx+1]
}

func (p *parser) parseBlocks() error {
	for {
		before := p.s.Pos()
		tok := nextLine(p.s)
		switch tok.kind {
		case lineEOF:
			return nil
		case lineBlank:
			continue
		}

		p.pop(tok)

		switch tok.kind {
		case lineTitle:
			if tok.level == 1 {
				return p.fail(tok.line, ErrHeadingLevel1)
			}
			heading := &Block{
				Kind:    Heading,
				Level:   tok.level,
				Content: tok.value,
				Margin:  tok.margin,
				Line:    tok.line,
			}
			p.top().append(heading)
			if err := p.parseAttributes(heading, false); err != nil {
				return err
			}

		case lineParagraph:
			paragraph, err := p.parseParagraph(tok)
			if err != nil {
				return err
			}
			p.top().append(paragraph)

		case lineCodeHeader:
			p.top().append(p.parseCode(tok))

		case lineCode:
			// Code line without header
			p.top().append(&Block{Kind: Paragraph, Content: "|" + tok.value, Margin: tok.margin, Line: tok.line})

		case lineBullet, lineNumbered:
			if err := p.parseListItem(tok); err != nil {
				return err
			}
		}
		if p.s.Pos() == before {
			return p.fail(tok.line, errors.New("unable to parse line"))
		}
	}
}

func (p *parser) parseParagraph(tok lineToken) (*Block, error) {
	paragraph := &Block{
		Kind:   Paragraph,
		Margin: tok.margin,
		Line:   tok.line,
	}
	header := isDataHeader(tok.value)
	if header {
		// The paragraph only carries attributes
		p.s.Restore(tok.start)
	} else {
		lines := []string{tok.value}
		for {
			m := p.s.Mark()
			next := nextLine(p.s)
			if next.kind == lineParagraph && !isDataHeader(next.value) {
				lines = append(lines, next.value)
				continue
			}
			if next.kind == lineNumbered && next.value != "1" && next.margin >= paragraph.Margin {
				p.s.Restore(next.start)
				lines = append(lines, strings.TrimSpace(p.s.AdvanceLine()))
				continue
			}
			p.s.Restore(m)
			break
		}
		paragraph.Content = strings.Join(lines, "\n")
	}
	if err := p.parseAttributes(paragraph, false); err != nil {
		return nil, err
	}
	if header && paragraph.Data == nil {
		// Not a data header after all
		paragraph.Content = strings.TrimSpace(p.s.AdvanceLine())
	}
	return paragraph, nil
}

func (p *parser) parseCode(tok lineToken) *Block {
	var lines []string
	for {
		m := p.s.Mark()
		next := nextLine(p.s)
		if next.kind != lineCode {
			p.s.Restore(m)
			break
		}
		lines = append(lines, next.value)
	}
	return &Block{
		Kind:    Code,
		Margin:  tok.margin,
		Line:    tok.line,
		Content: normalizeCode(lines),
	}
}

// normalizeCode removes the indentation common to all non-blank lines.
func normalizeCode(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	result := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			result[i] = ""
		case indent > 0:
			result[i] = line[indent:]
		default:
			result[i] = line
		}
	}
	return strings.Join(result, "\n")
}

func (p *parser) parseListItem(tok lineToken) error {
	list := p.top()
	if list.Kind != List {
		parent := list
		list = &Block{
			Kind:        List,
			Margin:      parent.Margin,
			ListKind:    tok.listKind(),
			MarkerWidth: tok.markerWidth,
			Line:        tok.line,
		}
		parent.append(list)
		p.stack = append(p.stack, list)
	}
	item := &Block{
		Kind:   ListItem,
		Margin: tok.margin,
		Line:   tok.line,
	}
	list.append(item)
	p.stack = append(p.stack, item)

	m := p.s.Mark()
	next := nextLine(p.s)
	if next.kind != lineParagraph {
		p.s.Restore(m)
		return nil
	}
	item.Margin = next.margin
	paragraph, err := p.parseParagraph(next)
	if err != nil {
		return err
	}
	item.append(paragraph)
	return nil
}

// parseAttributes reads the optional data tag following a block.
//
//	^recipe^favorite[tiramisu]{
//	  serves 4 ;
//	}
func (p *parser) parseAttributes(block *Block, root bool) error {
	rest := p.s.PeekLine()
	header := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if !isDataHeader(strings.TrimRightFunc(header, unicode.IsSpace)) {
		return nil
	}
	p.s.AdvanceN(len(rest) - len(header))
	line := p.s.Line()

	var types []string
	for p.s.Curr() == '^' {
		p.s.Advance()
		types = append(types, readTagName(p.s))
		p.s.ConsumeSpaces()
		skipSingleNewline(p.s, '^')
	}

	var identity string
	if p.s.Curr() == '[' {
		params, ok := readParameters(p.s)
		if ok && len(params.Positional) > 0 {
			identity = params.Positional[0]
		}
	}
	skipSingleNewline(p.s, '{')

	var data *graph.Node
	switch {
	case root && p.entity != nil:
		data = p.entity
	case identity != "" && graph.IsIdentifier(identity):
		data = p.g.GetOrCreate(identity, graph.Object)
	default:
		data = p.g.NewObject()
	}
	for _, typ := range types {
		data.AddObject(graph.PredicateType, typ)
	}

	if p.s.Curr() == '{' {
		content, ok := readBalanced(p.s)
		if !ok {
			return p.fail(line, errors.New("unterminated block attributes"))
		}
		if err := p.g.ParseInto(data, content, p.graphOptions...); err != nil {
			return p.fail(line, fmt.Errorf("invalid block attributes: %w", err))
		}
	}
	p.s.ConsumeSpaces()
	if p.s.Curr() == '\n' {
		p.s.Advance()
	}

	block.Data = data
	if !root && p.entity != nil && data != p.entity {
		p.entity.AddFloating(data)
	}
	return nil
}

// skipSingleNewline moves to the next line when it starts with the given character.
func skipSingleNewline(s *scanner.Scanner, c byte) {
	if s.Curr() != '\n' {
		return
	}
	m := s.Mark()
	s.Advance()
	s.ConsumeSpaces()
	if s.Curr() != c {
		s.Restore(m)
	}
}

// isDataHeader returns if a trimmed line starts with a chain of data tags
// optionally followed by an identity and a body.
func isDataHeader(line string) bool {
	s := scanner.New(line)
	count := 0
	for s.Curr() == '^' {
		s.Advance()
		name := readTagName(s)
		if !graph.IsIdentifier(name) {
			return false
		}
		count++
		s.ConsumeSpaces()
	}
	if count == 0 {
		return false
	}
	if s.Curr() == '[' {
		if _, ok := readParameters(s); !ok {
			return false
		}
		return s.Curr() == '{' || s.IsEOF()
	}
	return s.IsEOF() || s.Curr() == '{'
}
