package markup

import (
	"strings"

	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
)

type inlineKind int

const (
	inlineEOF inlineKind = iota
	inlineText
	inlineSpace
	inlineOperator
	inlineTextTag
	inlineDataTag
)

type inlineToken struct {
	kind  inlineKind
	value string
	tag   *Tag
	// Number of whitespace characters in a SPACE token
	count int
	start int
	end   int
}

func (t inlineToken) isOperator(value string) bool {
	return t.kind == inlineOperator && t.value == value
}

func isOperatorByte(c byte) bool {
	switch c {
	case ',', '=', '[', ']', '{', '}', '|', '`':
		return true
	}
	return false
}

func isEscapable(c byte) bool {
	return isOperatorByte(c) || c == '\\' || c == '^'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// tokenize splits inline content into tokens. The last token is always EOF.
func tokenize(content string) []inlineToken {
	s := scanner.New(content)
	var tokens []inlineToken
	for {
		tok := nextInline(s)
		tokens = append(tokens, tok)
		if tok.kind == inlineEOF {
			return tokens
		}
	}
}

func nextInline(s *scanner.Scanner) inlineToken {
	start := s.Mark()
	tok := inlineToken{start: start.Pos()}

	c := s.Curr()
	switch {
	case s.IsEOF():
		tok.kind = inlineEOF

	case isWhitespace(c):
		for !s.IsEOF() && isWhitespace(s.Curr()) {
			tok.count++
			s.Advance()
		}
		tok.kind = inlineSpace
		tok.value = " "

	case (c == '\\' || c == '^') && isTagNameByte(s.Next()):
		tok.tag = readTag(s)
		tok.kind = inlineTextTag
		if tok.tag.IsData() {
			tok.kind = inlineDataTag
		}
		tok.value = tok.tag.Raw

	case c == '\\' && isEscapable(s.Next()):
		s.Advance()
		tok.kind = inlineText
		tok.value = string(s.Curr())
		s.Advance()

	case c == '`':
		s.Advance()
		from := s.Pos()
		end := strings.IndexByte(s.Rest(), '`')
		if end < 0 {
			tok.kind = inlineText
			tok.value = "`"
			break
		}
		s.AdvanceN(end + 1)
		tok.kind = inlineTextTag
		tok.tag = &Tag{
			Sigil:      '`',
			Name:       "code",
			Content:    s.Slice(from, from+end),
			HasContent: true,
			Start:      start.Pos(),
			End:        s.Pos(),
			Raw:        s.SliceFrom(start),
		}
		tok.value = tok.tag.Raw

	case isOperatorByte(c):
		s.Advance()
		tok.kind = inlineOperator
		tok.value = string(c)

	case c == '\\' || c == '^':
		s.Advance()
		tok.kind = inlineText
		tok.value = string(c)

	default:
		for !s.IsEOF() {
			c := s.Curr()
			if isWhitespace(c) || isOperatorByte(c) || c == '\\' {
				break
			}
			s.Advance()
		}
		tok.kind = inlineText
		tok.value = s.SliceFrom(start)
	}

	tok.end = s.Pos()
	return tok
}

// ScanTags returns the top-level text tags of inline content in source order.
func ScanTags(content string) []*Tag {
	var tags []*Tag
	for _, tok := range tokenize(content) {
		if tok.kind == inlineTextTag && tok.tag.Sigil == '\\' {
			tags = append(tags, tok.tag)
		}
	}
	return tags
}

// LinkKind distinguishes links to notes from links to entities.
type LinkKind int

const (
	NoteLink LinkKind = iota
	EntityLink
)

// Link is a reference to another note or entity found in inline content.
type Link struct {
	Kind LinkKind
	// Entity type (entity links only)
	Type    string
	Ref     string
	Section string
	Text    string
}

// ExtractLinks returns the links of inline content.
// Only top-level tags are considered: links inside the content of other tags
// or inside \i{...} and \b{...} spans are ignored (they are still rendered).
func ExtractLinks(content string) []Link {
	var links []Link
	tokens := tokenize(content)
	// Number of open style spans
	depth := 0
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case isStyleTag(tok) && tokens[i+1].isOperator("{"):
			depth++
			i++
			continue
		case tok.isOperator("}") && depth > 0:
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		if link, ok := linkOf(tok); ok {
			links = append(links, link)
		}
	}
	return links
}

func isStyleTag(tok inlineToken) bool {
	return tok.kind == inlineTextTag && tok.tag.Sigil == '\\' && styleTags[tok.tag.Name]
}

func linkOf(tok inlineToken) (Link, bool) {
	switch tok.kind {
	case inlineTextTag:
		tag := tok.tag
		if tag.Sigil != '\\' || tag.Name != "note" || !tag.HasContent {
			return Link{}, false
		}
		ref, section := splitSection(strings.TrimSpace(tag.Content))
		if ref == "" {
			return Link{}, false
		}
		return Link{
			Kind:    NoteLink,
			Ref:     ref,
			Section: section,
			Text:    tag.Content,
		}, true
	case inlineDataTag:
		tag := tok.tag
		if len(tag.Positional) != 1 || len(tag.Named) > 0 {
			return Link{}, false
		}
		text := tag.Positional[0]
		if tag.HasContent {
			text = tag.Content
		}
		return Link{
			Kind: EntityLink,
			Type: tag.Name,
			Ref:  tag.Positional[0],
			Text: text,
		}, true
	}
	return Link{}, false
}

// splitSection splits "Title#Section".
// A # followed by a space belongs to the title (ex: "C# tips").
func splitSection(ref string) (string, string) {
	i := strings.LastIndexByte(ref, '#')
	if i < 0 || i == len(ref)-1 || ref[i+1] == ' ' {
		return ref, ""
	}
	return strings.TrimSpace(ref[:i]), strings.TrimSpace(ref[i+1:])
}
