package markup

import (
	"strings"

	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
)

type lineKind int

const (
	lineEOF lineKind = iota
	lineTitle
	lineBullet
	lineNumbered
	lineCodeHeader
	lineCode
	lineBlank
	lineParagraph
)

// lineToken is a line-level token.
type lineToken struct {
	kind   lineKind
	margin int
	value  string
	level  int
	// Width of a list marker including the spaces following it
	markerWidth int
	line        int
	// Position of the first non-space character
	start scanner.Mark
}

func (t lineToken) isList() bool {
	return t.kind == lineBullet || t.kind == lineNumbered
}

func (t lineToken) listKind() ListKind {
	if t.kind == lineNumbered {
		return NumberedList
	}
	return BulletList
}

const maxHeadingLevel = 6
const maxListNumberDigits = 9

// nextLine reads the next line-level token.
// List markers only consume the marker: the item content is read as the next token.
func nextLine(s *scanner.Scanner) lineToken {
	s.ConsumeSpaces()
	tok := lineToken{
		margin: s.Column() - 1,
		line:   s.Line(),
		start:  s.Mark(),
	}

	c := s.Curr()
	switch {
	case s.IsEOF():
		tok.kind = lineEOF
		return tok

	case c == '\n':
		s.Advance()
		tok.kind = lineBlank
		return tok

	case c == '#':
		level := 0
		for s.Curr() == '#' {
			level++
			s.Advance()
		}
		if level <= maxHeadingLevel && (s.Curr() == ' ' || s.Curr() == '\n' || s.IsEOF()) {
			s.ConsumeSpaces()
			tok.kind = lineTitle
			tok.level = level
			tok.value = strings.TrimSpace(s.AdvanceLine())
			return tok
		}
		s.Restore(tok.start)

	case (c == '-' || c == '*') && s.Next() == ' ':
		s.Advance()
		s.ConsumeSpaces()
		tok.kind = lineBullet
		tok.value = string(c)
		tok.markerWidth = s.Column() - 1 - tok.margin
		return tok

	case c >= '0' && c <= '9':
		digits, _ := s.MatchDigits()
		if len(digits) <= maxListNumberDigits && s.Curr() == '.' && s.Next() == ' ' {
			s.Advance()
			s.ConsumeSpaces()
			tok.kind = lineNumbered
			tok.value = digits
			tok.markerWidth = s.Column() - 1 - tok.margin
			return tok
		}
		s.Restore(tok.start)

	case c == '\\' && s.HasPrefix(`\code`):
		s.MatchString(`\code`)
		if s.Curr() == '[' {
			for !s.IsEOF() && s.Curr() != ']' && s.Curr() != '\n' {
				s.Advance()
			}
			if s.Curr() == ']' {
				s.Advance()
			}
		}
		s.ConsumeSpaces()
		if s.Curr() == '\n' || s.IsEOF() {
			s.Advance()
			tok.kind = lineCodeHeader
			return tok
		}
		s.Restore(tok.start)

	case c == '|':
		s.Advance()
		tok.kind = lineCode
		tok.value = strings.TrimSuffix(s.AdvanceLine(), "\n")
		return tok
	}

	tok.kind = lineParagraph
	tok.value = strings.TrimSpace(s.AdvanceLine())
	if tok.value == "" {
		// Line with only tabs or other spaces
		tok.kind = lineBlank
	}
	return tok
}
