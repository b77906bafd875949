package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdentifier
	tokenVariable
	tokenString
	tokenInteger
	tokenDouble
	tokenURI
	tokenOperator
)

var tokenKindNames = map[tokenKind]string{
	tokenEOF:        "end of input",
	tokenIdentifier: "identifier",
	tokenVariable:   "variable",
	tokenString:     "string",
	tokenInteger:    "integer",
	tokenDouble:     "double",
	tokenURI:        "uri",
	tokenOperator:   "operator",
}

func (k tokenKind) String() string {
	return tokenKindNames[k]
}

type token struct {
	kind   tokenKind
	value  string
	line   int
	column int
}

func (t token) is(kind tokenKind, value string) bool {
	return t.kind == kind && t.value == value
}

func (t token) isOperator(value string) bool {
	return t.is(tokenOperator, value)
}

// SyntaxError reports an invalid Graph Text Format input.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

const operators = ";,.[]{}()="

type lexer struct {
	s *scanner.Scanner
}

func newLexer(text string) *lexer {
	return &lexer{s: scanner.New(text)}
}

func (l *lexer) errorf(line, column int, format string, args ...any) error {
	return &SyntaxError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

// next reads the next token, skipping whitespaces and comments.
func (l *lexer) next() (token, error) {
	s := l.s
	for {
		s.ConsumeWhitespaces()
		if s.HasPrefix("//") {
			s.AdvanceLine()
			continue
		}
		break
	}

	tok := token{line: s.Line(), column: s.Column()}
	c := s.Curr()
	switch {
	case s.IsEOF():
		tok.kind = tokenEOF

	case s.HasPrefix(`"""`):
		s.AdvanceN(3)
		start := s.Pos()
		for !s.IsEOF() && !s.HasPrefix(`"""`) {
			s.Advance()
		}
		if s.IsEOF() {
			return tok, l.errorf(tok.line, tok.column, "unterminated multiline string")
		}
		raw := s.Slice(start, s.Pos())
		s.AdvanceN(3)
		tok.kind = tokenString
		tok.value = dedent(unescapeString(raw))

	case c == '"':
		raw, ok := s.MatchQuotedString()
		if !ok {
			return tok, l.errorf(tok.line, tok.column, "unterminated string")
		}
		tok.kind = tokenString
		tok.value = unescapeString(raw)

	case c == '<':
		s.Advance()
		start := s.Pos()
		for !s.IsEOF() && s.Curr() != '>' && !isSpace(s.Curr()) {
			s.Advance()
		}
		if s.Curr() != '>' {
			return tok, l.errorf(tok.line, tok.column, "unterminated uri")
		}
		tok.kind = tokenURI
		tok.value = s.Slice(start, s.Pos())
		s.Advance()

	case c == '?':
		s.Advance()
		start := s.Pos()
		for isIdentifierByte(s.Curr()) {
			s.Advance()
		}
		if start == s.Pos() {
			return tok, l.errorf(tok.line, tok.column, "missing variable name")
		}
		tok.kind = tokenVariable
		tok.value = s.Slice(start, s.Pos())
		// Unused variables become predicates
		if !IsIdentifier(tok.value) {
			return tok, l.errorf(tok.line, tok.column, "invalid variable name %q", tok.value)
		}

	case isDigit(c) || (c == '-' && isDigit(s.Next())):
		l.number(&tok)

	case strings.IndexByte(operators, c) >= 0:
		s.Advance()
		tok.kind = tokenOperator
		tok.value = string(c)

	case isIdentifierByte(c):
		start := s.Pos()
		for isIdentifierByte(s.Curr()) {
			s.Advance()
		}
		tok.kind = tokenIdentifier
		tok.value = s.Slice(start, s.Pos())

	default:
		return tok, l.errorf(tok.line, tok.column, "unexpected character %q", c)
	}
	return tok, nil
}

// number reads an integer or a double.
// Digits directly followed by identifier characters form an identifier (ex: 2023-notes).
func (l *lexer) number(tok *token) {
	s := l.s
	start := s.Pos()
	if s.Curr() == '-' {
		s.Advance()
	}
	s.MatchDigits()
	tok.kind = tokenInteger
	if s.Curr() == '.' && isDigit(s.Next()) {
		s.Advance()
		s.MatchDigits()
		tok.kind = tokenDouble
	} else if isIdentifierByte(s.Curr()) && s.Slice(start, start+1) != "-" {
		for isIdentifierByte(s.Curr()) {
			s.Advance()
		}
		tok.kind = tokenIdentifier
	}
	tok.value = s.Slice(start, s.Pos())
}

func unescapeString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

func escapeString(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// dedent removes the indentation common to every non-blank line,
// and the newlines directly following or preceding the quotes.
func dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || width < indent {
			indent = width
		}
	}
	if indent <= 0 {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentifierByte(c byte) bool {
	return c >= 0x80 || isIdentifierRune(rune(c))
}

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 0x80:
		return true
	case r == '_' || r == '-' || r == ':':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
