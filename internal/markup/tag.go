package markup

import (
	"strconv"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
)

// Tags whose content is read with balanced braces.
var balancedTags = map[string]bool{
	"code": true,
	"math": true,
	"Math": true,
	"html": true,
}

// Tags that open a styled element with the next brace.
var styleTags = map[string]bool{
	"i": true,
	"b": true,
}

// Parameters are the values between brackets following a tag name.
type Parameters struct {
	Positional []string
	Named      map[string]string
	// Named parameters in declaration order
	Names []string
}

// Tag is a \name (text tag) or ^name (data tag) with optional parameters and content.
//
//	\youtube[width=300]{https://youtu.be/dQw4w9WgXcQ}
//	^book[dune]{Dune}
type Tag struct {
	Sigil byte
	Name  string
	Parameters
	HasParameters bool
	Content       string
	HasContent    bool

	// Byte offsets in the enclosing content
	Start int
	End   int
	// Source text of the tag
	Raw string
}

// IsData returns if the tag is a data tag (^name).
func (t *Tag) IsData() bool {
	return t.Sigil == '^'
}

// Param returns a named parameter.
func (t *Tag) Param(name string) (string, bool) {
	value, ok := t.Named[name]
	return value, ok
}

// Literal returns the tag as written in the source.
func (t *Tag) Literal() string {
	return t.Raw
}

func isTagNameByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func readTagName(s *scanner.Scanner) string {
	m := s.Mark()
	for !s.IsEOF() && isTagNameByte(s.Curr()) {
		s.Advance()
	}
	return s.SliceFrom(m)
}

// readTag reads a tag starting at the sigil.
func readTag(s *scanner.Scanner) *Tag {
	start := s.Mark()
	tag := &Tag{
		Sigil: s.Curr(),
		Start: start.Pos(),
	}
	s.Advance()
	tag.Name = readTagName(s)

	if tag.Sigil == '\\' && styleTags[tag.Name] {
		tag.End = s.Pos()
		tag.Raw = s.SliceFrom(start)
		return tag
	}

	if s.Curr() == '[' {
		if params, ok := readParameters(s); ok {
			tag.Parameters = params
			tag.HasParameters = true
		}
	}

	switch {
	case s.Curr() == '{':
		m := s.Mark()
		var content string
		var ok bool
		if balancedTags[tag.Name] && tag.Sigil == '\\' {
			content, ok = readBalanced(s)
		} else {
			content, ok = readUntilBrace(s)
		}
		if ok {
			tag.Content = content
			tag.HasContent = true
		} else {
			s.Restore(m)
		}
	case s.Curr() == '|' && isDigit(s.Next()):
		if content, ok := readSized(s); ok {
			tag.Content = content
			tag.HasContent = true
		}
	}

	tag.End = s.Pos()
	tag.Raw = s.SliceFrom(start)
	return tag
}

// readParameters reads [pos1, pos2, key=value].
// The position is restored when the closing bracket is missing.
func readParameters(s *scanner.Scanner) (Parameters, bool) {
	m := s.Mark()
	s.Advance() // [
	var params Parameters
	var current strings.Builder
	quoted := false

	flush := func() {
		param := strings.TrimSpace(current.String())
		current.Reset()
		if param == "" {
			return
		}
		if key, value, found := strings.Cut(param, "="); found && !strings.HasPrefix(param, `"`) {
			key = strings.TrimSpace(key)
			if params.Named == nil {
				params.Named = make(map[string]string)
			}
			if _, exists := params.Named[key]; !exists {
				params.Names = append(params.Names, key)
			}
			params.Named[key] = unquote(strings.TrimSpace(value))
			return
		}
		params.Positional = append(params.Positional, unquote(param))
	}

	for !s.IsEOF() {
		c := s.Curr()
		switch {
		case c == '\\' && (s.Next() == ']' || s.Next() == ','):
			current.WriteByte(s.Next())
			s.AdvanceN(2)
			continue
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			flush()
			s.Advance()
			continue
		case c == ']' && !quoted:
			flush()
			s.Advance()
			return params, true
		}
		current.WriteByte(c)
		s.Advance()
	}
	s.Restore(m)
	return Parameters{}, false
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}

// readBalanced reads {...} with nested braces and returns the raw content.
// Braces inside double-quoted strings are ignored.
func readBalanced(s *scanner.Scanner) (string, bool) {
	m := s.Mark()
	s.Advance() // {
	from := s.Pos()
	depth := 1
	quoted := false
	for !s.IsEOF() {
		c := s.Curr()
		switch {
		case c == '\\':
			s.Advance()
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				content := s.Slice(from, s.Pos())
				s.Advance()
				return content, true
			}
		}
		s.Advance()
	}
	s.Restore(m)
	return "", false
}

// readUntilBrace reads {...} up to the first unescaped closing brace.
func readUntilBrace(s *scanner.Scanner) (string, bool) {
	m := s.Mark()
	s.Advance() // {
	var content strings.Builder
	for !s.IsEOF() {
		c := s.Curr()
		if c == '\\' && s.Next() == '}' {
			content.WriteByte('}')
			s.AdvanceN(2)
			continue
		}
		if c == '}' {
			s.Advance()
			return content.String(), true
		}
		content.WriteByte(c)
		s.Advance()
	}
	s.Restore(m)
	return "", false
}

// readSized reads |N| followed by N bytes.
func readSized(s *scanner.Scanner) (string, bool) {
	m := s.Mark()
	s.Advance() // |
	digits, _ := s.MatchDigits()
	size, err := strconv.Atoi(digits)
	if err != nil || s.Curr() != '|' {
		s.Restore(m)
		return "", false
	}
	s.Advance()
	from := s.Pos()
	if from+size > len(s.Text()) {
		s.Restore(m)
		return "", false
	}
	s.AdvanceN(size)
	return s.Slice(from, from+size), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
