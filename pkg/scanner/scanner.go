// Package scanner implements a byte cursor over a text with line/column tracking.
//
// All parsers (block tokenizer, inline tokenizer, graph lexer) share this cursor.
// Speculative parsing is done by taking a Mark and restoring it.
package scanner

import "strings"

// EOF is returned by Curr, Next and Prev outside of the text.
const EOF byte = 0

// Scanner is a cursor over a text.
type Scanner struct {
	text string
	pos  int
	line int
	col  int
}

// Mark is a saved position. Marks are plain values.
type Mark struct {
	pos  int
	line int
	col  int
}

// Pos returns the byte offset of the mark.
func (m Mark) Pos() int {
	return m.pos
}

// New creates a scanner at the start of the text.
func New(text string) *Scanner {
	return &Scanner{
		text: text,
		line: 1,
		col:  1,
	}
}

// Text returns the full scanned text.
func (s *Scanner) Text() string {
	return s.text
}

// Curr returns the current byte.
func (s *Scanner) Curr() byte {
	if s.pos >= len(s.text) {
		return EOF
	}
	return s.text[s.pos]
}

// Next returns the byte after the current one without moving.
func (s *Scanner) Next() byte {
	if s.pos+1 >= len(s.text) {
		return EOF
	}
	return s.text[s.pos+1]
}

// Prev returns the byte before the current one.
func (s *Scanner) Prev() byte {
	if s.pos == 0 || s.pos > len(s.text) {
		return EOF
	}
	return s.text[s.pos-1]
}

// IsEOF reports whether the cursor reached the end.
func (s *Scanner) IsEOF() bool {
	return s.pos >= len(s.text)
}

// Advance moves one byte forward. It never moves past the end.
func (s *Scanner) Advance() {
	if s.IsEOF() {
		return
	}
	if s.text[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}

// AdvanceN moves n bytes forward.
func (s *Scanner) AdvanceN(n int) {
	for i := 0; i < n && !s.IsEOF(); i++ {
		s.Advance()
	}
}

// Mark saves the current position.
func (s *Scanner) Mark() Mark {
	return Mark{pos: s.pos, line: s.line, col: s.col}
}

// Restore moves back (or forward) to a saved position.
func (s *Scanner) Restore(m Mark) {
	s.pos = m.pos
	s.line = m.line
	s.col = m.col
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// Line returns the current line (1-based).
func (s *Scanner) Line() int {
	return s.line
}

// Column returns the current column (1-based).
func (s *Scanner) Column() int {
	return s.col
}

// Slice returns the text between two offsets.
func (s *Scanner) Slice(from, to int) string {
	if to > len(s.text) {
		to = len(s.text)
	}
	if from > to {
		return ""
	}
	return s.text[from:to]
}

// SliceFrom returns the text between a mark and the current position.
func (s *Scanner) SliceFrom(m Mark) string {
	return s.Slice(m.pos, s.pos)
}

// Rest returns the remaining text.
func (s *Scanner) Rest() string {
	if s.IsEOF() {
		return ""
	}
	return s.text[s.pos:]
}

// HasPrefix reports whether the remaining text starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.Rest(), prefix)
}

// MatchString consumes s when the remaining text starts with it.
// Nothing is consumed on failure.
func (s *Scanner) MatchString(str string) bool {
	if !s.HasPrefix(str) {
		return false
	}
	s.AdvanceN(len(str))
	return true
}

// MatchDigits consumes a run of ASCII digits.
func (s *Scanner) MatchDigits() (string, bool) {
	start := s.pos
	for isDigit(s.Curr()) {
		s.Advance()
	}
	if start == s.pos {
		return "", false
	}
	return s.text[start:s.pos], true
}

// MatchQuotedString consumes a double-quoted string and returns the raw content.
// Escaped quotes (\") do not end the string. Nothing is consumed on failure.
func (s *Scanner) MatchQuotedString() (string, bool) {
	if s.Curr() != '"' {
		return "", false
	}
	m := s.Mark()
	s.Advance()
	start := s.pos
	for !s.IsEOF() {
		switch s.Curr() {
		case '\\':
			s.Advance()
			s.Advance()
			continue
		case '"':
			content := s.text[start:s.pos]
			s.Advance()
			return content, true
		}
		s.Advance()
	}
	s.Restore(m)
	return "", false
}

// ConsumeSpaces skips spaces (not newlines) and returns their count.
func (s *Scanner) ConsumeSpaces() int {
	count := 0
	for s.Curr() == ' ' {
		s.Advance()
		count++
	}
	return count
}

// ConsumeWhitespaces skips spaces, tabs and newlines.
func (s *Scanner) ConsumeWhitespaces() {
	for {
		switch s.Curr() {
		case ' ', '\t', '\n', '\r':
			s.Advance()
		default:
			return
		}
	}
}

// AdvanceLine consumes the rest of the line, newline included, and returns it.
func (s *Scanner) AdvanceLine() string {
	start := s.pos
	for !s.IsEOF() && s.Curr() != '\n' {
		s.Advance()
	}
	s.Advance()
	return s.text[start:s.pos]
}

// PeekLine returns the rest of the current line without the newline.
func (s *Scanner) PeekLine() string {
	rest := s.Rest()
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
