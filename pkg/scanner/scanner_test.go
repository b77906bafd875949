package scanner_test

import (
	"testing"

	"github.com/julien-sobczak/the-noteweaver/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	s := scanner.New("ab\ncd")
	assert.Equal(t, byte('a'), s.Curr())
	assert.Equal(t, byte('b'), s.Next())
	assert.Equal(t, scanner.EOF, s.Prev())

	s.Advance()
	s.Advance()
	assert.Equal(t, byte('\n'), s.Curr())
	assert.Equal(t, 1, s.Line())
	assert.Equal(t, 3, s.Column())

	s.Advance()
	assert.Equal(t, 2, s.Line())
	assert.Equal(t, 1, s.Column())

	s.AdvanceN(10)
	assert.True(t, s.IsEOF())
	assert.Equal(t, scanner.EOF, s.Curr())
	assert.Equal(t, 5, s.Pos())
}

func TestMarkRestore(t *testing.T) {
	s := scanner.New("hello\nworld")
	m := s.Mark()
	s.AdvanceLine()
	assert.Equal(t, 2, s.Line())
	assert.Equal(t, "hello\n", s.SliceFrom(m))

	s.Restore(m)
	assert.Equal(t, 0, s.Pos())
	assert.Equal(t, 1, s.Line())
	assert.Equal(t, 1, s.Column())
}

func TestMatchString(t *testing.T) {
	s := scanner.New("\\code[go]\n")
	assert.False(t, s.MatchString("\\coda"))
	assert.Equal(t, 0, s.Pos())
	assert.True(t, s.MatchString("\\code"))
	assert.Equal(t, byte('['), s.Curr())
}

func TestMatchDigits(t *testing.T) {
	s := scanner.New("123. item")
	digits, ok := s.MatchDigits()
	require.True(t, ok)
	assert.Equal(t, "123", digits)
	_, ok = s.MatchDigits()
	assert.False(t, ok)
}

func TestMatchQuotedString(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"simple", `"abc" rest`, "abc", true},
		{"escaped quote", `"a\"b"`, `a\"b`, true},
		{"unterminated", `"abc`, "", false},
		{"not a string", `abc`, "", false},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			s := scanner.New(tt.input)
			actual, ok := s.MatchQuotedString()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, actual)
			if !ok {
				assert.Equal(t, 0, s.Pos())
			}
		})
	}
}

func TestAdvanceLine(t *testing.T) {
	s := scanner.New("  first\nsecond")
	assert.Equal(t, 2, s.ConsumeSpaces())
	assert.Equal(t, "first", s.PeekLine())
	assert.Equal(t, "first\n", s.AdvanceLine())
	assert.Equal(t, "second", s.AdvanceLine())
	assert.True(t, s.IsEOF())
	assert.Equal(t, "", s.AdvanceLine())
}
