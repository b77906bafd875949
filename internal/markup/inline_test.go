package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	type tok struct {
		kind  inlineKind
		value string
	}
	var tests = []struct {
		name     string
		content  string
		expected []tok
	}{
		{
			name:    "Text and spaces",
			content: "Hello  \n world",
			expected: []tok{
				{inlineText, "Hello"},
				{inlineSpace, " "},
				{inlineText, "world"},
			},
		},
		{
			name:    "Escaped operators",
			content: `a \[b] \\ \^`,
			expected: []tok{
				{inlineText, "a"},
				{inlineSpace, " "},
				{inlineText, "["},
				{inlineText, "b"},
				{inlineOperator, "]"},
				{inlineSpace, " "},
				{inlineText, `\`},
				{inlineSpace, " "},
				{inlineText, "^"},
			},
		},
		{
			name:    "Tags",
			content: `\b{x} ^book[dune]`,
			expected: []tok{
				{inlineTextTag, `\b`},
				{inlineOperator, "{"},
				{inlineText, "x"},
				{inlineOperator, "}"},
				{inlineSpace, " "},
				{inlineDataTag, "^book[dune]"},
			},
		},
		{
			name:    "Lone sigils",
			content: `2^ x^2 \ y`,
			expected: []tok{
				{inlineText, "2^"},
				{inlineSpace, " "},
				{inlineText, "x^2"},
				{inlineSpace, " "},
				{inlineText, `\`},
				{inlineSpace, " "},
				{inlineText, "y"},
			},
		},
		{
			name:    "Backquotes",
			content: "run `ls -l` now `",
			expected: []tok{
				{inlineText, "run"},
				{inlineSpace, " "},
				{inlineTextTag, "`ls -l`"},
				{inlineSpace, " "},
				{inlineText, "now"},
				{inlineSpace, " "},
				{inlineText, "`"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actual []tok
			for _, token := range tokenize(tt.content) {
				if token.kind == inlineEOF {
					break
				}
				actual = append(actual, tok{token.kind, token.value})
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestTokenizeOffsets(t *testing.T) {
	content := `See \note{Other} now`
	tokens := tokenize(content)
	require.Len(t, tokens, 6)
	tag := tokens[2]
	assert.Equal(t, inlineTextTag, tag.kind)
	assert.Equal(t, `\note{Other}`, content[tag.start:tag.end])
	assert.Equal(t, tag.start, tag.tag.Start)
	assert.Equal(t, tag.end, tag.tag.End)
}

func TestScanTags(t *testing.T) {
	tags := ScanTags(`\youtube[width=300, height="200"]{https://youtu.be/dQw4w9WgXcQ} \note{A \} B} \code{a {b} c} \html|8|<b>x</b> \foo[a, b`)
	require.Len(t, tags, 5)

	youtube := tags[0]
	assert.Equal(t, "youtube", youtube.Name)
	assert.True(t, youtube.HasParameters)
	assert.Equal(t, []string{"width", "height"}, youtube.Names)
	width, ok := youtube.Param("width")
	assert.True(t, ok)
	assert.Equal(t, "300", width)
	assert.Equal(t, "200", youtube.Named["height"])
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", youtube.Content)

	note := tags[1]
	assert.Equal(t, "A } B", note.Content)
	assert.Equal(t, `\note{A \} B}`, note.Literal())

	code := tags[2]
	assert.Equal(t, "a {b} c", code.Content)

	html := tags[3]
	assert.True(t, html.HasContent)
	assert.Equal(t, "<b>x</b>", html.Content)

	foo := tags[4]
	assert.False(t, foo.HasParameters)
	assert.False(t, foo.HasContent)
	assert.Equal(t, `\foo`, foo.Literal())
}

func TestReadParameters(t *testing.T) {
	tags := ScanTags(`\x[ a , "b, c", k = v, \], "q=1"]`)
	require.Len(t, tags, 1)
	tag := tags[0]
	assert.Equal(t, []string{"a", "b, c", "]", "q=1"}, tag.Positional)
	assert.Equal(t, map[string]string{"k": "v"}, tag.Named)
}

func TestExtractLinks(t *testing.T) {
	links := ExtractLinks(`See \note{Other Note#Intro}, \note{C# tips} and ^book[dune]{the book} or ^book[solaris]. \code{\note{Ignored}} ^recipe`)
	assert.Equal(t, []Link{
		{Kind: NoteLink, Ref: "Other Note", Section: "Intro", Text: "Other Note#Intro"},
		{Kind: NoteLink, Ref: "C# tips", Text: "C# tips"},
		{Kind: EntityLink, Type: "book", Ref: "dune", Text: "the book"},
		{Kind: EntityLink, Type: "book", Ref: "solaris", Text: "solaris"},
	}, links)
}

func TestExtractLinksInStyleSpans(t *testing.T) {
	links := ExtractLinks(`\b{\note{A}} \i{see \b{^book[dune]} here} \note{B} \b \note{C} }`)
	assert.Equal(t, []Link{
		{Kind: NoteLink, Ref: "B", Text: "B"},
		{Kind: NoteLink, Ref: "C", Text: "C"},
	}, links)
}

func TestSplitSection(t *testing.T) {
	var tests = []struct {
		ref             string
		expectedRef     string
		expectedSection string
	}{
		{"Title", "Title", ""},
		{"Title#Section", "Title", "Section"},
		{"Title # Section", "Title # Section", ""},
		{"Title#", "Title#", ""},
		{"C# tips#Usage", "C# tips", "Usage"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, section := splitSection(tt.ref)
			assert.Equal(t, tt.expectedRef, ref)
			assert.Equal(t, tt.expectedSection, section)
		})
	}
}
