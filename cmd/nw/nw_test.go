package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/julien-sobczak/the-noteweaver/pkg/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) *core.Runtime {
	return core.NewTestRuntime(t, nil, map[string]string{
		"a.nw": "# Alpha\n\nSee \\note{Tiramisu} and ^place[Rome].\n\n## Details\n\nNothing \\note{Missing}.\n",
		"b.nw": "# Tiramisu\n^recipe{\n  serves 4 ;\n}\n\nA dessert.\n",
	})
}

func TestFormatMessages(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	r := newTestRuntime(t)
	assert.Equal(t, "a.nw:\n  warning: broken note link, couldn't find note for title: Missing\n", FormatMessages(r.Notes()))
}

func TestCanonicalDiff(t *testing.T) {
	assert.Empty(t, CanonicalDiff("a.gtf", "a {\n  b c ;\n} ;\n", "a {\n  b c ;\n} ;\n"))

	g := graph.New()
	doc, err := g.Parse(`alice name "Alice" .`)
	require.NoError(t, err)
	canonical := graph.Canonical(doc)
	assert.Equal(t, "alice {\n  name \"Alice\" ;\n} ;\n", canonical)

	diff := CanonicalDiff("people.gtf", "alice name \"Alice\" .\n", canonical)
	assert.True(t, strings.HasPrefix(diff, "--- a/people.gtf\n+++ b/people.gtf\n"))
	assert.Contains(t, diff, "-alice name \"Alice\" .\n")
	assert.Contains(t, diff, "+  name \"Alice\" ;\n")
}

func TestQuery(t *testing.T) {
	r := newTestRuntime(t)
	export := r.Graph().Export()

	values, err := Query(`[.entities[] | select(.types == ["recipe"]) | .id]`, export)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"b"}}, values)

	values, err = Query(`.entities[] | select(.id == "b") | .attributes.serves[0]`, export)
	require.NoError(t, err)
	assert.Equal(t, []any{4}, values)

	_, err = Query(`.entities[`, export)
	assert.Error(t, err)

	_, err = Query(`error("boom")`, export)
	assert.Error(t, err)
}

func TestFormatRecords(t *testing.T) {
	records := []core.Record{
		{ID: "a", Title: "Alpha", Path: "a.nw", HTML: "<div></div>"},
		{ID: "b", Path: "b.nw", Error: true, Message: "error: note has no title"},
	}

	t.Run("text", func(t *testing.T) {
		output, err := FormatRecords(records, "text")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "Alpha")
		assert.Contains(t, lines[1], "error")
	})

	t.Run("yaml", func(t *testing.T) {
		output, err := FormatRecords(records, "yaml")
		require.NoError(t, err)
		assert.Contains(t, output, "id: a")
		assert.Contains(t, output, "title: Alpha")
		assert.Contains(t, output, "note has no title")
		assert.NotContains(t, output, "<div>")
	})

	t.Run("json", func(t *testing.T) {
		output, err := FormatRecords(records, "json")
		require.NoError(t, err)
		assert.Contains(t, output, `"html": "\u003cdiv\u003e\u003c/div\u003e"`)
		assert.Contains(t, output, `"error": true`)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := FormatRecords(records, "xml")
		assert.EqualError(t, err, `unsupported format "xml"`)
	})
}

func TestSelectText(t *testing.T) {
	r := newTestRuntime(t)

	matches, err := SelectText(r.Records(), "h2")
	require.NoError(t, err)
	assert.Equal(t, []string{"a: Details"}, matches)

	matches, err = SelectText(r.Records(), "a.note-link")
	require.NoError(t, err)
	assert.Equal(t, []string{"a: Tiramisu"}, matches)

	matches, err = SelectText(r.Records(), "a.entity-link")
	require.NoError(t, err)
	assert.Equal(t, []string{"a: Rome"}, matches)
}

func TestFindEntities(t *testing.T) {
	r := newTestRuntime(t)

	byID := FindEntities(r, "b")
	require.Len(t, byID, 1)
	assert.True(t, byID[0].HasType("recipe"))

	byTitle := FindEntities(r, "Tiramisu")
	require.Len(t, byTitle, 1)
	assert.Same(t, byID[0], byTitle[0])

	byName := FindEntities(r, "Rome")
	require.Len(t, byName, 1)
	assert.True(t, byName[0].HasType("place"))

	assert.Empty(t, FindEntities(r, "Paris"))

	output := FormatEntity(r, byID[0])
	assert.Contains(t, output, "b")
	assert.Contains(t, output, "(recipe)")
	assert.Contains(t, output, "serves 4 ;")
}

func TestNewNoteContent(t *testing.T) {
	assert.Equal(t, "# My Note\n\n", NewNoteContent("My Note", "", oid.OID("")))

	uid := oid.MustParse("WR9C7F3Q2M")
	content := NewNoteContent("Tiramisu", "recipe", uid)
	assert.Equal(t, "# Tiramisu\n^recipe{\n  uid \"WR9C7F3Q2M\" ;\n}\n\n", content)

	g := graph.New()
	entity := g.GetOrCreate("tiramisu", graph.Object)
	doc, err := markup.ParseNote(g, entity, content)
	require.NoError(t, err)
	assert.Equal(t, "Tiramisu", doc.Title)
	assert.True(t, entity.HasType("recipe"))
	value, ok := entity.StringAttribute("uid")
	require.True(t, ok)
	assert.Equal(t, "WR9C7F3Q2M", value)
}

func TestCreateNote(t *testing.T) {
	oid.UseSequence(t)
	dir := filepath.Join(t.TempDir(), "recipes")

	path, err := CreateNote(dir, "Tiramisu", "recipe")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tiramisu.nw"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Tiramisu\n^recipe{\n  uid \"XXXXXXXXXW\" ;\n}\n\n", string(content))

	_, err = CreateNote(dir, "Tiramisu", "")
	assert.ErrorContains(t, err, "already exists")
}
