package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/the-noteweaver/internal/testutil"
	"github.com/julien-sobczak/the-noteweaver/internal/vault"
	"github.com/julien-sobczak/the-noteweaver/pkg/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	var tests = []struct {
		name     string
		expected vault.Filename
		ok       bool
	}{
		{
			name:     "WR9C7F3Q2M.png",
			expected: vault.Filename{ID: "WR9C7F3Q2M", Ext: "png"},
			ok:       true,
		},
		{
			name:     "cat_WR9C7F3Q2M.PNG",
			expected: vault.Filename{Label: "cat", ID: "WR9C7F3Q2M", Ext: "png"},
			ok:       true,
		},
		{
			name:     "01_summer-trip_WR9C7F3Q2M.2 beach.jpg",
			expected: vault.Filename{Prefix: "01", Label: "summer-trip", ID: "WR9C7F3Q2M", Version: "2", Comment: "beach", Ext: "jpg"},
			ok:       true,
		},
		{
			name:     "WR9C7F3Q2M.1.3",
			expected: vault.Filename{ID: "WR9C7F3Q2M", Version: "1.3"},
			ok:       true,
		},
		{
			name: "README.txt",
			ok:   false,
		},
		{
			name: "cat_WR9C.png",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := vault.ParseFilename(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestFilenameString(t *testing.T) {
	name := vault.Filename{Prefix: "01", Label: "summer-trip", ID: "WR9C7F3Q2M", Version: "2", Comment: "beach", Ext: "jpg"}
	assert.Equal(t, "01_summer-trip_WR9C7F3Q2M.2 beach.jpg", name.String())
	assert.True(t, name.IsImage())
}

func TestDirectory(t *testing.T) {
	dir := testutil.SetUpFromFiles(t, map[string]string{
		"photos/cat_WR9C7F3Q2M.txt": "description",
		"photos/cat_WR9C7F3Q2M.jpg": "image",
		"docs/notes_HJMPQRVW.pdf":   "pdf",
		"docs/README.md":            "readme",
		"other/draft_HJMPQRVW.2.md": "v2",
	})

	v, err := vault.Open(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Size())

	path, ok := v.Resolve("WR9C7F3Q2M")
	assert.True(t, ok)
	assert.Equal(t, "photos/cat_WR9C7F3Q2M.jpg", path)

	path, ok = v.Resolve("HJMPQRVW")
	assert.True(t, ok)
	assert.Equal(t, "docs/notes_HJMPQRVW.pdf", path)
	assert.Equal(t, []string{"docs/notes_HJMPQRVW.pdf", "other/draft_HJMPQRVW.2.md"}, v.Files("HJMPQRVW"))

	path, ok = v.Resolve("docs/README.md")
	assert.True(t, ok)
	assert.Equal(t, "docs/README.md", path)

	t.Run("Canonical file names", func(t *testing.T) {
		var tests = []struct {
			ref      string
			expected string
		}{
			{"cat_WR9C7F3Q2M", "photos/cat_WR9C7F3Q2M.jpg"},
			{"cat_WR9C7F3Q2M.txt", "photos/cat_WR9C7F3Q2M.txt"},
			{"cat_WR9C7F3Q2M.png", "photos/cat_WR9C7F3Q2M.jpg"},
			// Identifiers are unique, labels are informative
			{"dog_WR9C7F3Q2M", "photos/cat_WR9C7F3Q2M.jpg"},
			{"draft_HJMPQRVW.2.md", "other/draft_HJMPQRVW.2.md"},
		}
		for _, tt := range tests {
			t.Run(tt.ref, func(t *testing.T) {
				path, ok := v.Resolve(tt.ref)
				assert.True(t, ok)
				assert.Equal(t, tt.expected, path)
			})
		}
	})

	_, ok = v.Resolve("XXXXXXXXXW")
	assert.False(t, ok)
	_, ok = v.Resolve("cat_XXXXXXXXXW.jpg")
	assert.False(t, ok)
	_, ok = v.Resolve("missing.png")
	assert.False(t, ok)
}

func TestOpenMissingDirectory(t *testing.T) {
	v, err := vault.Open(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Size())
}

func TestImport(t *testing.T) {
	oid.UseNext(t, "WR9C7F3Q2M", "HJMPQRVW")
	src := testutil.SetUpFromFiles(t, map[string]string{
		"Holidays.JPG": "image",
		"notes.txt":    "text",
	})
	v, err := vault.Open(t.TempDir())
	require.NoError(t, err)

	relativePath, err := v.Import(filepath.Join(src, "Holidays.JPG"), "holidays")
	require.NoError(t, err)
	assert.Equal(t, "holidays_WR9C7F3Q2M.jpg", relativePath)

	content, err := os.ReadFile(filepath.Join(v.Root(), relativePath))
	require.NoError(t, err)
	assert.Equal(t, "image", string(content))

	path, ok := v.Resolve("WR9C7F3Q2M")
	assert.True(t, ok)
	assert.Equal(t, relativePath, path)

	other, err := v.Import(filepath.Join(src, "notes.txt"), "")
	require.NoError(t, err)
	assert.Equal(t, "HJMPQRVW.txt", other)
	assert.Equal(t, 2, v.Size())

	path, ok = v.Resolve("HJMPQRVW.txt")
	assert.True(t, ok)
	assert.Equal(t, other, path)
}
