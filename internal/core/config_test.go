package core

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julien-sobczak/the-noteweaver/internal/testutil"
	"github.com/julien-sobczak/the-noteweaver/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobPaths(t *testing.T) {
	var g GlobPaths = []GlobPath{
		"archives/",
		"!archives/index.nw",

		"projects/**/*.tmp",
		"projects/*/*.png",

		"/todos/",
		"/todos.nw",
	}

	assert.True(t, g.Match("archives/toto/"))
	assert.False(t, g.Match("archives.nw"))       // No rule
	assert.False(t, g.Match("archives/index.nw")) // Using negation

	assert.False(t, g.Match("myprojects/test.tmp"))       // No rule
	assert.True(t, g.Match("projects/test.tmp"))          // ** matches 0-n directories
	assert.True(t, g.Match("projects/sub/test.tmp"))      // ** matches 0-n directories
	assert.True(t, g.Match("projects/sub/sub/test.tmp"))  // ** matches 0-n directories
	assert.False(t, g.Match("projects/test.png"))         // matches 1 directory
	assert.True(t, g.Match("projects/sub/test.png"))      // matches 1 directory
	assert.False(t, g.Match("projects/sub/sub/test.png")) // matches 1 directory

	assert.False(t, g.Match("sub/todos/index.nw")) // not root directory
	assert.False(t, g.Match("sub/todos.nw"))       // not root directory
	assert.True(t, g.Match("todos.nw"))            // root
	assert.True(t, g.Match("todos/index.nw"))      // root

	ignoreFile := IgnoreFile{Entries: g}
	assert.True(t, ignoreFile.MustExcludeFile("archives/toto", true))
}

func TestReadConfigFromDirectory(t *testing.T) {

	t.Run("Config present", func(t *testing.T) {
		dir := testutil.SetUpFromFiles(t, map[string]string{
			".nw/config": `
[core]
extensions=["nw", "note"]

[build]
target="public"
public=true
private-types=["journal"]
title-notes=["Home"]

[graph]
max-depth=8
`,
			".nw/types.yml": `
types:
- name: recipe
  label: Recipes
  description: Things to cook
`,
			".nwignore": `
# Drafts
drafts/
`,
			"journal/2023-01-01.nw": "# 2023-01-01\n",
		})

		c, err := ReadConfigFromDirectory(filepath.Join(dir, "journal"))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, dir, c.RootDirectory)

		// Check .nw/config
		assert.Equal(t, []string{"nw", "note"}, c.ConfigFile.Core.Extensions)
		assert.True(t, c.ConfigFile.SupportExtension("todo.NOTE"))
		assert.False(t, c.ConfigFile.SupportExtension("todo.md"))
		assert.Equal(t, filepath.Join(dir, "public"), c.TargetDirectory())
		assert.Equal(t, filepath.Join(dir, "files"), c.FilesDirectory()) // default value
		assert.Equal(t, 588, c.ConfigFile.Build.ContentWidth)            // default value
		assert.True(t, c.ConfigFile.IsPrivateType("journal"))
		assert.False(t, c.ConfigFile.IsPrivateType("recipe"))
		assert.True(t, c.ConfigFile.IsTitleNote("Home"))
		assert.Len(t, c.ConfigFile.GraphOptions(), 1)

		// Check .nw/types.yml
		assert.Equal(t, "Recipes", c.TypesFile.Label("recipe"))
		assert.Equal(t, "book", c.TypesFile.Label("book"))

		// Check .nwignore
		assert.Equal(t, GlobPaths{"drafts/"}, c.IgnoreFile.Entries)
		assert.True(t, c.IgnoreFile.MustExcludeFile("drafts", true))
		assert.True(t, c.IgnoreFile.MustExcludeFile("drafts/todo.nw", false))
	})

	t.Run("Config missing", func(t *testing.T) {
		dir := testutil.SetUpFromFiles(t, map[string]string{
			"journal/2023-01-01.nw": "# 2023-01-01\n",
		})

		c, err := ReadConfigFromDirectory(filepath.Join(dir, "journal"))
		require.NoError(t, err)
		require.Nil(t, c)
	})

	t.Run("Default files", func(t *testing.T) {
		dir := testutil.SetUpFromFiles(t, map[string]string{
			".nw/config": "",
		})

		c, err := ReadConfigFromDirectory(dir)
		require.NoError(t, err)
		require.NotNil(t, c)

		assert.Equal(t, []string{"nw"}, c.ConfigFile.Core.Extensions)
		assert.Equal(t, filepath.Join(dir, "build"), c.TargetDirectory())
		assert.Empty(t, c.TypesFile.Types)
		assert.Empty(t, c.ConfigFile.GraphOptions())

		// Check all default entries are present
		iEntry := 0
		for _, line := range strings.Split(DefaultIgnore, "\n") {
			if text.IsBlank(line) || strings.HasPrefix(line, "#") {
				continue
			}
			assert.Equal(t, line, string(c.IgnoreFile.Entries[iEntry]))
			iEntry++
		}
		assert.Len(t, c.IgnoreFile.Entries, iEntry)
	})

	t.Run("Unknown setting", func(t *testing.T) {
		dir := testutil.SetUpFromFiles(t, map[string]string{
			".nw/config": `
[build]
unknown="value"
`,
		})

		_, err := ReadConfigFromDirectory(dir)
		assert.Error(t, err)
	})
}

func TestCurrentConfig(t *testing.T) {
	dir := SetUpCollectionFromFiles(t, map[string]string{
		".nw/config": `
[build]
heading-prefix="user-content-"
`,
	})

	c := CurrentConfig()
	assert.Equal(t, dir, c.RootDirectory)
	assert.Equal(t, "user-content-", c.ConfigFile.Build.HeadingPrefix)
	assert.Len(t, c.ConfigFile.RenderOptions(), 2)
	assert.Equal(t, filepath.Join(dir, ".nw", "index.db"), c.IndexPath())
	assert.Contains(t, c.String(), "user-content-")
}

func TestOverride(t *testing.T) {
	c := NewConfig(t.TempDir())
	c.ConfigFile.Build.PrivateTypes = []string{"journal"}

	err := c.Override(ConfigBuild{
		Target: "/tmp/site",
		Public: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/site", c.TargetDirectory())
	assert.True(t, c.ConfigFile.Build.Public)
	// Empty values are ignored
	assert.Equal(t, "files", c.ConfigFile.Build.Files)
	assert.Equal(t, 588, c.ConfigFile.Build.ContentWidth)
	assert.Equal(t, []string{"journal"}, c.ConfigFile.Build.PrivateTypes)
}
