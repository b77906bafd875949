package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julien-sobczak/the-noteweaver/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUpCollectionFromFiles(t *testing.T) {
	dirname := SetUpCollectionFromFiles(t, map[string]string{
		"projects/todo.nw": "# Todo\n",
	})
	require.FileExists(t, filepath.Join(dirname, "projects/todo.nw"))
	require.DirExists(t, filepath.Join(dirname, ".nw"))
	assert.Equal(t, dirname, os.Getenv("NW_HOME"))

	config := CurrentConfig()
	assert.Equal(t, dirname, config.RootDirectory)
}

func TestNewTestRuntime(t *testing.T) {
	r := NewTestRuntime(t, nil, map[string]string{
		"b.nw": "# Beta\n\n\\code[go]\n|fmt.Println(”hi”)\n",
		"a.nw": "# Alpha\n",
	})
	// Notes are added in path order
	require.Len(t, r.Notes(), 2)
	assert.Equal(t, "a", r.Notes()[0].ID)
	assert.Equal(t, "b", r.Notes()[1].ID)
	assert.Contains(t, r.NoteByID("b").Source, "fmt.Println(`hi`)")
}

func TestFreezeAt(t *testing.T) {
	point := time.Date(2023, time.Month(1), 1, 1, 12, 30, 0, time.UTC)
	t.Run("Frozen", func(t *testing.T) {
		FreezeAt(t, point)
		assert.Equal(t, point, clock.Now())
	})
	// Restored by the subtest cleanup
	assert.NotEqual(t, point, clock.Now())
}
