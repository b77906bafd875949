package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julien-sobczak/the-noteweaver/internal/testutil"
	"github.com/julien-sobczak/the-noteweaver/pkg/clock"
	"github.com/julien-sobczak/the-noteweaver/pkg/text"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

// Reset forces singletons to be recreated. Useful between unit tests.
func Reset() {
	configOnce.Reset()
	loggerOnce.Reset()
}

/* Fixtures */

// SetUpCollectionFromFiles populates a temp directory containing a valid .nw collection.
func SetUpCollectionFromFiles(t *testing.T, files map[string]string) string {
	dirname := testutil.SetUpFromFiles(t, files)
	configureDir(t, dirname)
	return dirname
}

// SetUpCollectionFromGoldenDir populates a temp directory containing a valid .nw collection.
func SetUpCollectionFromGoldenDir(t *testing.T) string {
	return SetUpCollectionFromGoldenDirNamed(t, t.Name())
}

// SetUpCollectionFromGoldenDirNamed populates a temp directory based on the given golden dir name.
// The golden directory is expected to contain the .nw directory.
func SetUpCollectionFromGoldenDirNamed(t *testing.T, testname string) string {
	dirname := testutil.SetUpFromGoldenDirNamed(t, testname)
	configureDir(t, dirname)
	return dirname
}

func configureDir(t *testing.T, dirname string) {
	nwDir := filepath.Join(dirname, ".nw")
	if _, err := os.Stat(nwDir); os.IsNotExist(err) {
		// Create an empty configuration for CurrentConfig() to work
		require.NoError(t, os.Mkdir(nwDir, os.ModePerm))
	}
	// Force the application to consider the temporary directory as the home
	t.Setenv("NW_HOME", dirname)
	t.Cleanup(Reset)

	// Force debug level in tests to diagnose more easily
	CurrentLogger().SetVerboseLevel(VerboseDebug)
	CurrentLogger().Debugf("✨ Set up directory %q", nwDir)
}

// NewTestRuntime processes notes given as relative path => content.
// Contents are passed through text.UnescapeTestContent.
func NewTestRuntime(t *testing.T, config *Config, files map[string]string) *Runtime {
	if config == nil {
		config = NewConfig(t.TempDir())
	}
	r := NewRuntime(config)
	var paths []string
	for path := range files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	for _, path := range paths {
		r.AddNote(path, text.UnescapeTestContent(files[path]))
	}
	r.Run()
	return r
}

/* Reproducible Tests */

// FreezeAt wraps the clock API to register the cleanup function at the end of the test.
func FreezeAt(t *testing.T, point time.Time) time.Time {
	clock.FreezeAt(point)
	t.Cleanup(clock.Unfreeze)
	return point
}
