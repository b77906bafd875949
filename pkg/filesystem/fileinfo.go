package filesystem

import (
	"os"
	"time"

	"github.com/julien-sobczak/the-noteweaver/pkg/clock"
)

// StatFunc has the signature of os.Stat.
type StatFunc func(name string) (os.FileInfo, error)

var statFunc StatFunc = os.Stat

// Stat is os.Stat unless tests made it reproducible with UseReproducibleStat.
func Stat(name string) (os.FileInfo, error) {
	return statFunc(name)
}

// UseReproducibleStat replaces the modification time by the clock time
// and the size by 0 (empty file) or 1 (any other file).
// Returns a function restoring the default behavior.
func UseReproducibleStat() func() {
	statFunc = reproducibleStat
	return func() {
		statFunc = os.Stat
	}
}

func reproducibleStat(name string) (os.FileInfo, error) {
	// Execute the real function to reproduce errors
	stat, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return reproducibleFileInfo{stat}, nil
}

type reproducibleFileInfo struct {
	os.FileInfo
}

func (fi reproducibleFileInfo) Size() int64 {
	if fi.FileInfo.IsDir() || fi.FileInfo.Size() == 0 {
		return 0
	}
	return 1
}

func (fi reproducibleFileInfo) ModTime() time.Time {
	return clock.Now()
}
