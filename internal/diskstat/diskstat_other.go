//go:build !linux

package diskstat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Stat returns the timestamps of path. Only the modification time is
// portable; the others repeat it.
func Stat(path string) (Times, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Times{}, fmt.Errorf("stat %s: %w", path, err)
	}
	mod := info.ModTime()
	return Times{Created: mod, Accessed: mod, Modified: mod}, nil
}

// VolumeOf is not supported on this platform and reports zero capacity.
func VolumeOf(string) (Volume, error) {
	return Volume{}, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
