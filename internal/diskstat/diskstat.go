// Package diskstat reports directory size, timestamps and volume capacity
// for index directories.
package diskstat

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Times holds the birth, access and modification times of a path. Birth
// falls back to the modification time where the filesystem does not record it.
type Times struct {
	Created  time.Time
	Accessed time.Time
	Modified time.Time
}

// Volume holds capacity figures of the volume containing a path.
type Volume struct {
	TotalBytes     uint64
	FreeBytes      uint64
	AvailableBytes uint64
}

// DirSize sums the sizes of all regular files under dir.
func DirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Segment files vanish during merges.
			if isNotExist(err) {
				return nil
			}
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
