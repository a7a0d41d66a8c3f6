//go:build linux

package diskstat

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// Stat returns the timestamps of path.
func Stat(path string) (Times, error) {
	var st unix.Statx_t
	mask := unix.STATX_BTIME | unix.STATX_ATIME | unix.STATX_MTIME
	if err := unix.Statx(unix.AT_FDCWD, path, 0, mask, &st); err != nil {
		return Times{}, fmt.Errorf("statx %s: %w", path, err)
	}
	t := Times{
		Accessed: statxTime(st.Atime),
		Modified: statxTime(st.Mtime),
	}
	if st.Mask&unix.STATX_BTIME != 0 {
		t.Created = statxTime(st.Btime)
	} else {
		t.Created = t.Modified
	}
	return t, nil
}

// VolumeOf returns capacity figures for the volume holding path.
func VolumeOf(path string) (Volume, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Volume{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize) //nolint:gosec // block size is never negative
	return Volume{
		TotalBytes:     st.Blocks * bsize,
		FreeBytes:      st.Bfree * bsize,
		AvailableBytes: st.Bavail * bsize,
	}, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
