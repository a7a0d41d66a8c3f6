package textdex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/diskstat"
)

// CurrentIndexInfo reports on the active index directory.
func (e *Engine) CurrentIndexInfo(ctx context.Context) (info IndexInfo, err error) {
	defer func(start time.Time) { e.obs.observe(opIndexInfo, start, err) }(time.Now())

	store, _, release, err := e.active()
	if err != nil {
		return IndexInfo{}, err
	}
	defer release()
	return indexInfo(ctx, store)
}

// IndexInfos reports on every index directory the engine has used, in the
// order they were first used. Directories removed since are skipped.
func (e *Engine) IndexInfos(ctx context.Context) (infos []IndexInfo, err error) {
	defer func(start time.Time) { e.obs.observe(opIndexInfo, start, err) }(time.Now())

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, ErrClosed
	}
	dirs := make([]string, len(e.known))
	copy(dirs, e.known)
	e.mu.RUnlock()

	infos = make([]IndexInfo, 0, len(dirs))
	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("index directory gone", zap.String("path", dir))
			continue
		}
		info, err := e.dirInfo(ctx, dir)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// dirInfo uses the store already open for dir, or opens one for the call.
func (e *Engine) dirInfo(ctx context.Context, dir string) (IndexInfo, error) {
	e.mu.RLock()
	ref, ok := e.stores[dir]
	if ok {
		ref.inUse.Add(1)
	}
	e.mu.RUnlock()
	if ok {
		defer ref.inUse.Done()
		return indexInfo(ctx, ref.Store)
	}

	store, err := e.openStore(dir)
	if err != nil {
		return IndexInfo{}, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			e.logger.Warn("close index", zap.String("path", dir), zap.Error(cerr))
		}
	}()
	return indexInfo(ctx, store)
}

func indexInfo(ctx context.Context, store db.Store) (IndexInfo, error) {
	if err := ctx.Err(); err != nil {
		return IndexInfo{}, err
	}
	dir := store.Path()
	count, err := store.DocCount()
	if err != nil {
		return IndexInfo{}, fmt.Errorf("index info %s: %w", dir, err)
	}
	times, err := diskstat.Stat(dir)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("index info: %w", err)
	}
	size, err := diskstat.DirSize(dir)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("index info %s: size: %w", dir, err)
	}
	vol, err := diskstat.VolumeOf(dir)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("index info: %w", err)
	}
	return IndexInfo{
		Path:                 dir,
		DocCount:             count,
		CreatedAt:            times.Created,
		AccessedAt:           times.Accessed,
		ModifiedAt:           times.Modified,
		SizeBytes:            size,
		VolumeTotalBytes:     vol.TotalBytes,
		VolumeFreeBytes:      vol.FreeBytes,
		VolumeAvailableBytes: vol.AvailableBytes,
	}, nil
}
