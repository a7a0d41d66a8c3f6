package textdex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	dbBleve "github.com/kailas-cloud/textdex/internal/db/bleve"
)

// Engine maps typed entities onto an embedded full-text index.
//
// Searches may run concurrently. Each write opens its own writer under the
// index write lock and releases it before returning. WithIndexDir and
// WithAnalyzer swap engine-wide state for the duration of their callback.
// A store is closed only after every call using it has returned.
type Engine struct {
	cfg      *engineConfig
	schemas  *schemaCache
	codec    *codec
	analysis *dbBleve.Analysis
	obs      *observer
	logger   *zap.Logger

	mu       sync.RWMutex
	dir      string
	analyzer string
	stores   map[string]*storeRef
	known    []string
	closed   bool
}

// storeRef is an open store and the calls currently using it.
type storeRef struct {
	db.Store
	inUse sync.WaitGroup
}

// retire waits for in-flight calls, then closes the store.
func (r *storeRef) retire() error {
	r.inUse.Wait()
	return r.Store.Close()
}

// New creates an Engine and opens (or creates) its index directory.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.indexDir == "" {
		return nil, fmt.Errorf("textdex: %w: index directory required (use WithIndexDir)", ErrInvalidArgument)
	}
	if cfg.serializer == nil {
		return nil, fmt.Errorf("textdex: %w: nil serializer", ErrInvalidArgument)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	analysis := dbBleve.NewAnalysis()
	if !analysis.HasAnalyzer(cfg.analyzer) {
		return nil, fmt.Errorf("textdex: %w: unknown analyzer %q", ErrInvalidArgument, cfg.analyzer)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(cfg.indexDir)
	if err != nil {
		return nil, fmt.Errorf("textdex: %w: index directory: %w", ErrInvalidArgument, err)
	}

	e := &Engine{
		cfg:      cfg,
		schemas:  newSchemaCache(),
		codec:    &codec{serializer: cfg.serializer},
		analysis: analysis,
		obs:      obs,
		logger:   cfg.logger,
		dir:      dir,
		analyzer: cfg.analyzer,
		stores:   make(map[string]*storeRef),
	}

	store, err := e.openStore(dir)
	if err != nil {
		return nil, fmt.Errorf("textdex: %w", err)
	}
	e.stores[dir] = &storeRef{Store: store}
	e.addKnown(dir)
	return e, nil
}

func (e *Engine) openStore(dir string) (db.Store, error) {
	return dbBleve.Open(dir, dbBleve.Options{
		Analyzer:    e.analyzer,
		LockTimeout: e.cfg.lockTimeout,
		Logger:      e.logger,
		Analysis:    e.analysis,
	})
}

// addKnown records dir in the known-directory set. Must hold mu.
func (e *Engine) addKnown(dir string) {
	for _, d := range e.known {
		if d == dir {
			return
		}
	}
	e.known = append(e.known, dir)
}

// active returns the current store and analyzer. The store stays open until
// release is called.
func (e *Engine) active() (store db.Store, analyzer string, release func(), err error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, "", nil, ErrClosed
	}
	ref, ok := e.stores[e.dir]
	if ok {
		ref.inUse.Add(1)
		analyzer = e.analyzer
	}
	e.mu.RUnlock()
	if ok {
		return ref.Store, analyzer, ref.inUse.Done, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, "", nil, ErrClosed
	}
	ref, ok = e.stores[e.dir]
	if !ok {
		s, err := e.openStore(e.dir)
		if err != nil {
			return nil, "", nil, err
		}
		ref = &storeRef{Store: s}
		e.stores[e.dir] = ref
	}
	ref.inUse.Add(1)
	return ref.Store, e.analyzer, ref.inUse.Done, nil
}

// IndexDir returns the active index directory.
func (e *Engine) IndexDir() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir
}

// Analyzer returns the active analyzer name.
func (e *Engine) Analyzer() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analyzer
}

// WithIndexDir runs fn with dir as the active index directory, then restores
// the previous one. dir must exist; an index is created in it if missing. A
// store opened for the scope is closed when it ends, after calls still using
// it have returned.
func (e *Engine) WithIndexDir(ctx context.Context, dir string, fn func(ctx context.Context) error) (err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: index directory %q: %w", ErrInvalidArgument, dir, err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: index directory %q", ErrNotFound, abs)
	}
	if err != nil {
		return fmt.Errorf("index directory %q: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", ErrInvalidArgument, abs)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	_, wasOpen := e.stores[abs]
	if !wasOpen {
		store, oerr := e.openStore(abs)
		if oerr != nil {
			e.mu.Unlock()
			return oerr
		}
		e.stores[abs] = &storeRef{Store: store}
	}
	prev := e.dir
	e.dir = abs
	e.addKnown(abs)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.dir = prev
		var scoped *storeRef
		if !wasOpen {
			scoped = e.stores[abs]
			delete(e.stores, abs)
		}
		e.mu.Unlock()
		if scoped != nil {
			if cerr := scoped.retire(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	return fn(ctx)
}

// WithAnalyzer runs fn with the named analyzer active, then restores the
// previous one. The analyzer applies to text fields written and keywords
// extracted inside the scope.
func (e *Engine) WithAnalyzer(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if name == "" {
		return fmt.Errorf("%w: empty analyzer name", ErrInvalidArgument)
	}
	if !e.analysis.HasAnalyzer(name) {
		return fmt.Errorf("%w: unknown analyzer %q", ErrInvalidArgument, name)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	prev := e.analyzer
	e.analyzer = name
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.analyzer = prev
		e.mu.Unlock()
	}()

	return fn(ctx)
}

// write runs fn against a fresh writer on the active store. A stale lock
// left by a dead writer is cleared first. fn is responsible for flushing or
// committing; whatever it leaves pending is discarded.
func (e *Engine) write(ctx context.Context, fn func(w db.Writer) error) (err error) {
	store, analyzer, release, err := e.active()
	if err != nil {
		return err
	}
	defer release()

	locked, err := store.Locked()
	if err != nil {
		return err
	}
	if locked {
		switch uerr := store.Unlock(); {
		case uerr == nil:
			e.logger.Warn("stale write lock cleared", zap.String("path", store.Path()))
		case !errors.Is(uerr, db.ErrLockHeld):
			return uerr
		}
	}

	w, err := store.OpenWriter(ctx, analyzer)
	if err != nil {
		if errors.Is(err, db.ErrLockHeld) {
			return fmt.Errorf("%w: %w", ErrIndexLocked, err)
		}
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(w); err != nil {
		if rerr := w.Rollback(); rerr != nil {
			e.logger.Warn("rollback failed", zap.String("path", store.Path()), zap.Error(rerr))
		}
		return err
	}
	return nil
}

// Close releases every open index store, once calls using it have returned,
// and the serializer. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	stores := e.stores
	e.stores = map[string]*storeRef{}
	e.mu.Unlock()

	var errs []error
	for _, s := range stores {
		if err := s.retire(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := e.cfg.serializer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close serializer: %w", err))
		}
	}
	return errors.Join(errs...)
}
