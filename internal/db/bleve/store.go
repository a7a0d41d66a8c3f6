// Package bleve implements the full-text backend on an embedded bleve index.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Options configures a Store.
type Options struct {
	// Analyzer becomes the index mapping default when the index is created.
	Analyzer    string
	LockTimeout time.Duration
	Logger      *zap.Logger
	Analysis    *Analysis
}

// Store is one bleve index directory.
type Store struct {
	path     string
	idx      bleve.Index
	lock     *writeLock
	analysis *Analysis
	logger   *zap.Logger
	writeMu  sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

var _ db.Store = (*Store)(nil)

// Open opens the index in dir, creating the directory and an empty index
// when either is missing.
func Open(dir string, opts Options) (*Store, error) {
	if opts.Analyzer == "" {
		opts.Analyzer = DefaultAnalyzer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Analysis == nil {
		opts.Analysis = NewAnalysis()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	lock := newWriteLock(dir, opts.LockTimeout)
	cfg := map[string]interface{}{"bolt_timeout": lock.timeout.String()}

	idx, err := bleve.OpenUsing(dir, cfg)
	switch {
	case errors.Is(err, bleve.ErrorIndexPathDoesNotExist), errors.Is(err, bleve.ErrorIndexMetaMissing):
		m := bleve.NewIndexMapping()
		m.DefaultAnalyzer = opts.Analyzer
		idx, err = bleve.NewUsing(dir, m, scorch.Name, bleve.Config.DefaultKVStore, cfg)
		if err != nil {
			return nil, &db.Error{Op: db.OpCreate, Err: fmt.Errorf("%s: %w", dir, err)}
		}
		opts.Logger.Info("index created", zap.String("path", dir), zap.String("analyzer", opts.Analyzer))
	case err != nil:
		return nil, &db.Error{Op: db.OpOpen, Err: fmt.Errorf("%s: %w", dir, err)}
	}

	return &Store{
		path:     dir,
		idx:      idx,
		lock:     lock,
		analysis: opts.Analysis,
		logger:   opts.Logger,
	}, nil
}

// Path returns the index directory.
func (s *Store) Path() string { return s.path }

// Locked reports whether the write lock file names an owner, live or dead.
func (s *Store) Locked() (bool, error) { return s.lock.present() }

// Unlock clears a stale write lock.
func (s *Store) Unlock() error { return s.lock.clearStale() }

// DocCount returns the number of committed documents.
func (s *Store) DocCount() (uint64, error) {
	n, err := s.idx.DocCount()
	if err != nil {
		return 0, &db.Error{Op: db.OpDocCount, Err: err}
	}
	return n, nil
}

// OpenWriter acquires the write lock and returns a writer whose text fields
// are analyzed with the named analyzer. Only one writer per store is open at
// a time; others wait for the lock like writers in other processes do.
func (s *Store) OpenWriter(ctx context.Context, analyzer string) (db.Writer, error) {
	text, err := s.analysis.analyzer(analyzer)
	if err != nil {
		return nil, err
	}
	keyword, err := s.analysis.analyzer(KeywordAnalyzer)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	fl, err := s.lock.acquire(ctx)
	if err != nil {
		s.writeMu.Unlock()
		return nil, err
	}
	return &writer{
		ctx:     ctx,
		store:   s,
		text:    text,
		keyword: keyword,
		batch:   s.idx.NewBatch(),
		pending: make(map[string]*record.Record),
		lock:    fl,
	}, nil
}

// Close closes the underlying index. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if err := s.idx.Close(); err != nil {
			s.closeErr = &db.Error{Op: db.OpClose, Err: err}
		}
	})
	return s.closeErr
}
