package db

import (
	"context"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Store is the full-text backend facade for one index directory.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Locker
	Searcher
	Path() string
	DocCount() (uint64, error)
	OpenWriter(ctx context.Context, analyzer string) (Writer, error)
	NewHighlighterFactory(pre, post string) HighlighterFactory
	Close() error
}

// Locker inspects and clears the cross-process write lock.
type Locker interface {
	// Locked reports whether the lock names an owner, live or stale.
	Locked() (bool, error)
	// Unlock clears a stale lock. It fails with ErrLockHeld for a live one.
	Unlock() error
}

// Searcher runs point-in-time searches over committed documents.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*Result, error)
}

// Writer mutates the index. Pending changes are invisible to searches until
// Flush or Commit. A writer must be closed; Close discards unflushed changes.
type Writer interface {
	Add(r *record.Record) error
	DeleteTerm(field, term string) error
	DeleteAll() error
	Flush() error
	Commit() error
	Rollback() error
	Close() error
}

// Analyzer exposes the backend's named text analyzers.
type Analyzer interface {
	HasAnalyzer(name string) bool
	Tokens(analyzer, text string) ([]string, error)
	Terms(analyzer, text string) ([]string, error)
	StopWords(analyzer string) (map[string]bool, error)
}

// Highlighter computes at most limit best fragments of raw for field.
type Highlighter interface {
	Fragments(field, raw string, limit int) []string
}

// HighlighterFactory binds a highlighter to the term locations of one hit.
type HighlighterFactory interface {
	ForHit(h *Hit) Highlighter
}

// Query is a backend search request.
type Query struct {
	Query query.Query
	// Type restricts hits to one type identity when non-empty.
	Type string
	// Analyzer analyzes match and query string terms that name no analyzer
	// of their own. Empty leaves the index default.
	Analyzer string
	SortBy   []string
	Size     int
	// Locations requests term locations for highlighting.
	Locations bool
}

// Result is the output of a search.
type Result struct {
	// Total counts every match, not only the returned hits.
	Total uint64
	Hits  []Hit
}

// Hit is a single scored document.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]any
	// Match is the backend's native hit, used by highlighters.
	Match any
}
