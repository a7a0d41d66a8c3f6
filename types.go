package textdex

import "time"

// ScoredResult is a decoded search hit.
type ScoredResult[T any] struct {
	Data  T
	Score float64
	// DocID is the backend document handle. It changes when the document is
	// updated and must not be used as a stable key.
	DocID string
	// Highlights maps highlighted field names to rendered previews.
	Highlights map[string]string
}

// ResultSet is one page of search results.
type ResultSet[T any] struct {
	Results []ScoredResult[T]
	// TotalHits counts every match before score filtering and paging.
	TotalHits uint64
}

// Document is an untyped hit: its type identity and stored fields as text.
type Document struct {
	Type   string
	Fields map[string]string
}

// Update replaces the documents whose Field equals Key with Item.
type Update[T any] struct {
	Field string
	Key   string
	Item  T
}

// IndexInfo is a point-in-time snapshot of one index directory.
type IndexInfo struct {
	Path       string
	DocCount   uint64
	CreatedAt  time.Time
	AccessedAt time.Time
	ModifiedAt time.Time
	SizeBytes  int64

	VolumeTotalBytes     uint64
	VolumeFreeBytes      uint64
	VolumeAvailableBytes uint64
}

// KeywordOptions controls keyword extraction.
type KeywordOptions struct {
	// DefaultStopWords drops the analyzer language's stop words.
	DefaultStopWords bool
	// StopWords are dropped in addition, compared after analysis.
	StopWords []string
}
