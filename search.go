package textdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// SearchRequest describes one search. Paging and the score threshold apply
// to the MaxHits best hits after the backend returns them.
type SearchRequest struct {
	// Query defaults to matching every document.
	Query Query
	// MaxHits caps the hits fetched from the index. Must be positive.
	MaxHits int
	Skip    int
	// Take limits the returned results; zero returns all remaining.
	Take int
	// MinScore drops hits scoring below it.
	MinScore float64
	// OrderBy lists sort fields, "-" prefixed for descending. "_score"
	// sorts by relevance. Empty means relevance, best first.
	OrderBy []string
	// OnlyTyped restricts hits to documents written for the searched type.
	OnlyTyped bool
	// NoHighlight skips highlight previews.
	NoHighlight bool
	// PreTag and PostTag override the engine's highlight tags.
	PreTag  string
	PostTag string
}

// Execute runs req and decodes the hits into T.
func (idx *TypedIndex[T]) Execute(ctx context.Context, req *SearchRequest) (rs *ResultSet[T], err error) {
	defer func(start time.Time) { idx.engine.obs.observe(opSearch, start, err) }(time.Now())

	var typ string
	if req != nil && req.OnlyTyped {
		typ = idx.meta.typeName
	}
	highlight := req != nil && !req.NoHighlight && len(idx.meta.highlighted) > 0

	res, store, err := idx.engine.runSearch(ctx, req, typ, highlight)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rs = &ResultSet[T]{TotalHits: res.Total, Results: []ScoredResult[T]{}}
	if res.Total == 0 {
		return rs, nil
	}

	var hf db.HighlighterFactory
	if highlight {
		hf = idx.engine.highlighterFactory(store, req)
	}

	hits := pageHits(res.Hits, req)
	rs.Results = make([]ScoredResult[T], 0, len(hits))
	for i := range hits {
		h := &hits[i]
		rec := record.FromStored(h.Fields)
		item, err := idx.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("search: decode %s: %w", h.ID, err)
		}
		sr := ScoredResult[T]{Data: item, Score: h.Score, DocID: h.ID}
		if hf != nil {
			sr.Highlights = idx.highlights(rec, hf.ForHit(h))
		}
		rs.Results = append(rs.Results, sr)
	}
	return rs, nil
}

func (idx *TypedIndex[T]) highlights(rec *Record, hl Highlighter) map[string]string {
	out := make(map[string]string, len(idx.meta.highlighted))
	for _, pos := range idx.meta.highlighted {
		spec := &idx.meta.specs[pos]
		raw, ok := rec.Get(spec.Name)
		if !ok {
			continue
		}
		out[spec.Name] = Preview(raw, spec.Name, spec.HighlightFragments, hl)
	}
	return out
}

// SearchDocuments runs req without decoding: hits come back as their stored
// fields in text form. A non-empty typ restricts hits to that type identity;
// req.OnlyTyped is ignored. Each field in highlight gets a one-fragment
// preview.
func (e *Engine) SearchDocuments(
	ctx context.Context, req *SearchRequest, typ string, highlight ...string,
) (rs *ResultSet[Document], err error) {
	defer func(start time.Time) { e.obs.observe(opSearch, start, err) }(time.Now())

	doHighlight := req != nil && !req.NoHighlight && len(highlight) > 0
	res, store, err := e.runSearch(ctx, req, typ, doHighlight)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	rs = &ResultSet[Document]{TotalHits: res.Total, Results: []ScoredResult[Document]{}}
	if res.Total == 0 {
		return rs, nil
	}

	var hf db.HighlighterFactory
	if doHighlight {
		hf = e.highlighterFactory(store, req)
	}

	hits := pageHits(res.Hits, req)
	rs.Results = make([]ScoredResult[Document], 0, len(hits))
	for i := range hits {
		h := &hits[i]
		rec := record.FromStored(h.Fields)
		doc := Document{Type: rec.Type, Fields: make(map[string]string, rec.Len())}
		for _, f := range rec.Fields() {
			doc.Fields[f.Name] = f.Value.String()
		}
		sr := ScoredResult[Document]{Data: doc, Score: h.Score, DocID: h.ID}
		if hf != nil {
			hl := hf.ForHit(h)
			sr.Highlights = make(map[string]string, len(highlight))
			for _, field := range highlight {
				if raw, ok := doc.Fields[field]; ok {
					sr.Highlights[field] = Preview(raw, field, 1, hl)
				}
			}
		}
		rs.Results = append(rs.Results, sr)
	}
	return rs, nil
}

// runSearch validates req and runs it against the active store.
func (e *Engine) runSearch(
	ctx context.Context, req *SearchRequest, typ string, locations bool,
) (*db.Result, db.Store, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("%w: nil request", ErrInvalidArgument)
	}
	if req.MaxHits <= 0 {
		return nil, nil, fmt.Errorf("%w: max hits must be positive, got %d", ErrInvalidArgument, req.MaxHits)
	}
	if req.Skip < 0 || req.Take < 0 {
		return nil, nil, fmt.Errorf("%w: negative skip or take", ErrInvalidArgument)
	}

	store, analyzer, release, err := e.active()
	if err != nil {
		return nil, nil, err
	}
	defer release()
	res, err := store.Search(ctx, &db.Query{
		Query:     req.Query,
		Type:      typ,
		Analyzer:  analyzer,
		SortBy:    req.OrderBy,
		Size:      req.MaxHits,
		Locations: locations,
	})
	if err != nil {
		return nil, nil, err
	}
	return res, store, nil
}

func (e *Engine) highlighterFactory(store db.Store, req *SearchRequest) db.HighlighterFactory {
	pre, post := e.cfg.preTag, e.cfg.postTag
	if req.PreTag != "" || req.PostTag != "" {
		pre, post = req.PreTag, req.PostTag
	}
	return store.NewHighlighterFactory(pre, post)
}

// pageHits drops hits below the score threshold, then applies skip/take.
func pageHits(hits []db.Hit, req *SearchRequest) []db.Hit {
	kept := make([]db.Hit, 0, len(hits))
	for _, h := range hits {
		if h.Score >= req.MinScore {
			kept = append(kept, h)
		}
	}
	if req.Skip >= len(kept) {
		return nil
	}
	kept = kept[req.Skip:]
	if req.Take > 0 && req.Take < len(kept) {
		kept = kept[:req.Take]
	}
	return kept
}
