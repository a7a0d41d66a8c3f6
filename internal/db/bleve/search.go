package bleve

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Search runs q against the committed documents. A type filter is conjoined
// with zero boost so it narrows hits without changing their scores.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.Result, error) {
	var bq query.Query = bleve.NewMatchAllQuery()
	if q.Query != nil {
		rq, err := withAnalyzer(q.Query, q.Analyzer)
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		bq = rq
	}
	if q.Type != "" {
		tq := bleve.NewTermQuery(q.Type)
		tq.SetField(record.TypeField)
		tq.SetBoost(0)
		bq = bleve.NewConjunctionQuery(bq, tq)
	}

	req := bleve.NewSearchRequestOptions(bq, q.Size, 0, false)
	req.Fields = []string{"*"}
	req.IncludeLocations = q.Locations
	if len(q.SortBy) > 0 {
		req.SortBy(q.SortBy)
	}

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	out := &db.Result{Total: res.Total, Hits: make([]db.Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		out.Hits = append(out.Hits, db.Hit{
			ID:     h.ID,
			Score:  h.Score,
			Fields: h.Fields,
			Match:  h,
		})
	}
	return out, nil
}

// matchIDs returns the IDs of every committed document matching q.
func (s *Store) matchIDs(ctx context.Context, q query.Query) ([]string, error) {
	n, err := s.idx.DocCount()
	if err != nil {
		return nil, fmt.Errorf("doc count: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(q, int(n), 0, false) //nolint:gosec // doc counts fit in int
	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
