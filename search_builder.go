package textdex

import "context"

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]
	req SearchRequest
}

// Search returns a fluent search builder for this index. It starts with the
// engine's default hit cap and matches every document.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{
		idx: idx,
		req: SearchRequest{MaxHits: idx.engine.cfg.maxHits},
	}
}

// Query sets the query.
func (b *SearchBuilder[T]) Query(q Query) *SearchBuilder[T] {
	b.req.Query = q
	return b
}

// Term queries an exact term in field.
func (b *SearchBuilder[T]) Term(field, term string) *SearchBuilder[T] {
	b.req.Query = TermQuery(field, term)
	return b
}

// Match queries the analyzed text in field.
func (b *SearchBuilder[T]) Match(field, text string) *SearchBuilder[T] {
	b.req.Query = MatchQuery(field, text)
	return b
}

// MaxHits sets the number of hits fetched from the index.
func (b *SearchBuilder[T]) MaxHits(n int) *SearchBuilder[T] {
	b.req.MaxHits = n
	return b
}

// Skip drops the first n hits that pass the score threshold.
func (b *SearchBuilder[T]) Skip(n int) *SearchBuilder[T] {
	b.req.Skip = n
	return b
}

// Take limits the number of results.
func (b *SearchBuilder[T]) Take(n int) *SearchBuilder[T] {
	b.req.Take = n
	return b
}

// MinScore drops hits scoring below s.
func (b *SearchBuilder[T]) MinScore(s float64) *SearchBuilder[T] {
	b.req.MinScore = s
	return b
}

// OrderBy sets the sort fields ("-" prefix for descending).
func (b *SearchBuilder[T]) OrderBy(fields ...string) *SearchBuilder[T] {
	b.req.OrderBy = fields
	return b
}

// OnlyTyped restricts hits to documents written for T.
func (b *SearchBuilder[T]) OnlyTyped() *SearchBuilder[T] {
	b.req.OnlyTyped = true
	return b
}

// Highlight sets the tags wrapped around matched terms.
func (b *SearchBuilder[T]) Highlight(pre, post string) *SearchBuilder[T] {
	b.req.NoHighlight = false
	b.req.PreTag = pre
	b.req.PostTag = post
	return b
}

// NoHighlight disables highlight previews.
func (b *SearchBuilder[T]) NoHighlight() *SearchBuilder[T] {
	b.req.NoHighlight = true
	return b
}

// Request returns a copy of the request built so far.
func (b *SearchBuilder[T]) Request() SearchRequest {
	return b.req
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (*ResultSet[T], error) {
	req := b.req
	return b.idx.Execute(ctx, &req)
}
