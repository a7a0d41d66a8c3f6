package textdex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Query is a full-text query understood by the index.
type Query = query.Query

// TermQuery matches documents whose field holds exactly term. Use it for
// keyword and identity fields, or a single analyzed token of a text field.
func TermQuery(field, term string) Query {
	q := bleve.NewTermQuery(term)
	q.SetField(field)
	return q
}

// MatchQuery analyzes text and matches any of its terms in field.
func MatchQuery(field, text string) Query {
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	return q
}

// PhraseQuery matches the analyzed phrase in field.
func PhraseQuery(field, phrase string) Query {
	q := bleve.NewMatchPhraseQuery(phrase)
	q.SetField(field)
	return q
}

// QueryString parses the bleve query string syntax, e.g.
// `+Remarks:fishing Name:Wang`. Terms without a field search all fields.
func QueryString(s string) Query {
	return bleve.NewQueryStringQuery(s)
}

// ParseQueryString is QueryString with syntax errors reported up front as
// ErrInvalidArgument.
func ParseQueryString(s string) (Query, error) {
	q := bleve.NewQueryStringQuery(s)
	if _, err := q.Parse(); err != nil {
		return nil, fmt.Errorf("%w: query %q: %w", ErrInvalidArgument, s, err)
	}
	return q, nil
}

// MatchAll matches every document.
func MatchAll() Query {
	return bleve.NewMatchAllQuery()
}

// And matches documents matching every query.
func And(qs ...Query) Query {
	return bleve.NewConjunctionQuery(qs...)
}

// Or matches documents matching any query.
func Or(qs ...Query) Query {
	return bleve.NewDisjunctionQuery(qs...)
}
