package bleve

import (
	"github.com/blevesearch/bleve/v2/search/query"
)

// withAnalyzer returns q with every analyzed leaf that has no analyzer of its
// own bound to analyzer. Query strings are parsed and rewritten the same way.
// Composite queries are copied, never modified in place.
func withAnalyzer(q query.Query, analyzer string) (query.Query, error) {
	if q == nil || analyzer == "" {
		return q, nil
	}
	switch t := q.(type) {
	case *query.MatchQuery:
		if t.Analyzer != "" {
			return t, nil
		}
		c := *t
		c.Analyzer = analyzer
		return &c, nil
	case *query.MatchPhraseQuery:
		if t.Analyzer != "" {
			return t, nil
		}
		c := *t
		c.Analyzer = analyzer
		return &c, nil
	case *query.QueryStringQuery:
		parsed, err := t.Parse()
		if err != nil {
			return nil, err
		}
		return withAnalyzer(parsed, analyzer)
	case *query.ConjunctionQuery:
		c := *t
		qs, err := rewriteAll(t.Conjuncts, analyzer)
		if err != nil {
			return nil, err
		}
		c.Conjuncts = qs
		return &c, nil
	case *query.DisjunctionQuery:
		c := *t
		qs, err := rewriteAll(t.Disjuncts, analyzer)
		if err != nil {
			return nil, err
		}
		c.Disjuncts = qs
		return &c, nil
	case *query.BooleanQuery:
		c := *t
		var err error
		for _, part := range []*query.Query{&c.Must, &c.Should, &c.MustNot, &c.Filter} {
			if *part == nil {
				continue
			}
			if *part, err = withAnalyzer(*part, analyzer); err != nil {
				return nil, err
			}
		}
		return &c, nil
	}
	return q, nil
}

func rewriteAll(qs []query.Query, analyzer string) ([]query.Query, error) {
	out := make([]query.Query, len(qs))
	for i, q := range qs {
		r, err := withAnalyzer(q, analyzer)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
