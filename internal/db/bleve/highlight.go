package bleve

import (
	"github.com/blevesearch/bleve/v2/document"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/highlight/format/html"
	simplefrag "github.com/blevesearch/bleve/v2/search/highlight/fragmenter/simple"
	simplehl "github.com/blevesearch/bleve/v2/search/highlight/highlighter/simple"

	"github.com/kailas-cloud/textdex/internal/db"
)

// FragmentSize is the maximum length of one highlighted fragment.
const FragmentSize = 200

type highlighterFactory struct {
	hl *simplehl.Highlighter
}

// NewHighlighterFactory returns highlighters that wrap matched terms in the
// given tags.
func (s *Store) NewHighlighterFactory(pre, post string) db.HighlighterFactory {
	return &highlighterFactory{
		hl: simplehl.NewHighlighter(
			simplefrag.NewFragmenter(FragmentSize),
			html.NewFragmentFormatter(pre, post),
			"",
		),
	}
}

func (f *highlighterFactory) ForHit(h *db.Hit) db.Highlighter {
	dm, ok := h.Match.(*search.DocumentMatch)
	if !ok || dm == nil {
		return nil
	}
	return &hitHighlighter{hl: f.hl, dm: dm}
}

// hitHighlighter scores fragments of a raw value using the term locations
// recorded for one hit.
type hitHighlighter struct {
	hl *simplehl.Highlighter
	dm *search.DocumentMatch
}

func (h *hitHighlighter) Fragments(field, raw string, limit int) []string {
	if len(h.dm.Locations[field]) == 0 {
		return nil
	}
	doc := document.NewDocument(h.dm.ID)
	doc.AddField(document.NewTextField(field, nil, []byte(raw)))
	return h.hl.BestFragmentsInField(h.dm, doc, field, limit)
}
