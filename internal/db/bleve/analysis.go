package bleve

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/kailas-cloud/textdex/internal/db"
)

// KeywordAnalyzer indexes a value verbatim as a single term.
const KeywordAnalyzer = "keyword"

// DefaultAnalyzer is used when no analyzer is configured.
const DefaultAnalyzer = "standard"

// stopMaps names the default stop-word token map per analyzer language.
var stopMaps = map[string]string{
	"standard":      en.StopName,
	"simple":        en.StopName,
	en.AnalyzerName: en.StopName,
}

// Analysis resolves named analyzers from bleve's registry.
type Analysis struct {
	cache *registry.Cache
	// keeping holds stop-word preserving variants, keyed by analyzer name.
	keeping sync.Map
}

// NewAnalysis creates an analyzer resolver with its own registry cache.
func NewAnalysis() *Analysis {
	return &Analysis{cache: registry.NewCache()}
}

var _ db.Analyzer = (*Analysis)(nil)

// HasAnalyzer reports whether name resolves to a registered analyzer.
func (a *Analysis) HasAnalyzer(name string) bool {
	if name == "" {
		return false
	}
	_, err := a.cache.AnalyzerNamed(name)
	return err == nil
}

func (a *Analysis) analyzer(name string) (analysis.Analyzer, error) {
	an, err := a.cache.AnalyzerNamed(name)
	if err != nil {
		return nil, &db.Error{Op: db.OpAnalyze, Err: fmt.Errorf("%w: %q", db.ErrUnknownAnalyzer, name)}
	}
	return an, nil
}

// Tokens runs text through the named analyzer and returns the terms in order.
func (a *Analysis) Tokens(analyzer, text string) ([]string, error) {
	an, err := a.analyzer(analyzer)
	if err != nil {
		return nil, err
	}
	stream := an.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms, nil
}

// Terms is Tokens with the analyzer's stop-word filters left out, so stop
// words come through like any other term.
func (a *Analysis) Terms(analyzer, text string) ([]string, error) {
	an, err := a.keepingStopWords(analyzer)
	if err != nil {
		return nil, err
	}
	stream := an.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms, nil
}

func (a *Analysis) keepingStopWords(name string) (analysis.Analyzer, error) {
	if an, ok := a.keeping.Load(name); ok {
		return an.(analysis.Analyzer), nil
	}
	an, err := a.analyzer(name)
	if err != nil {
		return nil, err
	}
	if da, ok := an.(*analysis.DefaultAnalyzer); ok {
		filters := make([]analysis.TokenFilter, 0, len(da.TokenFilters))
		for _, f := range da.TokenFilters {
			if _, isStop := f.(*stop.StopTokensFilter); isStop {
				continue
			}
			filters = append(filters, f)
		}
		an = &analysis.DefaultAnalyzer{
			CharFilters:  da.CharFilters,
			Tokenizer:    da.Tokenizer,
			TokenFilters: filters,
		}
	}
	actual, _ := a.keeping.LoadOrStore(name, an)
	return actual.(analysis.Analyzer), nil
}

// StopWords returns the default stop words for the analyzer's language.
// Analyzers without a known language have none.
func (a *Analysis) StopWords(analyzer string) (map[string]bool, error) {
	name, ok := stopMaps[analyzer]
	if !ok {
		return map[string]bool{}, nil
	}
	tm, err := a.cache.TokenMapNamed(name)
	if err != nil {
		return nil, &db.Error{Op: db.OpAnalyze, Err: err}
	}
	return tm, nil
}
