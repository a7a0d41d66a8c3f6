package textdex

import (
	"fmt"
	"time"
)

// Keywords tokenizes text with the active analyzer and returns the distinct
// terms in first-seen order. Stop words are kept unless DefaultStopWords is
// set or they appear in StopWords.
func (e *Engine) Keywords(text string, opts KeywordOptions) (terms []string, err error) {
	defer func(start time.Time) { e.obs.observe(opKeywords, start, err) }(time.Now())

	_, analyzer, release, err := e.active()
	if err != nil {
		return nil, err
	}
	release()
	tokens, err := e.analysis.Terms(analyzer, text)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}

	stop := make(map[string]bool, len(opts.StopWords))
	if opts.DefaultStopWords {
		defaults, err := e.analysis.StopWords(analyzer)
		if err != nil {
			return nil, fmt.Errorf("keywords: %w", err)
		}
		for w := range defaults {
			stop[w] = true
		}
	}
	for _, w := range opts.StopWords {
		// Custom stop words go through the same analysis as the text.
		analyzed, err := e.analysis.Terms(analyzer, w)
		if err != nil {
			return nil, fmt.Errorf("keywords: %w", err)
		}
		for _, a := range analyzed {
			stop[a] = true
		}
		stop[w] = true
	}

	seen := make(map[string]bool, len(tokens))
	terms = make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" || stop[t] || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms, nil
}
