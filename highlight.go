package textdex

import (
	"strings"

	"github.com/kailas-cloud/textdex/internal/db"
)

// Highlighter computes the best fragments of a field value for one hit.
type Highlighter = db.Highlighter

// Preview renders raw with matched terms highlighted. It returns raw
// unchanged when h is nil or no fragment of raw matches. Otherwise at most
// maxFragments fragments are trimmed and joined with newlines.
func Preview(raw, field string, maxFragments int, h Highlighter) string {
	if h == nil || raw == "" {
		return raw
	}
	frags := h.Fragments(field, raw, maxFragments)
	if len(frags) == 0 {
		return raw
	}
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return raw
	}
	return strings.Join(out, "\n")
}
