package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kailas-cloud/textdex"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeIndexLocked  = "index_locked"
	codeUnavailable  = "unavailable"
	codeInternal     = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// IndexInfoResponse describes one index directory.
type IndexInfoResponse struct {
	Path                 string    `json:"path"`
	DocCount             uint64    `json:"doc_count"`
	CreatedAt            time.Time `json:"created_at"`
	AccessedAt           time.Time `json:"accessed_at"`
	ModifiedAt           time.Time `json:"modified_at"`
	SizeBytes            int64     `json:"size_bytes"`
	VolumeTotalBytes     uint64    `json:"volume_total_bytes"`
	VolumeFreeBytes      uint64    `json:"volume_free_bytes"`
	VolumeAvailableBytes uint64    `json:"volume_available_bytes"`
}

// IndexListResponse is the body of GET /indexes.
type IndexListResponse struct {
	Indexes []IndexInfoResponse `json:"indexes"`
}

// SearchRequest is the body of POST /search. Query uses query-string syntax;
// an empty query matches every document.
type SearchRequest struct {
	Query     string   `json:"query"`
	Type      string   `json:"type,omitempty"`
	MaxHits   *int     `json:"max_hits,omitempty"`
	Skip      int      `json:"skip,omitempty"`
	Take      int      `json:"take,omitempty"`
	MinScore  float64  `json:"min_score,omitempty"`
	OrderBy   []string `json:"order_by,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
	PreTag    string   `json:"pre_tag,omitempty"`
	PostTag   string   `json:"post_tag,omitempty"`
}

// SearchHit is one search result.
type SearchHit struct {
	DocID      string            `json:"doc_id"`
	Score      float64           `json:"score"`
	Type       string            `json:"type,omitempty"`
	Fields     map[string]string `json:"fields"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchResponse is the body of POST /search.
type SearchResponse struct {
	TotalHits uint64      `json:"total_hits"`
	Results   []SearchHit `json:"results"`
}

// KeywordsRequest is the body of POST /keywords.
type KeywordsRequest struct {
	Text             string   `json:"text"`
	DefaultStopWords bool     `json:"default_stop_words,omitempty"`
	StopWords        []string `json:"stop_words,omitempty"`
}

// KeywordsResponse is the body of POST /keywords.
type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// errorHandler tries to handle an engine error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The sentinel text is the client message so wrapped internals stay private.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

var defaultErrorHandlers = []errorHandler{
	sentinelHandler(textdex.ErrInvalidArgument, http.StatusBadRequest, codeBadRequest),
	sentinelHandler(textdex.ErrNotFound, http.StatusNotFound, codeNotFound),
	sentinelHandler(textdex.ErrIndexLocked, http.StatusConflict, codeIndexLocked),
	sentinelHandler(textdex.ErrClosed, http.StatusServiceUnavailable, codeUnavailable),
}

func indexInfoToResponse(info textdex.IndexInfo) IndexInfoResponse {
	return IndexInfoResponse{
		Path:                 info.Path,
		DocCount:             info.DocCount,
		CreatedAt:            info.CreatedAt,
		AccessedAt:           info.AccessedAt,
		ModifiedAt:           info.ModifiedAt,
		SizeBytes:            info.SizeBytes,
		VolumeTotalBytes:     info.VolumeTotalBytes,
		VolumeFreeBytes:      info.VolumeFreeBytes,
		VolumeAvailableBytes: info.VolumeAvailableBytes,
	}
}
