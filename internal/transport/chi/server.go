package chi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex"
	logpkg "github.com/kailas-cloud/textdex/internal/logger"
	"github.com/kailas-cloud/textdex/internal/metrics"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// Server serves the textdex admin API.
type Server struct {
	engine         Engine
	health         HealthChecker
	defaultMaxHits int
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. defaultMaxHits applies to searches
// that don't set max_hits.
func NewServer(engine Engine, health HealthChecker, defaultMaxHits int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:         engine,
		health:         health,
		defaultMaxHits: defaultMaxHits,
		logger:         logger,
		errorHandlers:  defaultErrorHandlers,
	}
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/indexes", s.ListIndexes)
	r.Get("/indexes/current", s.CurrentIndex)
	r.Post("/search", s.Search)
	r.Post("/keywords", s.Keywords)
	r.Delete("/documents/{field}/{key}", s.DeleteDocuments)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListIndexes handles GET /indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	infos, err := s.engine.IndexInfos(r.Context())
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}

	resp := IndexListResponse{Indexes: make([]IndexInfoResponse, 0, len(infos))}
	for _, info := range infos {
		metrics.ObserveIndex(info.Path, info.DocCount, info.SizeBytes, info.VolumeAvailableBytes)
		resp.Indexes = append(resp.Indexes, indexInfoToResponse(info))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CurrentIndex handles GET /indexes/current.
func (s *Server) CurrentIndex(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.CurrentIndexInfo(r.Context())
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	metrics.ObserveIndex(info.Path, info.DocCount, info.SizeBytes, info.VolumeAvailableBytes)
	writeJSON(w, http.StatusOK, indexInfoToResponse(info))
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if !s.decode(w, r, &body) {
		return
	}

	req, err := s.searchRequest(&body)
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}

	rs, err := s.engine.SearchDocuments(r.Context(), req, body.Type, body.Highlight...)
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}

	resp := SearchResponse{TotalHits: rs.TotalHits, Results: make([]SearchHit, 0, len(rs.Results))}
	for _, res := range rs.Results {
		resp.Results = append(resp.Results, SearchHit{
			DocID:      res.DocID,
			Score:      res.Score,
			Type:       res.Data.Type,
			Fields:     res.Data.Fields,
			Highlights: res.Highlights,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchRequest(body *SearchRequest) (*textdex.SearchRequest, error) {
	req := &textdex.SearchRequest{
		MaxHits:     s.defaultMaxHits,
		Skip:        body.Skip,
		Take:        body.Take,
		MinScore:    body.MinScore,
		OrderBy:     body.OrderBy,
		NoHighlight: len(body.Highlight) == 0,
		PreTag:      body.PreTag,
		PostTag:     body.PostTag,
	}
	if body.MaxHits != nil {
		req.MaxHits = *body.MaxHits
	}
	if strings.TrimSpace(body.Query) != "" {
		q, err := textdex.ParseQueryString(body.Query)
		if err != nil {
			return nil, err
		}
		req.Query = q
	}
	return req, nil
}

// Keywords handles POST /keywords.
func (s *Server) Keywords(w http.ResponseWriter, r *http.Request) {
	var body KeywordsRequest
	if !s.decode(w, r, &body) {
		return
	}

	terms, err := s.engine.Keywords(body.Text, textdex.KeywordOptions{
		DefaultStopWords: body.DefaultStopWords,
		StopWords:        body.StopWords,
	})
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, KeywordsResponse{Keywords: terms})
}

// DeleteDocuments handles DELETE /documents/{field}/{key}.
func (s *Server) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	key := chi.URLParam(r, "key")
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "key is required")
		return
	}

	if err := s.engine.DeleteDocuments(r.Context(), field, []string{key}); err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
