package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/store"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

// analyzeRequest is the POST /api/analyze body
type analyzeRequest struct {
	Term         string              `json:"term"`
	Domain       string              `json:"domain,omitempty"`
	Periods      []string            `json:"periods,omitempty"`
	Observations []model.Observation `json:"observations,omitempty"`
	Bilingual    bool                `json:"bilingual"`
	NoCache      bool                `json:"no_cache,omitempty"`
}

// compareRequest is the POST /api/compare body
type compareRequest struct {
	Terms     []string `json:"terms"`
	Domain    string   `json:"domain,omitempty"`
	Bilingual bool     `json:"bilingual"`
	NoCache   bool     `json:"no_cache,omitempty"`
}

// neologismRequest is the POST /api/neologisms body
type neologismRequest struct {
	Text            string `json:"text"`
	Domain          string `json:"domain,omitempty"`
	ReferencePeriod string `json:"reference_period,omitempty"`
	Bilingual       bool   `json:"bilingual"`
	NoCache         bool   `json:"no_cache,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	rec, err := s.tracker.Analyze(r.Context(), track.AnalyzeRequest{
		Term:         req.Term,
		Domain:       req.Domain,
		Periods:      req.Periods,
		Observations: req.Observations,
		Bilingual:    req.Bilingual,
		NoCache:      req.NoCache,
	})
	if errors.Is(err, track.ErrMissingCredential) {
		// Without a credential the front end still gets the built-in
		// demo catalog.
		if demo, ok := track.DemoRecord(req.Term); ok {
			s.logger.Info("serving demo record", zap.String("term", req.Term))
			s.writeJSON(w, http.StatusOK, demo)
			return
		}
	}
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.archive(r.Context(), rec)
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	rep, err := s.tracker.Compare(r.Context(), track.CompareRequest{
		Terms:     req.Terms,
		Domain:    req.Domain,
		Bilingual: req.Bilingual,
		NoCache:   req.NoCache,
	})
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleNeologisms(w http.ResponseWriter, r *http.Request) {
	var req neologismRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	rep, err := s.tracker.DetectNeologisms(r.Context(), track.NeologismRequest{
		Text:            req.Text,
		Domain:          req.Domain,
		ReferencePeriod: req.ReferencePeriod,
		Bilingual:       req.Bilingual,
		NoCache:         req.NoCache,
	})
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history_disabled", "history store is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	summaries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}

	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, track.Timeline(rec))
}

// lookupRecord finds the latest record for the path's term: history first,
// demo catalog second. Writes the error response when nothing matches.
func (s *Server) lookupRecord(w http.ResponseWriter, r *http.Request) (*model.TermRecord, bool) {
	term := r.PathValue("term")
	domain := r.URL.Query().Get("domain")

	if s.store != nil {
		rec, err := s.store.GetLatest(r.Context(), term, domain)
		if err == nil {
			return rec, true
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusInternalServerError, "store_error", err.Error())
			return nil, false
		}
	}

	if rec, ok := track.DemoRecord(term); ok {
		return rec, true
	}

	s.writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no analysis found for %q", term))
	return nil, false
}

// healthResponse is the GET /healthz body
type healthResponse struct {
	Status            string `json:"status"`
	Provider          string `json:"provider,omitempty"`
	ProviderAvailable bool   `json:"provider_available"`
	Store             string `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:            "ok",
		Provider:          s.tracker.ProviderName(),
		ProviderAvailable: s.tracker.Available(ctx),
		Store:             "disabled",
	}
	if s.store != nil {
		resp.Store = "ok"
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// archive saves a completed analysis to the history store. Failures are
// logged, not surfaced: the analysis itself succeeded.
func (s *Server) archive(ctx context.Context, rec *model.TermRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Warn("archive analysis", zap.String("term", rec.Term), zap.Error(err))
	}
}

// decodeBody decodes a JSON request body, writing the 400 response on
// failure. The body size is capped at maxRequestBytes.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// errorResponse is the JSON error body for every non-2xx response
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeAnalysisError maps orchestrator errors onto HTTP statuses:
// empty input 400, missing credential 503, upstream failure 502.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, track.ErrEmptyInput):
		s.writeError(w, http.StatusBadRequest, "empty_input", err.Error())
	case errors.Is(err, track.ErrMissingCredential):
		s.writeError(w, http.StatusServiceUnavailable, "missing_credential", err.Error())
	case errors.Is(err, track.ErrUpstream):
		s.writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, detail string) {
	s.writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}

// writeJSON writes v with HTML escaping off so Traditional Chinese output
// reaches the front end readably.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}
