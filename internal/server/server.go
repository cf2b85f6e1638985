package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/store"
	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/track"
)

const (
	// maxRequestBytes caps analysis request bodies; corpus text for
	// neologism detection is the largest legitimate payload.
	maxRequestBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server exposes the analysis orchestrator over HTTP for the interactive
// front end. It serves JSON only; chart rendering and widgets stay with the
// external UI.
type Server struct {
	addr    string
	tracker *track.Tracker
	store   *store.Store // nil when history is disabled
	logger  *zap.Logger
}

// NewServer creates a server. A nil store disables the history endpoints;
// a nil logger falls back to a no-op logger.
func NewServer(addr string, tracker *track.Tracker, st *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:    addr,
		tracker: tracker,
		store:   st,
		logger:  logger,
	}
}

// Handler returns the API routing table. Exposed so tests can drive the
// server without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/neologisms", s.handleNeologisms)
	mux.HandleFunc("GET /api/terms", s.handleListTerms)
	mux.HandleFunc("GET /api/terms/{term}", s.handleGetTerm)
	mux.HandleFunc("GET /api/terms/{term}/timeline", s.handleGetTimeline)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully, letting
// in-flight analyses finish.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// statusWriter captures the response status for request logging
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an ID and logs its outcome
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}
