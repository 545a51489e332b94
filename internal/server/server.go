// Package server exposes the recon pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/ethrpc"
	"github.com/hexscope/contract-recon/internal/siglookup"
)

// Server routes analysis requests onto a shared RPC client. Signature
// lookup state is rebuilt per request so no run sees another's cache.
type Server struct {
	cfg    config.Settings
	lggr   *zap.SugaredLogger
	client *ethrpc.Client
	router *chi.Mux
}

func New(cfg config.Settings, lggr *zap.SugaredLogger, client *ethrpc.Client) *Server {
	s := &Server{
		cfg:    cfg,
		lggr:   lggr,
		client: client,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/analyze/{address}", s.handleAnalyze)
		r.Get("/selectors/{address}", s.handleSelectors)
		r.Get("/proxy/{address}", s.handleProxy)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.lggr.Infow("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// newSigSource builds a fresh resolver so every request starts with an
// empty signature cache.
func (s *Server) newSigSource() *siglookup.Resolver {
	httpTimeout := time.Duration(s.cfg.HTTPTimeoutMS) * time.Millisecond
	var primary, fallback *siglookup.Client
	if s.cfg.SigLookupURL != "" {
		primary = siglookup.NewClient(s.cfg.SigLookupURL, httpTimeout)
	}
	if s.cfg.SigLookupFallback != "" {
		fallback = siglookup.NewClient(s.cfg.SigLookupFallback, httpTimeout)
	}
	return siglookup.NewResolver(s.lggr, primary, fallback)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
