// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analytics store and detectors as a JSON HTTP
// API for the dashboard frontend.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pdiddy/sentiment-engine/internal/pipeline"
	"github.com/pdiddy/sentiment-engine/internal/store"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// Analyzer runs the analysis pipeline over a batch of texts.
type Analyzer interface {
	Analyze(ctx context.Context, texts []string, facts []types.VerifiedFact, w io.Writer) (pipeline.BatchResult, error)
}

// Server is the dashboard HTTP API.
type Server struct {
	server *http.Server
	router *chi.Mux
}

// New builds the router and HTTP server. The analyzer may be nil, which
// disables the analyze endpoint.
func New(cfg types.ServerConfig, st *store.Store, analyzer Analyzer, trendsCfg types.TrendsConfig) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := &handler{store: st, analyzer: analyzer, trends: trendsCfg}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/analyze", h.analyze)
			r.Get("/overview", h.overview)
			r.Get("/topics", h.topics)
			r.Get("/concerns", h.concerns)
			r.Get("/spikes", h.spikes)
			r.Route("/insights", func(r chi.Router) {
				r.Get("/demographics", h.demographicInsights)
				r.Get("/geographic", h.geographicInsights)
			})
			r.Get("/recommendations", h.recommendations)
			r.Get("/alerts", h.alerts)
			r.Post("/records", h.importRecords)
		})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{server: httpServer, router: router}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
