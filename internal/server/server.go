// Package server wires the HTTP API: it translates engine results to JSON
// and never reinterprets their semantics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/modules/pricestore"
	"github.com/aristath/hindsight/internal/modules/ranking"
	"github.com/aristath/hindsight/internal/modules/returns"
	"github.com/aristath/hindsight/internal/modules/simulation"
	"github.com/aristath/hindsight/internal/modules/statistics"
	"github.com/aristath/hindsight/internal/modules/trend"
	"github.com/aristath/hindsight/internal/modules/withdrawal"
)

// Server hosts the REST API.
type Server struct {
	store      *pricestore.Store
	simulator  *simulation.Simulator
	stats      *statistics.Calculator
	aggregator *returns.Aggregator
	overlay    *withdrawal.Overlay
	trendSim   *trend.Simulator
	ranker     *ranking.Service
	log        zerolog.Logger
	httpServer *http.Server
}

// New creates a server over the given price store and engine services.
func New(
	store *pricestore.Store,
	simulator *simulation.Simulator,
	stats *statistics.Calculator,
	aggregator *returns.Aggregator,
	overlay *withdrawal.Overlay,
	trendSim *trend.Simulator,
	ranker *ranking.Service,
	log zerolog.Logger,
) *Server {
	return &Server{
		store:      store,
		simulator:  simulator,
		stats:      stats,
		aggregator: aggregator,
		overlay:    overlay,
		trendSim:   trendSim,
		ranker:     ranker,
		log:        log.With().Str("component", "server").Logger(),
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.requestTimer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/tickers", s.handleTickers)

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/portfolio", s.handleSimulatePortfolio)
			r.Post("/portfolio/withdrawals", s.handleSimulateWithdrawals)
			r.Post("/trend", s.handleSimulateTrend)
		})

		r.Route("/rankings", func(r chi.Router) {
			r.Get("/annual", s.handleAnnualRanking)
			r.Get("/trailing", s.handleTrailingRanking)
		})
	})

	return r
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", port).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
