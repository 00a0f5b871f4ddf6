// Package server exposes the dashboard data over an HTTP JSON API.
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

	"kabu-dashboard/internal/config"
	"kabu-dashboard/internal/loader"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/sector"
)

// Config holds server construction parameters.
type Config struct {
	Port    int
	Log     zerolog.Logger
	Loader  *loader.Lazy
	Sector  *sector.Aggregator
	AppCfg  *config.Config
	DevMode bool
}

// Server represents the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	loader *loader.Lazy
	sector *sector.Aggregator
	cfg    *config.Config
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    logging.WithComponent(cfg.Log, "server"),
		loader: cfg.Loader,
		sector: cfg.Sector,
		cfg:    cfg.AppCfg,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	readTimeout := 15 * time.Second
	writeTimeout := 15 * time.Second
	if cfg.AppCfg != nil {
		readTimeout = cfg.AppCfg.Server.ReadTimeout
		writeTimeout = cfg.AppCfg.Server.WriteTimeout
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/tickers", func(r chi.Router) {
			r.Get("/", s.handleListTickers)
			r.Get("/search", s.handleSearchTickers)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Get("/", s.handleTickerDetail)
				r.Get("/prices", s.handlePrices)
				r.Get("/technical", s.handleTechnical)
				r.Get("/financials/{kind}", s.handleFinancials)
				r.Get("/dividends", s.handleDividends)
				r.Get("/news", s.handleNews)

				r.Route("/charts", func(r chi.Router) {
					r.Get("/candlestick", s.handleCandlestickChart)
					r.Get("/line", s.handleLineChart)
					r.Get("/technical", s.handleTechnicalChart)
					r.Get("/financials/{kind}", s.handleFinancialsChart)
					r.Get("/dividends", s.handleDividendChart)
					r.Get("/sentiment", s.handleSentimentChart)
				})
			})
		})

		r.Route("/sector", func(r chi.Router) {
			r.Get("/", s.handleSector)
			r.Get("/performance", s.handleSectorPerformance)
			r.Get("/industries", s.handleIndustries)
			r.Get("/summary", s.handleSectorSummary)
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", s.handleCacheStats)
			r.Delete("/", s.handleCacheClear)
		})
	})
}

// loggingMiddleware logs each request with its duration and puts a
// request-scoped logger on the context for handlers.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqLog := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		r = r.WithContext(logging.WithLogger(r.Context(), reqLog))

		next.ServeHTTP(ww, r)

		reqLog.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
