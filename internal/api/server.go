// Package api exposes the REST surface consumed by the flight-tracking
// map UI: a live flights list, a per-flight detail view, and a health
// probe. Both data endpoints follow an "always answer, degrade
// gracefully" policy — upstream failures, malformed filters, and partial
// payloads reduce the response, they never turn it into an error.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ucasa/flighttrack/pkg/config"
	"github.com/ucasa/flighttrack/pkg/geo"
	"github.com/ucasa/flighttrack/pkg/model"
)

// StateSource provides live state vectors, optionally bounded.
type StateSource interface {
	States(ctx context.Context, bbox *geo.BoundingBox) ([]model.FlightState, error)
}

// DetailSource provides per-flight enrichment by opaque provider id.
type DetailSource interface {
	FlightDetail(ctx context.Context, flightID string) (*model.Enrichment, error)
}

// PhotoSource resolves an aircraft photo by hex address. Implementations
// return a not-found result rather than an error.
type PhotoSource interface {
	PhotoByHex(ctx context.Context, icao24 string) model.Photo
}

// Server holds the HTTP router and its injected collaborators. There is
// no shared mutable state: every request composes fresh results from the
// upstream clients.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	states StateSource
	detail DetailSource // nil when the provider has no detail endpoint
	photos PhotoSource
	now    func() time.Time
}

// NewServer wires the handlers to the given upstream clients. detail may
// be nil (the public provider has no per-flight detail endpoint).
func NewServer(cfg *config.Config, states StateSource, detail DetailSource, photos PhotoSource) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		states: states,
		detail: detail,
		photos: photos,
		now:    time.Now,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures middleware and all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	// CORS for the map UI
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: s.cfg.CORS.AllowCredentials,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/flights", s.handleListFlights)
		r.Get("/flights/{icao24}", s.handleFlightDetail)
	})
}
