// Flight Tracker Backend
// Aggregates live aircraft state vectors for the map UI and enriches
// individual flights with photos and schedules.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ucasa/flighttrack/internal/api"
	"github.com/ucasa/flighttrack/pkg/config"
	"github.com/ucasa/flighttrack/pkg/fr24"
	"github.com/ucasa/flighttrack/pkg/opensky"
	"github.com/ucasa/flighttrack/pkg/planespotters"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	port       = flag.String("port", "", "HTTP server port (overrides config)")
)

func main() {
	flag.Parse()

	log.Println("🚀 Starting Flight Tracker Backend...")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Build the upstream clients for the configured provider
	states, detail, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to configure provider: %v", err)
	}
	log.Printf("🛰️  Live traffic provider: %s", cfg.Provider.Source)

	photos := planespotters.NewClient(planespotters.Config{
		BaseURL:   cfg.Photos.BaseURL,
		UserAgent: cfg.Photos.UserAgent,
		DemoMode:  cfg.Photos.DemoMode,
	})
	if cfg.Photos.DemoMode {
		log.Println("📷 Photo demo mode enabled: stock images will substitute for misses")
	}

	srv := api.NewServer(cfg, states, detail, photos)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("📡 Server listening on http://%s:%s", cfg.Server.Host, cfg.Server.Port)

		var err error
		if cfg.Server.TLSEnabled {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}

// buildProvider constructs the state-vector source (and, for providers
// that have one, the detail source) selected in configuration.
func buildProvider(cfg *config.Config) (api.StateSource, api.DetailSource, error) {
	switch cfg.Provider.Source {
	case "opensky":
		opts := []opensky.Option{
			opensky.WithRateLimit(secondsToDuration(cfg.OpenSky.RateLimitSeconds)),
		}
		if cfg.OpenSky.Username != "" {
			opts = append(opts, opensky.WithCredentials(cfg.OpenSky.Username, cfg.OpenSky.Password))
		}
		// OpenSky has no per-flight detail endpoint
		return opensky.NewClient(cfg.OpenSky.BaseURL, opts...), nil, nil

	case "fr24":
		client := fr24.NewClient(fr24.Config{
			BaseURL:            cfg.FR24.BaseURL,
			MinRequestInterval: secondsToDuration(cfg.FR24.RateLimitSeconds),
		})
		return client, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want \"opensky\" or \"fr24\")", cfg.Provider.Source)
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
