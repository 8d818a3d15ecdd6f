package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Provider ProviderConfig `json:"provider"`
	OpenSky  OpenSkyConfig  `json:"opensky"`
	FR24     FR24Config     `json:"fr24"`
	Photos   PhotosConfig   `json:"photos"`
	CORS     CORSConfig     `json:"cors"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8000)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`

	// ServiceName is reported by the /health endpoint
	ServiceName string `json:"service_name"`

	// TLSEnabled determines if HTTPS should be used
	TLSEnabled bool `json:"tls_enabled"`

	// TLSCertFile is the path to the TLS certificate
	TLSCertFile string `json:"tls_cert_file"`

	// TLSKeyFile is the path to the TLS private key
	TLSKeyFile string `json:"tls_key_file"`
}

// ProviderConfig selects the upstream state-vector provider.
type ProviderConfig struct {
	// Source is the live-traffic provider: "opensky" or "fr24"
	Source string `json:"source"`

	// DemoTraffic substitutes synthetic random traffic when the
	// upstream is unreachable. Disabled by default: the default policy
	// is real data or an empty map.
	DemoTraffic bool `json:"demo_traffic"`
}

// OpenSkyConfig contains OpenSky Network API settings.
type OpenSkyConfig struct {
	// BaseURL is the API base URL (default: https://opensky-network.org/api)
	BaseURL string `json:"base_url"`

	// Username and Password enable authenticated access, which raises
	// the allowed request rate. The password should come from the
	// environment, not the config file.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// RateLimitSeconds is the minimum time between upstream calls.
	// OpenSky allows one anonymous /states/all call per 10 seconds.
	RateLimitSeconds float64 `json:"rate_limit_seconds"`
}

// FR24Config contains FlightRadar24 data-live feed settings.
type FR24Config struct {
	// BaseURL is the feed base URL (default: https://data-live.flightradar24.com)
	BaseURL string `json:"base_url"`

	// RateLimitSeconds is the minimum time between upstream calls
	RateLimitSeconds float64 `json:"rate_limit_seconds"`
}

// PhotosConfig contains Planespotters photo API settings.
type PhotosConfig struct {
	// BaseURL is the API base URL (default: https://api.planespotters.net/pub)
	BaseURL string `json:"base_url"`

	// UserAgent identifies this deployment to the photo API
	UserAgent string `json:"user_agent"`

	// DemoMode substitutes generic stock photos when no real photo is
	// found. Disabled by default; attribution is never fabricated.
	DemoMode bool `json:"demo_mode"`
}

// CORSConfig controls cross-origin access for the map UI.
type CORSConfig struct {
	// AllowedOrigins is the list of UI origins permitted to call the
	// API. ["*"] allows any origin (development default).
	AllowedOrigins []string `json:"allowed_origins"`

	// AllowCredentials permits cookies/authorization headers. Must not
	// be combined with a wildcard origin.
	AllowCredentials bool `json:"allow_credentials"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			ServiceName: "Flight Tracker Backend",
			TLSEnabled:  false,
		},
		Provider: ProviderConfig{
			Source:      "opensky",
			DemoTraffic: false,
		},
		OpenSky: OpenSkyConfig{
			BaseURL:          "https://opensky-network.org/api",
			RateLimitSeconds: 10.0,
		},
		FR24: FR24Config{
			BaseURL:          "https://data-live.flightradar24.com",
			RateLimitSeconds: 1.0,
		},
		Photos: PhotosConfig{
			BaseURL:  "https://api.planespotters.net/pub",
			DemoMode: false,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"}, // Allow all for development, restrict in prod
			AllowCredentials: false,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the
// config. This allows sensitive data like credentials to be kept out of
// config files.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("FLIGHTTRACK_PORT"); port != "" {
		c.Server.Port = port
	}
	if source := os.Getenv("FLIGHTTRACK_PROVIDER"); source != "" {
		c.Provider.Source = source
	}
	if user := os.Getenv("FLIGHTTRACK_OPENSKY_USERNAME"); user != "" {
		c.OpenSky.Username = user
	}
	if pass := os.Getenv("FLIGHTTRACK_OPENSKY_PASSWORD"); pass != "" {
		c.OpenSky.Password = pass
	}
}
