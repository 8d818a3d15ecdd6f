// Package opensky implements the state-vector adapter for the OpenSky
// Network REST API.
//
// API Documentation: https://openskynetwork.github.io/opensky-api/rest.html
// Rate Limit: anonymous access allows one /states/all call every 10 seconds.
package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ucasa/flighttrack/pkg/geo"
	"github.com/ucasa/flighttrack/pkg/model"
)

const (
	// BaseURL is the OpenSky Network REST API base URL
	BaseURL = "https://opensky-network.org/api"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second
)

// Positional indexes of the 17-field OpenSky state vector. Columns:
// icao24, callsign, origin_country, time_position, last_contact,
// longitude, latitude, baro_altitude, on_ground, velocity, true_track,
// vertical_rate, sensors, geo_altitude, squawk, spi, position_source.
const (
	idxICAO24        = 0
	idxCallsign      = 1
	idxOriginCountry = 2
	idxLongitude     = 5
	idxLatitude      = 6
	idxBaroAltitude  = 7
	idxOnGround      = 8
	idxVelocity      = 9
	idxTrueTrack     = 10
	idxVerticalRate  = 11
	idxGeoAltitude   = 13
	stateFieldCount  = 17
)

// Client is an OpenSky Network API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	username   string
	password   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredentials enables basic authentication. Authenticated access
// permits one /states/all call per 5 seconds instead of 10; pair with
// WithRateLimit to take advantage of it.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithRateLimit overrides the minimum interval between upstream calls.
// Zero disables limiting.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient creates an OpenSky client. baseURL should normally be
// BaseURL; tests point it at a local server.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// States returns the current state vectors for all tracked aircraft,
// optionally restricted to a bounding box. Records missing a position
// are dropped. On-ground aircraft are included with the flag exposed;
// OpenSky states are transponder reports, not ground-vehicle feeds.
func (c *Client) States(ctx context.Context, bbox *geo.BoundingBox) ([]model.FlightState, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/states/all", c.baseURL)
	if bbox != nil {
		url += "?" + bbox.OpenSkyQuery().Encode()
	}

	raw, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseStates(raw), nil
}

// StateByICAO24 returns the current state vector for a single aircraft,
// or nil if it is not currently tracked. OpenSky has no dedicated detail
// endpoint; this re-queries /states/all filtered by transponder address.
func (c *Client) StateByICAO24(ctx context.Context, icao24 string) (*model.FlightState, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/states/all?icao24=%s", c.baseURL, icao24)

	raw, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	states := parseStates(raw)
	if len(states) == 0 {
		return nil, nil
	}
	return &states[0], nil
}

func (c *Client) fetch(ctx context.Context, url string) (*statesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw statesResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &raw, nil
}

// statesResponse mirrors the JSON shape returned by /states/all.
type statesResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

func parseStates(raw *statesResponse) []model.FlightState {
	flights := make([]model.FlightState, 0, len(raw.States))
	for _, s := range raw.States {
		if len(s) < stateFieldCount {
			continue
		}

		// Drop records lacking a position
		lon, lonOK := floatVal(s[idxLongitude])
		lat, latOK := floatVal(s[idxLatitude])
		if !lonOK || !latOK {
			continue
		}

		f := model.FlightState{
			ICAO24:        stringVal(s[idxICAO24]),
			Callsign:      strings.TrimSpace(stringVal(s[idxCallsign])),
			OriginCountry: stringVal(s[idxOriginCountry]),
			Longitude:     lon,
			Latitude:      lat,
			OnGround:      boolVal(s[idxOnGround]),
		}
		if v, ok := floatVal(s[idxBaroAltitude]); ok {
			f.BaroAltitude = v
		}
		if v, ok := floatVal(s[idxVelocity]); ok {
			f.Velocity = v
		}
		if v, ok := floatVal(s[idxTrueTrack]); ok {
			f.TrueTrack = v
		}
		if v, ok := floatVal(s[idxVerticalRate]); ok {
			f.VerticalRate = v
		}
		if v, ok := floatVal(s[idxGeoAltitude]); ok {
			f.GeoAltitude = v
		}

		flights = append(flights, f)
	}
	return flights
}

func stringVal(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func boolVal(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func floatVal(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
