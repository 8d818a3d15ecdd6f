// Package fr24 implements the state-vector and flight-detail adapters for
// the FlightRadar24 data-live feed.
//
// This is the same unofficial JSON interface the FR24 web map consumes:
// a zone feed of positional arrays keyed by an opaque flight id, plus a
// per-flight "clickhandler" detail document. Both are loosely structured;
// detail extraction is best effort and missing paths never fail a lookup.
package fr24

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
	// BaseURL is the FR24 data-live feed base URL
	BaseURL = "https://data-live.flightradar24.com"

	// DefaultTimeout for feed requests
	DefaultTimeout = 10 * time.Second
)

// Positional indexes of a zone-feed flight array. Layout:
// icao24, lat, lon, track, altitude (ft), ground speed (kt), squawk,
// radar, aircraft type, registration, epoch, origin IATA, destination
// IATA, flight number, on ground, vertical speed, callsign, airline ICAO.
const (
	idxICAO24       = 0
	idxLatitude     = 1
	idxLongitude    = 2
	idxTrack        = 3
	idxAltitude     = 4
	idxGroundSpeed  = 5
	idxOrigin       = 11
	idxDestination  = 12
	idxOnGround     = 14
	idxVerticalRate = 15
	idxCallsign     = 16
	feedFieldCount  = 17
)

// Config contains configuration for the FR24 client.
type Config struct {
	// BaseURL overrides the feed URL (useful for testing)
	BaseURL string

	// Timeout for feed requests (default: 10s)
	Timeout time.Duration

	// MinRequestInterval is the minimum delay between upstream calls.
	// Zero disables client-side limiting.
	MinRequestInterval time.Duration
}

// Client is a FlightRadar24 data-live feed client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a FlightRadar24 client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinRequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}
}

// States returns the current flights in the zone feed, optionally bounded.
// The feed mixes ground vehicles and parked aircraft into the same zone,
// so on-ground rows are dropped. Records without a position (the feed
// reports 0,0) are dropped as well.
func (c *Client) States(ctx context.Context, bbox *geo.BoundingBox) ([]model.FlightState, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/zones/fanout/full.json", c.baseURL)
	if bbox != nil {
		url += "?bounds=" + bbox.FR24Bounds()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching zone feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	// The feed is a single object mixing metadata keys (full_count,
	// version) with flight-id keys whose values are positional arrays.
	var feed map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing zone feed: %w", err)
	}

	flights := make([]model.FlightState, 0, len(feed))
	for id, raw := range feed {
		var fields []interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue // metadata key, not a flight row
		}
		if f, ok := convertFeedRow(id, fields); ok {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

// convertFeedRow normalizes one positional feed row. ok is false when the
// row is malformed, positionless, or an on-ground vehicle.
func convertFeedRow(id string, fields []interface{}) (model.FlightState, bool) {
	if len(fields) < feedFieldCount {
		return model.FlightState{}, false
	}

	lat, latOK := floatVal(fields[idxLatitude])
	lon, lonOK := floatVal(fields[idxLongitude])
	if !latOK || !lonOK || (lat == 0 && lon == 0) {
		return model.FlightState{}, false
	}

	if onGround, _ := floatVal(fields[idxOnGround]); onGround != 0 {
		return model.FlightState{}, false
	}

	f := model.FlightState{
		ID:        id,
		ICAO24:    strings.ToLower(stringVal(fields[idxICAO24])),
		Callsign:  strings.TrimSpace(stringVal(fields[idxCallsign])),
		Latitude:  lat,
		Longitude: lon,
	}

	// The feed has no country column; the origin airport code is the
	// closest available provenance hint.
	if origin := stringVal(fields[idxOrigin]); origin != "" {
		f.OriginCountry = origin
	} else {
		f.OriginCountry = "Unknown"
	}

	if v, ok := floatVal(fields[idxAltitude]); ok {
		// FR24 reports one altitude, in feet
		f.BaroAltitude = v
		f.GeoAltitude = v
	}
	if v, ok := floatVal(fields[idxGroundSpeed]); ok {
		f.Velocity = v
	}
	if v, ok := floatVal(fields[idxTrack]); ok {
		f.TrueTrack = v
	}
	if v, ok := floatVal(fields[idxVerticalRate]); ok {
		f.VerticalRate = v
	}

	return f, true
}

func stringVal(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func floatVal(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
