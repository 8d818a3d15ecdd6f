package fr24

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ucasa/flighttrack/pkg/geo"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url})
}

// feedRow builds a full positional feed array for one flight.
func feedRow(icao24 string, lat, lon float64, onGround float64, callsign string) []interface{} {
	return []interface{}{
		icao24, lat, lon, 270.0, 36000.0, 450.0, "1000", "T-MLAT1",
		"B738", "EI-ABC", 1700000000.0, "JFK", "LHR", "BA178",
		onGround, -64.0, callsign, "BAW",
	}
}

// TestStatesFeed tests zone-feed parsing and row filtering.
func TestStatesFeed(t *testing.T) {
	t.Run("Parses flight rows and skips metadata keys", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"full_count": 12345,
				"version":    4,
				"2f8ae1b":    feedRow("A12345", 51.5, -0.3, 0, "BAW178"),
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		flights, err := client.States(context.Background(), nil)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(flights) != 1 {
			t.Fatalf("Expected 1 flight, got %d", len(flights))
		}

		f := flights[0]
		if f.ID != "2f8ae1b" {
			t.Errorf("Expected provider flight id 2f8ae1b, got %s", f.ID)
		}
		if f.ICAO24 != "a12345" {
			t.Errorf("Expected lowercased icao24 a12345, got %s", f.ICAO24)
		}
		if f.Callsign != "BAW178" {
			t.Errorf("Expected callsign BAW178, got %q", f.Callsign)
		}
		if f.OriginCountry != "JFK" {
			t.Errorf("Expected origin hint JFK, got %s", f.OriginCountry)
		}
		if f.Latitude != 51.5 || f.Longitude != -0.3 {
			t.Errorf("Unexpected position: (%v, %v)", f.Latitude, f.Longitude)
		}
		if f.BaroAltitude != 36000.0 || f.Velocity != 450.0 {
			t.Errorf("Unexpected altitude/speed: %v / %v", f.BaroAltitude, f.Velocity)
		}
		if f.VerticalRate != -64.0 || f.TrueTrack != 270.0 {
			t.Errorf("Unexpected track/vertical rate: %+v", f)
		}
	})

	t.Run("Drops on-ground rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"aaa0001": feedRow("A00001", 51.5, -0.3, 1, "GNDVEH"),
				"aaa0002": feedRow("A00002", 51.6, -0.4, 0, "BAW1"),
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		flights, err := client.States(context.Background(), nil)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(flights) != 1 || flights[0].ICAO24 != "a00002" {
			t.Fatalf("Expected only airborne flight a00002, got %+v", flights)
		}
	})

	t.Run("Drops rows at 0,0", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"aaa0003": feedRow("A00003", 0, 0, 0, "NOPOS"),
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		flights, err := client.States(context.Background(), nil)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(flights) != 0 {
			t.Errorf("Expected positionless row dropped, got %+v", flights)
		}
	})

	t.Run("Sends north,south,west,east bounds", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("bounds"); got != "41,40,-74,-73" {
				t.Errorf("Expected bounds 41,40,-74,-73, got %q", got)
			}
			writeJSON(t, w, map[string]interface{}{"full_count": 0})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		bbox := &geo.BoundingBox{South: 40, West: -74, North: 41, East: -73}
		if _, err := client.States(context.Background(), bbox); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	})

	t.Run("Non-200 response returns error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		if _, err := client.States(context.Background(), nil); err == nil {
			t.Fatal("Expected error on 403, got nil")
		}
	})
}

// TestFlightDetail tests best-effort enrichment extraction from the
// clickhandler document.
func TestFlightDetail(t *testing.T) {
	t.Run("Full document", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("flight"); got != "2f8ae1b" {
				t.Errorf("Expected flight=2f8ae1b, got %s", got)
			}
			writeJSON(t, w, map[string]interface{}{
				"identification": map[string]interface{}{"id": "2f8ae1b", "callsign": "BAW178"},
				"aircraft": map[string]interface{}{
					"images": map[string]interface{}{
						"large": []map[string]interface{}{
							{"src": "https://img.example/large.jpg", "link": "https://photos.example/1", "copyright": "Jane Spotter"},
						},
						"thumbnails": []map[string]interface{}{
							{"src": "https://img.example/thumb.jpg", "link": "https://photos.example/1", "copyright": "Jane Spotter"},
						},
					},
				},
				"airport": map[string]interface{}{
					"origin": map[string]interface{}{
						"code":     map[string]interface{}{"iata": "JFK"},
						"position": map[string]interface{}{"latitude": 40.6413, "longitude": -73.7781, "region": map[string]interface{}{"city": "New York"}},
					},
					"destination": map[string]interface{}{
						"code":     map[string]interface{}{"iata": "LHR"},
						"position": map[string]interface{}{"latitude": 51.47, "longitude": -0.4543, "region": map[string]interface{}{"city": "London"}},
					},
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		enr, err := client.FlightDetail(context.Background(), "2f8ae1b")

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if enr.Image == nil || !enr.Image.Found {
			t.Fatal("Expected image extracted")
		}
		if enr.Image.URL != "https://img.example/large.jpg" {
			t.Errorf("Expected largest image preferred, got %s", enr.Image.URL)
		}
		if enr.Image.Photographer != "Jane Spotter" {
			t.Errorf("Expected photographer from copyright, got %s", enr.Image.Photographer)
		}
		if enr.Origin == nil || enr.Origin.Code != "JFK" || enr.Origin.City != "New York" {
			t.Errorf("Unexpected origin: %+v", enr.Origin)
		}
		if enr.Destination == nil || enr.Destination.Code != "LHR" {
			t.Errorf("Unexpected destination: %+v", enr.Destination)
		}
		if enr.Origin.Coords != [2]float64{40.6413, -73.7781} {
			t.Errorf("Unexpected origin coords: %v", enr.Origin.Coords)
		}
	})

	t.Run("Sparse document leaves fields unset", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"identification": map[string]interface{}{"id": "deadbee"},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		enr, err := client.FlightDetail(context.Background(), "deadbee")

		if err != nil {
			t.Fatalf("Expected no error on sparse document, got: %v", err)
		}
		if enr.Image != nil || enr.Origin != nil || enr.Destination != nil {
			t.Errorf("Expected all enrichment unset, got %+v", enr)
		}
	})

	t.Run("Falls back to smaller image sets", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"aircraft": map[string]interface{}{
					"images": map[string]interface{}{
						"thumbnails": []map[string]interface{}{
							{"src": "https://img.example/thumb.jpg", "link": "https://photos.example/2", "copyright": "J. Doe"},
						},
					},
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		enr, err := client.FlightDetail(context.Background(), "deadbee")

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if enr.Image == nil || enr.Image.URL != "https://img.example/thumb.jpg" {
			t.Errorf("Expected thumbnail fallback, got %+v", enr.Image)
		}
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("Failed to encode test response: %v", err)
	}
}
