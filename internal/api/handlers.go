package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ucasa/flighttrack/internal/schedule"
	"github.com/ucasa/flighttrack/pkg/geo"
	"github.com/ucasa/flighttrack/pkg/model"
	"github.com/ucasa/flighttrack/pkg/opensky"
)

// flightsResponse is the list endpoint envelope.
type flightsResponse struct {
	Count   int                 `json:"count"`
	Flights []model.FlightState `json:"flights"`
}

// handleListFlights serves GET /api/flights?bbox=minLat,minLon,maxLat,maxLon.
//
// A malformed bbox drops the filter and the query proceeds unfiltered.
// Upstream unavailability degrades to an empty list; the map renders "no
// traffic" instead of an error.
func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	var bbox *geo.BoundingBox
	if raw := r.URL.Query().Get("bbox"); raw != "" {
		parsed, err := geo.ParseBBox(raw)
		if err != nil {
			log.Printf("api: ignoring invalid bbox %q: %v", raw, err)
		} else {
			bbox = &parsed
		}
	}

	flights, err := s.states.States(r.Context(), bbox)
	if err != nil {
		log.Printf("api: upstream state fetch failed: %v", err)
		if s.cfg.Provider.DemoTraffic {
			flights = opensky.DemoTraffic(bbox)
		} else {
			flights = nil
		}
	}

	// Safety net: enforce the bbox locally even when the upstream
	// claims to have filtered.
	if bbox != nil {
		filtered := flights[:0]
		for _, f := range flights {
			if bbox.Contains(f.Latitude, f.Longitude) {
				filtered = append(filtered, f)
			}
		}
		flights = filtered
	}

	if flights == nil {
		flights = []model.FlightState{}
	}

	respondJSON(w, http.StatusOK, flightsResponse{
		Count:   len(flights),
		Flights: flights,
	})
}

// handleFlightDetail serves GET /api/flights/{icao24}?callsign=&id=.
//
// The response is composed from up to three sources: provider detail
// (when an opaque flight id is supplied and the provider has a detail
// endpoint), the photo service, and the schedule synthesizer. Real
// origin/destination from the provider overlay the synthetic schedule;
// times, status, and delay stay synthetic.
func (s *Server) handleFlightDetail(w http.ResponseWriter, r *http.Request) {
	icao24 := chi.URLParam(r, "icao24")
	callsign := strings.TrimSpace(r.URL.Query().Get("callsign"))
	flightID := r.URL.Query().Get("id")

	var enrichment *model.Enrichment
	if flightID != "" && s.detail != nil {
		enr, err := s.detail.FlightDetail(r.Context(), flightID)
		if err != nil {
			log.Printf("api: detail lookup for %s failed: %v", flightID, err)
		} else {
			enrichment = enr
		}
	}

	sched := schedule.Generate(schedule.Identifier(icao24, callsign), s.now())
	if enrichment != nil {
		if enrichment.Origin != nil {
			sched.Origin = *enrichment.Origin
		}
		if enrichment.Destination != nil {
			sched.Destination = *enrichment.Destination
		}
	}

	// Provider-supplied photo wins over the photo service
	var image model.Photo
	if enrichment != nil && enrichment.Image != nil {
		image = *enrichment.Image
	} else {
		image = s.photos.PhotoByHex(r.Context(), icao24)
	}

	respondJSON(w, http.StatusOK, model.FlightDetail{
		ID:       flightID,
		ICAO24:   icao24,
		Callsign: callsign,
		Image:    image,
		Schedule: sched,
		Trail:    []model.TrailPoint{},
	})
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": s.cfg.Server.ServiceName,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
