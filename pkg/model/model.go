// Package model defines the canonical flight data types shared by the
// provider adapters and the HTTP API.
//
// Field units are passed through from whichever provider produced the
// record: OpenSky reports altitude in meters and velocity in m/s, while
// FlightRadar24 reports feet and knots. The API does not unify units;
// the map UI renders whatever the configured provider supplies.
package model

import "time"

// FlightState is one live aircraft observation normalized from a
// provider's state-vector feed.
//
// Callsign policy: callsigns are trimmed of surrounding whitespace and a
// missing callsign is the empty string, regardless of provider. (The
// commercial feed historically substituted "N/A"; that was a UI concern
// and is not reproduced here.)
type FlightState struct {
	// ID is the provider's opaque flight handle, used for detail
	// lookups. Only present for FlightRadar24-sourced records.
	ID string `json:"id,omitempty"`

	// ICAO24 is the 24-bit Mode S transponder address (e.g., "4b1805")
	ICAO24 string `json:"icao24"`

	// Callsign is the flight number or registration, trimmed
	Callsign string `json:"callsign"`

	// OriginCountry is the country (or origin airport code, for the
	// commercial provider) associated with the aircraft
	OriginCountry string `json:"origin_country"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// BaroAltitude is barometric altitude in provider units
	BaroAltitude float64 `json:"baro_altitude"`

	// GeoAltitude is geometric (GPS) altitude in provider units
	GeoAltitude float64 `json:"geo_altitude"`

	// OnGround reports whether the transponder indicates surface position
	OnGround bool `json:"on_ground"`

	// Velocity is ground speed in provider units
	Velocity float64 `json:"velocity"`

	// TrueTrack is the ground track in degrees (0-360, 0 = North)
	TrueTrack float64 `json:"true_track"`

	// VerticalRate is climb/descent rate in provider units
	// (positive = climbing)
	VerticalRate float64 `json:"vertical_rate"`
}

// Airport is a minimal airport reference: IATA code, city, and position.
type Airport struct {
	Code string `json:"code"`
	City string `json:"city"`

	// Coords is [latitude, longitude] in decimal degrees
	Coords [2]float64 `json:"coords"`
}

// Flight status values used in Schedule.Status.
const (
	StatusOnTime   = "On Time"
	StatusDelayed  = "Delayed"
	StatusLanded   = "Landed"
	StatusDiverted = "Diverted"
)

// Schedule describes a flight's origin, destination, and timing. When no
// real schedule is available it is synthesized deterministically from the
// flight identifier (see internal/schedule).
type Schedule struct {
	Origin      Airport `json:"origin"`
	Destination Airport `json:"destination"`

	// ScheduledDeparture and ScheduledArrival are UTC;
	// arrival is always after departure
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	ScheduledArrival   time.Time `json:"scheduled_arrival"`

	// Status is one of the Status* constants
	Status string `json:"status"`

	// DelayMinutes is nonzero only when Status is StatusDelayed
	DelayMinutes int `json:"delay_minutes"`

	// ProgressPercent is the estimated completion of the flight (0-100)
	ProgressPercent int `json:"progress_percent"`
}

// Photo is the result of an aircraft photo lookup. URL, Link, and
// Photographer are only set when Found is true; callers render a
// placeholder otherwise.
type Photo struct {
	Found        bool   `json:"found"`
	URL          string `json:"url,omitempty"`
	Link         string `json:"link,omitempty"`
	Photographer string `json:"photographer,omitempty"`
}

// TrailPoint is one historical position sample. The detail endpoint
// always returns an empty trail; track reconstruction is out of scope.
type TrailPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// FlightDetail is the composed response of the flight detail endpoint.
type FlightDetail struct {
	ID       string       `json:"id,omitempty"`
	ICAO24   string       `json:"icao24"`
	Callsign string       `json:"callsign"`
	Image    Photo        `json:"image"`
	Schedule Schedule     `json:"schedule"`
	Trail    []TrailPoint `json:"trail"`
}

// Enrichment holds the optional fields a provider's detail lookup can
// contribute beyond the synthesized baseline. Nil fields were not
// available upstream; extraction failures only reduce richness, they
// never fail a request.
type Enrichment struct {
	Image       *Photo
	Origin      *Airport
	Destination *Airport
}
