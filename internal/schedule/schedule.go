// Package schedule synthesizes plausible flight schedules for aircraft
// whose real schedule is unavailable.
//
// Generation is deterministic within a process run: the generator is
// seeded from the flight identifier, so repeated lookups of the same
// flight render the same schedule. That determinism is a property of the
// seeding and PRNG algorithm, not a bit-for-bit guarantee across
// implementations.
package schedule

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/ucasa/flighttrack/pkg/model"
)

// Airports is the fixed sampling universe for synthesized schedules.
// It is not sourced from live data.
var Airports = []model.Airport{
	{Code: "FCO", City: "Rome", Coords: [2]float64{41.8003, 12.2389}},
	{Code: "MXP", City: "Milan", Coords: [2]float64{45.6301, 8.7255}},
	{Code: "LHR", City: "London", Coords: [2]float64{51.4700, -0.4543}},
	{Code: "CDG", City: "Paris", Coords: [2]float64{49.0097, 2.5479}},
	{Code: "JFK", City: "New York", Coords: [2]float64{40.6413, -73.7781}},
	{Code: "DXB", City: "Dubai", Coords: [2]float64{25.2532, 55.3657}},
	{Code: "HND", City: "Tokyo", Coords: [2]float64{35.5494, 139.7798}},
}

// Flight duration bounds in minutes.
const (
	minDurationMinutes = 45
	maxDurationMinutes = 600
)

// Delay bounds in minutes, applied only to delayed flights.
const (
	minDelayMinutes = 15
	maxDelayMinutes = 180
)

// Generate synthesizes a schedule for the given flight identifier
// (callsign if non-empty, else the icao24 hex). now is the reference
// time; departure and arrival are placed around it so the flight appears
// in progress.
func Generate(identifier string, now time.Time) model.Schedule {
	rng := rand.New(rand.NewSource(seed(identifier)))
	return generate(rng, now)
}

// Identifier returns the seed identifier for a flight: the trimmed
// callsign when present, otherwise the icao24 hex.
func Identifier(icao24, callsign string) string {
	if callsign != "" {
		return callsign
	}
	return icao24
}

// generate draws the schedule from an explicit source; split out so
// tests can drive the randomness directly.
func generate(rng *rand.Rand, now time.Time) model.Schedule {
	origin := Airports[rng.Intn(len(Airports))]

	// Destination drawn from the table excluding origin
	rest := make([]model.Airport, 0, len(Airports)-1)
	for _, a := range Airports {
		if a.Code != origin.Code {
			rest = append(rest, a)
		}
	}
	dest := rest[rng.Intn(len(rest))]

	durationMins := minDurationMinutes + rng.Intn(maxDurationMinutes-minDurationMinutes+1)
	progress := rng.Float64()

	duration := time.Duration(durationMins) * time.Minute
	elapsed := time.Duration(float64(duration) * progress)

	departure := now.UTC().Add(-elapsed)
	arrival := departure.Add(duration)

	status := drawStatus(rng)

	delayMins := 0
	if status == model.StatusDelayed {
		delayMins = minDelayMinutes + rng.Intn(maxDelayMinutes-minDelayMinutes+1)
	}

	return model.Schedule{
		Origin:             origin,
		Destination:        dest,
		ScheduledDeparture: departure,
		ScheduledArrival:   arrival,
		Status:             status,
		DelayMinutes:       delayMins,
		ProgressPercent:    int(progress * 100),
	}
}

// drawStatus samples the weighted status distribution:
// On Time 70%, Delayed 20%, Landed 5%, Diverted 5%.
func drawStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.70:
		return model.StatusOnTime
	case r < 0.90:
		return model.StatusDelayed
	case r < 0.95:
		return model.StatusLanded
	default:
		return model.StatusDiverted
	}
}

func seed(identifier string) int64 {
	h := fnv.New64a()
	h.Write([]byte(identifier))
	return int64(h.Sum64())
}
