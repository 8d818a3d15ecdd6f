package opensky

import (
	"fmt"
	"math/rand"

	"github.com/ucasa/flighttrack/pkg/geo"
	"github.com/ucasa/flighttrack/pkg/model"
)

// demoFlightCount is how many synthetic aircraft DemoTraffic produces.
const demoFlightCount = 150

// demoBounds is the default region (roughly central Europe) used when no
// bounding box is supplied.
var demoBounds = geo.BoundingBox{South: 35.0, West: 6.0, North: 47.0, East: 19.0}

// DemoTraffic generates plausible random traffic inside the given box
// (or a default European region) for demo installs where the upstream is
// unreachable. It is only used when demo traffic is explicitly enabled
// in configuration; the default policy is real data or an empty map.
func DemoTraffic(bbox *geo.BoundingBox) []model.FlightState {
	b := demoBounds
	if bbox != nil {
		b = *bbox
	}

	flights := make([]model.FlightState, 0, demoFlightCount)
	for i := 0; i < demoFlightCount; i++ {
		alt := float64(1000 + rand.Intn(34000))
		flights = append(flights, model.FlightState{
			ICAO24:        fmt.Sprintf("aa%04d", 1000+rand.Intn(9000)),
			Callsign:      fmt.Sprintf("MOCK%02d", 10+rand.Intn(90)),
			OriginCountry: "System Demo",
			Longitude:     b.West + rand.Float64()*(b.East-b.West),
			Latitude:      b.South + rand.Float64()*(b.North-b.South),
			BaroAltitude:  alt,
			GeoAltitude:   alt,
			OnGround:      false,
			Velocity:      200 + rand.Float64()*300,
			TrueTrack:     rand.Float64() * 360,
			VerticalRate:  0,
		})
	}
	return flights
}
