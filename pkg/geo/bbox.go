// Package geo provides the geographic bounding box used to filter flight
// queries, and its encodings for each upstream provider.
//
// The canonical wire format is a single comma-separated string of four
// floats ordered "minLat,minLon,maxLat,maxLon". Each provider wants the
// same four values in a different shape:
//
//   - OpenSky takes them as named query parameters (lamin, lomin, lamax,
//     lomax), same order as the canonical string.
//   - FlightRadar24 takes a single bounds string ordered
//     "north,south,west,east" — i.e. maxLat,minLat,minLon,maxLon.
//
// Getting the reorder wrong does not error; it silently selects an empty
// or wrong region, which is why the encodings live here with tests rather
// than inline in the clients.
package geo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BoundingBox is a rectangular geographic filter in decimal degrees.
// South < North and West < East are expected but not enforced; a
// malformed box selects a malformed region, it does not fail.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// ParseBBox parses the canonical "minLat,minLon,maxLat,maxLon" string.
// Wrong arity or non-numeric fields return an error; callers are expected
// to drop the filter and proceed unfiltered rather than fail the request.
func ParseBBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox: expected 4 fields, got %d", len(parts))
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bbox: field %d %q: %w", i+1, p, err)
		}
		vals[i] = v
	}

	return BoundingBox{
		South: vals[0],
		West:  vals[1],
		North: vals[2],
		East:  vals[3],
	}, nil
}

// Contains reports whether a position falls inside the box. Used as the
// client-side safety net: results are re-filtered locally even when the
// upstream claims to honor the bounds.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// OpenSkyQuery returns the box as OpenSky /states/all query parameters.
func (b BoundingBox) OpenSkyQuery() url.Values {
	q := url.Values{}
	q.Set("lamin", formatDegrees(b.South))
	q.Set("lomin", formatDegrees(b.West))
	q.Set("lamax", formatDegrees(b.North))
	q.Set("lomax", formatDegrees(b.East))
	return q
}

// FR24Bounds returns the box as a FlightRadar24 bounds string, ordered
// north, south, west, east.
func (b BoundingBox) FR24Bounds() string {
	return fmt.Sprintf("%s,%s,%s,%s",
		formatDegrees(b.North),
		formatDegrees(b.South),
		formatDegrees(b.West),
		formatDegrees(b.East))
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
