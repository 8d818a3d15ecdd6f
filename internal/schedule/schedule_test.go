package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/ucasa/flighttrack/pkg/model"
)

// TestGenerateDeterministic tests that the same identifier yields an
// identical schedule within a run.
func TestGenerateDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	first := Generate("BA123", now)
	for i := 0; i < 5; i++ {
		again := Generate("BA123", now)
		if again != first {
			t.Fatalf("Expected identical schedule on repeat call, got %+v vs %+v", again, first)
		}
	}
}

// TestGenerateDiffersByIdentifier tests that different identifiers do not
// all collapse to one schedule.
func TestGenerateDiffersByIdentifier(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for _, id := range []string{"BA123", "AF447", "UAL9", "4b1805", "abc123"} {
		s := Generate(id, now)
		key := s.Origin.Code + s.Destination.Code + s.ScheduledDeparture.String()
		seen[key] = true
	}
	if len(seen) < 2 {
		t.Error("Expected at least two distinct schedules across identifiers")
	}
}

// TestGenerateInvariants tests the structural invariants over many
// identifiers: distinct airports, ordered times, delay consistency,
// bounded progress.
func TestGenerateInvariants(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	codes := map[string]bool{}
	for _, a := range Airports {
		codes[a.Code] = true
	}

	identifiers := []string{
		"BA123", "AF447", "UAL9", "DLH400", "RYR71", "EZY456",
		"4b1805", "a1b2c3", "abc123", "3c6444", "", "N/A",
	}

	for _, id := range identifiers {
		s := Generate(id, now)

		if s.Origin.Code == s.Destination.Code {
			t.Errorf("%q: origin and destination both %s", id, s.Origin.Code)
		}
		if !codes[s.Origin.Code] || !codes[s.Destination.Code] {
			t.Errorf("%q: airports %s->%s not from fixed table", id, s.Origin.Code, s.Destination.Code)
		}
		if !s.ScheduledArrival.After(s.ScheduledDeparture) {
			t.Errorf("%q: arrival %v not after departure %v", id, s.ScheduledArrival, s.ScheduledDeparture)
		}
		if s.ScheduledDeparture.Location() != time.UTC {
			t.Errorf("%q: departure not UTC", id)
		}

		dur := s.ScheduledArrival.Sub(s.ScheduledDeparture)
		if dur < minDurationMinutes*time.Minute || dur > maxDurationMinutes*time.Minute {
			t.Errorf("%q: duration %v outside [45m, 600m]", id, dur)
		}

		if s.Status == model.StatusDelayed {
			if s.DelayMinutes < minDelayMinutes || s.DelayMinutes > maxDelayMinutes {
				t.Errorf("%q: delayed flight has delay %d outside [15, 180]", id, s.DelayMinutes)
			}
		} else if s.DelayMinutes != 0 {
			t.Errorf("%q: status %s but delay %d", id, s.Status, s.DelayMinutes)
		}

		if s.ProgressPercent < 0 || s.ProgressPercent > 100 {
			t.Errorf("%q: progress %d outside [0, 100]", id, s.ProgressPercent)
		}

		// Departure is in the past, bounded by the flight duration
		if s.ScheduledDeparture.After(now) {
			t.Errorf("%q: departure %v after now", id, s.ScheduledDeparture)
		}
	}
}

// TestIdentifier tests callsign-else-hex selection.
func TestIdentifier(t *testing.T) {
	if got := Identifier("4b1805", "BA123"); got != "BA123" {
		t.Errorf("Expected callsign preferred, got %s", got)
	}
	if got := Identifier("4b1805", ""); got != "4b1805" {
		t.Errorf("Expected hex fallback, got %s", got)
	}
}

// TestStatusDistribution tests that all four statuses are reachable and
// that On Time dominates, without pinning exact PRNG output.
func TestStatusDistribution(t *testing.T) {
	now := time.Now().UTC()

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		s := Generate(fmt.Sprintf("FL%04d", i), now)
		counts[s.Status]++
	}

	for _, status := range []string{model.StatusOnTime, model.StatusDelayed, model.StatusLanded, model.StatusDiverted} {
		if counts[status] == 0 {
			t.Errorf("Status %s never drawn in 2000 samples", status)
		}
	}
	if counts[model.StatusOnTime] <= counts[model.StatusDelayed] {
		t.Errorf("Expected On Time (%d) to dominate Delayed (%d)",
			counts[model.StatusOnTime], counts[model.StatusDelayed])
	}
}
