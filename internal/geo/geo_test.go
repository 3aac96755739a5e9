package geo

import (
	"math"
	"testing"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

func TestDistanceNM_ZeroForSamePoint(t *testing.T) {
	d := DistanceNM(37.6188, -122.3754, 37.6188, -122.3754)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceNM_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is 60 NM by definition of the nautical mile
	// (to within the spherical model's tolerance).
	d := DistanceNM(0, 0, 1, 0)
	if math.Abs(d-60.04) > 0.1 {
		t.Errorf("expected ~60 NM, got %f", d)
	}
}

func TestDistanceNM_KnownPair(t *testing.T) {
	// KSFO to KOAK, roughly 9.5 NM.
	d := DistanceNM(37.6188, -122.3754, 37.7213, -122.2207)
	if d < 8.5 || d > 10.5 {
		t.Errorf("expected ~9.5 NM, got %f", d)
	}
}

func TestDistanceNM_Symmetric(t *testing.T) {
	a := DistanceNM(47.1, 11.2, 48.3, 12.4)
	b := DistanceNM(48.3, 12.4, 47.1, 11.2)
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestBearing_CardinalDirections(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, 180},
		{"west", 0, 1, 0, 0, 270},
	}
	for _, tt := range tests {
		got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestSideOfPlane_OppositeSides(t *testing.T) {
	// Flight path heading north through a checkpoint at the origin; the
	// perpendicular plane runs east-west. A point south of the checkpoint and
	// a point north of it must land on opposite sides.
	planeBearing := 90.0
	before := SideOfPlane(-0.01, 0, 0, 0, planeBearing)
	after := SideOfPlane(0.01, 0, 0, 0, planeBearing)
	if before == after {
		t.Errorf("expected opposite sides, got %d and %d", before, after)
	}
}

func TestPlaneCrossingFraction_SymmetricPassage(t *testing.T) {
	// Two fixes equidistant either side of the east-west plane through the
	// origin cross it halfway.
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := nav.TrackPoint{Lat: -0.01, Lon: 0.001, Time: t0}
	p2 := nav.TrackPoint{Lat: 0.01, Lon: 0.001, Time: t0.Add(10 * time.Second)}

	frac := PlaneCrossingFraction(p1, p2, 0, 0, 90)
	if math.Abs(frac-0.5) > 0.01 {
		t.Errorf("expected ~0.5, got %f", frac)
	}
}

func TestPlaneCrossingFraction_SkewedPassage(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// The first fix is three times as far from the plane as the second, so
	// the crossing falls in the second half of the segment.
	p1 := nav.TrackPoint{Lat: -0.03, Lon: 0.02, Time: t0}
	p2 := nav.TrackPoint{Lat: 0.01, Lon: 0.02, Time: t0.Add(10 * time.Second)}

	frac := PlaneCrossingFraction(p1, p2, 0, 0, 90)
	if frac <= 0.5 || frac >= 1 {
		t.Errorf("expected fraction in (0.5,1), got %f", frac)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := nav.TrackPoint{Lat: 10, Lon: 20, Time: t0, GroundSpeedKts: 80, HasSpeed: true}
	p2 := nav.TrackPoint{Lat: 12, Lon: 24, Time: t0.Add(100 * time.Second), GroundSpeedKts: 100, HasSpeed: true}

	mid := Interpolate(p1, p2, 0.5)
	if mid.Lat != 11 || mid.Lon != 22 {
		t.Errorf("expected (11,22), got (%f,%f)", mid.Lat, mid.Lon)
	}
	if !mid.Time.Equal(t0.Add(50 * time.Second)) {
		t.Errorf("expected midpoint time, got %v", mid.Time)
	}
	if !mid.HasSpeed || mid.GroundSpeedKts != 90 {
		t.Errorf("expected interpolated speed 90, got %f", mid.GroundSpeedKts)
	}
}

func TestInterpolate_ClampsFraction(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := nav.TrackPoint{Lat: 10, Lon: 20, Time: t0}
	p2 := nav.TrackPoint{Lat: 12, Lon: 24, Time: t0.Add(time.Minute)}

	lo := Interpolate(p1, p2, -0.5)
	if lo.Lat != p1.Lat || !lo.Time.Equal(p1.Time) {
		t.Errorf("expected p1 for fraction<0, got %+v", lo)
	}
	hi := Interpolate(p1, p2, 1.5)
	if hi.Lat != p2.Lat || !hi.Time.Equal(p2.Time) {
		t.Errorf("expected p2 for fraction>1, got %+v", hi)
	}
}
