// Package track implements ingestion and normalization of recorded GPS
// tracks. It is a pure transform: raw points in, validated ordered Track out.
// Everything downstream may assume strictly increasing timestamps and
// in-range coordinates.
package track

import (
	"errors"

	"github.com/adequatepilot/nav-scoring-sub000/internal/geo"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// ErrEmptyTrack is returned when the input contains no usable points after
// normalization. A track with fewer than 2 points cannot be scored.
var ErrEmptyTrack = errors.New("track has no usable GPS points")

// Normalize validates and orders a raw point sequence into a Track.
//
// Points with out-of-range coordinates are dropped. Non-monotonic timestamps
// are resolved by dropping any point whose timestamp is not strictly greater
// than the previous retained point's, keeping read order as the tie-break.
// Normalizing an already-normalized sequence returns it unchanged.
func Normalize(points []nav.TrackPoint) (nav.Track, error) {
	if len(points) == 0 {
		return nav.Track{}, ErrEmptyTrack
	}

	kept := make([]nav.TrackPoint, 0, len(points))
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			continue
		}
		if p.Time.IsZero() {
			continue
		}
		if len(kept) > 0 && !p.Time.After(kept[len(kept)-1].Time) {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) < 2 {
		return nav.Track{}, ErrEmptyTrack
	}
	return nav.Track{Points: kept}, nil
}

// GuardPoint marks a location near which downsampling must never drop fixes.
// The start gate and every checkpoint are guard points: accuracy near decision
// points takes priority over uniform thinning.
type GuardPoint struct {
	Lat float64
	Lon float64
}

// Downsample thins a long track to roughly maxPoints by stride, keeping the
// first and last fix and every fix within guardRadiusNM of a guard point.
// Tracks already at or under maxPoints are returned unchanged, as are calls
// with maxPoints <= 0.
func Downsample(t nav.Track, maxPoints int, guardRadiusNM float64, guards []GuardPoint) nav.Track {
	n := len(t.Points)
	if maxPoints <= 0 || n <= maxPoints {
		return t
	}

	stride := n / maxPoints
	if stride < 2 {
		return t
	}

	kept := make([]nav.TrackPoint, 0, maxPoints+len(guards)*8)
	for i, p := range t.Points {
		switch {
		case i == 0 || i == n-1:
			kept = append(kept, p)
		case i%stride == 0:
			kept = append(kept, p)
		case nearGuard(p, guards, guardRadiusNM):
			kept = append(kept, p)
		}
	}
	return nav.Track{Points: kept}
}

func nearGuard(p nav.TrackPoint, guards []GuardPoint, radiusNM float64) bool {
	for _, g := range guards {
		if geo.DistanceNM(p.Lat, p.Lon, g.Lat, g.Lon) <= radiusNM {
			return true
		}
	}
	return false
}
