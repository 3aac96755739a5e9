// pkg/nav/track.go
package nav

import "time"

// TrackPoint is a single GPS fix from a recorded flight track.
type TrackPoint struct {
	Lat  float64   `json:"lat"`  // degrees, -90..90
	Lon  float64   `json:"lon"`  // degrees, -180..180
	Time time.Time `json:"time"` // absolute instant, UTC

	// GroundSpeedKts is the recorded groundspeed in knots. HasSpeed is false
	// when the recording carries no speed channel for this fix.
	GroundSpeedKts float64 `json:"groundSpeedKts"`
	HasSpeed       bool    `json:"hasSpeed"`
}

// Track is an ordered, chronological sequence of track points. It is produced
// once by normalization and never mutated afterward: timestamps are strictly
// increasing and all coordinates are in range.
type Track struct {
	Points []TrackPoint `json:"points"`
}

// Len returns the number of points in the track.
func (t Track) Len() int {
	return len(t.Points)
}

// TimeSpan returns the duration between the first and last fix.
// Returns 0 for tracks with fewer than 2 points.
func (t Track) TimeSpan() time.Duration {
	if len(t.Points) < 2 {
		return 0
	}
	return t.Points[len(t.Points)-1].Time.Sub(t.Points[0].Time)
}
