// internal/engine/startgate.go
package engine

import (
	"fmt"

	"github.com/adequatepilot/nav-scoring-sub000/internal/geo"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// gateCrossing is the detected start-gate crossing that establishes t=0.
type gateCrossing struct {
	index      int
	point      nav.TrackPoint
	distanceNM float64
}

// detectStartGate finds the moment the flight is considered started.
//
// Tier 1 looks for a departure signature: a fix within GateProximityNM of the
// gate moving at or above the takeoff speed threshold. Of the qualifying
// fixes the closest to the gate wins, so a fast taxi past the far edge of the
// proximity circle doesn't beat the actual gate passage. Tier 2 drops the
// speed requirement for recordings without a usable speed channel and takes
// the first fix inside the proximity radius after the track start.
//
// Both tiers scan only the early part of the track (GateSearchFraction of its
// time span); a return-to-field overflight near the gate late in the flight
// must not re-establish t=0.
func (e *Engine) detectStartGate(t nav.Track, gate nav.StartGate) (gateCrossing, error) {
	limit := t.Points[0].Time.Add(scaleDuration(t.TimeSpan(), e.cfg.GateSearchFraction))

	best := gateCrossing{index: -1}
	for i, p := range t.Points {
		if p.Time.After(limit) {
			break
		}
		if !p.HasSpeed || p.GroundSpeedKts < e.cfg.MinTakeoffSpeedKts {
			continue
		}
		d := geo.DistanceNM(p.Lat, p.Lon, gate.Lat, gate.Lon)
		if d > e.cfg.GateProximityNM {
			continue
		}
		if best.index < 0 || d < best.distanceNM {
			best = gateCrossing{index: i, point: p, distanceNM: d}
		}
	}
	if best.index >= 0 {
		e.log.Debug("start gate crossing detected",
			"method", "departure-signature",
			"distanceNM", fmt.Sprintf("%.3f", best.distanceNM))
		return best, nil
	}

	// Proximity-only fallback: first fix inside the radius after track start.
	for i := 1; i < len(t.Points); i++ {
		p := t.Points[i]
		if p.Time.After(limit) {
			break
		}
		d := geo.DistanceNM(p.Lat, p.Lon, gate.Lat, gate.Lon)
		if d <= e.cfg.GateProximityNM {
			e.log.Debug("start gate crossing detected",
				"method", "proximity-fallback",
				"distanceNM", fmt.Sprintf("%.3f", d))
			return gateCrossing{index: i, point: p, distanceNM: d}, nil
		}
	}

	return gateCrossing{}, fmt.Errorf("%w: no qualifying fix within %.2f NM of %s",
		ErrStartGateNotFound, e.cfg.GateProximityNM, gate.Name)
}
