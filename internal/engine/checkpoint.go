// internal/engine/checkpoint.go
package engine

import (
	"math"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/internal/geo"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// crossing is the outcome of one detection strategy.
type crossing struct {
	point      nav.TrackPoint
	distanceNM float64
	method     nav.Method
}

// resolveCheckpoint determines when and where the aircraft is judged to have
// reached a checkpoint. Strategies are tried in priority order and the first
// match wins:
//
//  1. CTP: the track fully transits the acceptance radius; the crossing is
//     the minimum-distance fix during the transit.
//  2. RadiusEntry: the track enters the radius but the window ends while
//     still inside; the crossing is the first fix inside.
//  3. PCA: the radius is never entered; the closest fix stands in so the
//     checkpoint always has a resolved time/location to penalize against.
//
// The search window contains only fixes strictly after prevTime, which
// enforces route-order monotonicity: checkpoint j can never resolve using
// track data from before checkpoint i's crossing.
//
// An empty window yields an unresolved stand-in pinned at prevTime with the
// off-course cap distance; the caller penalizes it maximally but scoring
// continues.
//
// prevLat/prevLon is the previous crossing (or the gate); the intended
// course from there to the checkpoint defines the perpendicular plane used
// to refine the CTP crossing location between fixes.
func (e *Engine) resolveCheckpoint(
	t nav.Track,
	cp nav.Checkpoint,
	prevTime time.Time,
	prevLat, prevLon float64,
) nav.CheckpointResult {
	radius := e.cfg.checkpointRadius(cp.RadiusNM)
	planeBearing := math.Mod(geo.Bearing(prevLat, prevLon, cp.Lat, cp.Lon)+90, 360)

	window := windowAfter(t.Points, prevTime)
	if len(window) == 0 {
		e.log.Warn("empty search window for checkpoint, scoring as unresolved",
			"checkpoint", cp.Name, "seq", cp.Seq)
		return nav.CheckpointResult{
			Name:         cp.Name,
			Seq:          cp.Seq,
			Method:       nav.MethodPCA,
			Lat:          cp.Lat,
			Lon:          cp.Lon,
			CrossingTime: prevTime,
			DistanceNM:   e.cfg.OffCourseMaxDistanceNM,
			Unresolved:   true,
		}
	}

	c, ok := ctpCrossing(window, cp, radius, planeBearing)
	if !ok {
		c, ok = radiusEntryCrossing(window, cp, radius)
	}
	if !ok {
		c = pcaCrossing(window, cp)
	}

	return nav.CheckpointResult{
		Name:         cp.Name,
		Seq:          cp.Seq,
		Method:       c.method,
		Lat:          c.point.Lat,
		Lon:          c.point.Lon,
		CrossingTime: c.point.Time,
		DistanceNM:   c.distanceNM,
		WithinRadius: c.distanceNM <= radius,
	}
}

// windowAfter returns the fixes strictly after cutoff. Points are
// chronological, so a binary scan isn't needed at realistic track sizes.
func windowAfter(points []nav.TrackPoint, cutoff time.Time) []nav.TrackPoint {
	for i, p := range points {
		if p.Time.After(cutoff) {
			return points[i:]
		}
	}
	return nil
}

// ctpCrossing detects a full radius transit: outside -> inside -> outside.
// The crossing time is the fix of minimum distance during the transit,
// modelling the moment the aircraft was most precisely over the checkpoint.
// A window that starts inside the radius counts as already entered.
//
// The reported location/distance is refined by interpolating across the
// perpendicular plane between the fixes bracketing the minimum, when they
// straddle it: the continuous path's closest approach is usually between two
// recorded fixes.
func ctpCrossing(window []nav.TrackPoint, cp nav.Checkpoint, radius, planeBearing float64) (crossing, bool) {
	inside := false
	best := crossing{method: nav.MethodCTP}
	bestIdx := -1

	for i, p := range window {
		d := geo.DistanceNM(p.Lat, p.Lon, cp.Lat, cp.Lon)
		if d <= radius {
			inside = true
			if bestIdx < 0 || d < best.distanceNM {
				best = crossing{point: p, distanceNM: d, method: nav.MethodCTP}
				bestIdx = i
			}
			continue
		}
		if inside {
			// Exited after having been inside: full transit complete.
			return refineCTP(window, bestIdx, best, cp, planeBearing), true
		}
	}
	return crossing{}, false
}

// refineCTP interpolates the crossing location across the perpendicular
// plane around the minimum-distance fix. Timing is untouched: leg times are
// always measured against recorded fixes.
func refineCTP(window []nav.TrackPoint, bestIdx int, best crossing, cp nav.Checkpoint, planeBearing float64) crossing {
	for _, j := range []int{bestIdx - 1, bestIdx} {
		if j < 0 || j+1 >= len(window) {
			continue
		}
		s1 := geo.SideOfPlane(window[j].Lat, window[j].Lon, cp.Lat, cp.Lon, planeBearing)
		s2 := geo.SideOfPlane(window[j+1].Lat, window[j+1].Lon, cp.Lat, cp.Lon, planeBearing)
		if s1 == s2 {
			continue
		}
		frac := geo.PlaneCrossingFraction(window[j], window[j+1], cp.Lat, cp.Lon, planeBearing)
		ip := geo.Interpolate(window[j], window[j+1], frac)
		if d := geo.DistanceNM(ip.Lat, ip.Lon, cp.Lat, cp.Lon); d < best.distanceNM {
			best.point.Lat = ip.Lat
			best.point.Lon = ip.Lon
			best.distanceNM = d
		}
	}
	return best
}

// radiusEntryCrossing handles the track entering the radius without exiting
// before the window ends (recording stopped, or the leg boundary cut the
// window). The first fix inside is the crossing.
func radiusEntryCrossing(window []nav.TrackPoint, cp nav.Checkpoint, radius float64) (crossing, bool) {
	for _, p := range window {
		d := geo.DistanceNM(p.Lat, p.Lon, cp.Lat, cp.Lon)
		if d <= radius {
			return crossing{point: p, distanceNM: d, method: nav.MethodRadiusEntry}, true
		}
	}
	return crossing{}, false
}

// pcaCrossing is the terminal fallback: the single closest fix in the window
// stands in as the crossing. Always succeeds on a non-empty window.
func pcaCrossing(window []nav.TrackPoint, cp nav.Checkpoint) crossing {
	best := crossing{method: nav.MethodPCA}
	for i, p := range window {
		d := geo.DistanceNM(p.Lat, p.Lon, cp.Lat, cp.Lon)
		if i == 0 || d < best.distanceNM {
			best = crossing{point: p, distanceNM: d, method: nav.MethodPCA}
		}
	}
	return best
}
