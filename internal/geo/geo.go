// Package geo provides the great-circle math used by the scoring engine.
// Distances are in nautical miles throughout. Precision beyond a few meters is
// not useful here: GPS receiver accuracy dominates the error budget, so a
// spherical earth model is sufficient.
package geo

import (
	"math"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// EarthRadiusNM is the mean earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// DistanceNM returns the haversine great-circle distance between two
// coordinates in nautical miles.
func DistanceNM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return EarthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Bearing returns the initial great-circle bearing from (lat1,lon1) towards
// (lat2,lon2) in degrees [0, 360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	x := math.Sin(dLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	deg := math.Atan2(x, y) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// SideOfPlane reports which side of the perpendicular plane through the
// checkpoint a point lies on. The plane is defined by planeBearing (degrees);
// the return value is +1 or -1. Two points on opposite sides straddle the
// plane, which is how a checkpoint passage is detected even when the track
// never enters the acceptance radius.
func SideOfPlane(pLat, pLon, cpLat, cpLon, planeBearing float64) int {
	pointBearing := Bearing(cpLat, cpLon, pLat, pLon)
	angleDiff := math.Mod(pointBearing-planeBearing+360, 360)
	if angleDiff < 180 {
		return 1
	}
	return -1
}

// PlaneCrossingFraction returns the fraction along the segment p1->p2 at
// which it crosses the perpendicular plane through (cpLat,cpLon) with the
// given planeBearing. Caller has already established that p1 and p2 straddle
// the plane. The fraction comes from the signed angular offsets of the two
// endpoints from the plane, which is exact enough at fix-to-fix scales.
func PlaneCrossingFraction(p1, p2 nav.TrackPoint, cpLat, cpLon, planeBearing float64) float64 {
	a1 := signedPlaneAngle(p1.Lat, p1.Lon, cpLat, cpLon, planeBearing)
	a2 := signedPlaneAngle(p2.Lat, p2.Lon, cpLat, cpLon, planeBearing)
	if math.Abs(a1-a2) < 1e-10 {
		return 0.5
	}
	return math.Abs(a1) / math.Abs(a1-a2)
}

func signedPlaneAngle(pLat, pLon, cpLat, cpLon, planeBearing float64) float64 {
	b := Bearing(cpLat, cpLon, pLat, pLon)
	a := math.Mod(b-planeBearing+360, 360)
	if a > 180 {
		a -= 360
	}
	return a
}

// Interpolate linearly interpolates between two track points. fraction is
// clamped to [0,1]; 0 returns p1, 1 returns p2. Linear lat/lon interpolation
// is fine at the sub-NM scales between consecutive GPS fixes.
func Interpolate(p1, p2 nav.TrackPoint, fraction float64) nav.TrackPoint {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	dt := p2.Time.Sub(p1.Time)
	out := nav.TrackPoint{
		Lat:  p1.Lat + fraction*(p2.Lat-p1.Lat),
		Lon:  p1.Lon + fraction*(p2.Lon-p1.Lon),
		Time: p1.Time.Add(time.Duration(float64(dt) * fraction)),
	}
	if p1.HasSpeed && p2.HasSpeed {
		out.HasSpeed = true
		out.GroundSpeedKts = p1.GroundSpeedKts + fraction*(p2.GroundSpeedKts-p1.GroundSpeedKts)
	}
	return out
}
