// internal/engine/scorer.go
package engine

import "math"

// LegTimePenalty scores a single leg's timing: the signed deviation
// (actual - estimated, seconds) and the penalty at TimePenaltyPerSec per
// second of absolute deviation.
func (c Config) LegTimePenalty(actualSec, estimatedSec float64) (deviationSec, penalty float64) {
	deviationSec = actualSec - estimatedSec
	penalty = math.Abs(deviationSec) * c.TimePenaltyPerSec
	return deviationSec, penalty
}

// OffCoursePenalty scores the closest-approach distance against the
// acceptance radius. Inside the radius there is no penalty. Just outside
// there is a deliberate cliff to OffCourseMinPenalty (competition rules, not
// a smooth curve from zero), rising linearly to OffCourseMaxPenalty at
// OffCourseMaxDistanceNM and capped beyond.
func (c Config) OffCoursePenalty(distanceNM, radiusNM float64) float64 {
	r := c.checkpointRadius(radiusNM)
	if distanceNM <= r {
		return 0
	}
	if distanceNM > c.OffCourseMaxDistanceNM {
		return c.OffCourseMaxPenalty
	}

	threshold := r + c.OffCourseStepNM
	if distanceNM <= threshold {
		return c.OffCourseMinPenalty
	}
	fraction := (distanceNM - threshold) / (c.OffCourseMaxDistanceNM - threshold)
	penalty := c.OffCourseMinPenalty + fraction*(c.OffCourseMaxPenalty-c.OffCourseMinPenalty)
	return math.Min(math.Max(penalty, c.OffCourseMinPenalty), c.OffCourseMaxPenalty)
}

// FuelPenalty scores the fuel-burn estimate. The error is the signed
// fraction (estimated - actual) / estimated: positive means the pilot used
// less than planned (overestimate), negative means more (underestimate).
//
// Overestimates get a free margin (FuelOverThreshold) and the gentler
// exponential; underestimates are penalized immediately with the harsher
// multiplier. Running out of gas is the failure mode the rules punish.
func (c Config) FuelPenalty(estimatedGal, actualGal float64) float64 {
	err := (estimatedGal - actualGal) / estimatedGal

	switch {
	case err < 0:
		return c.FuelUnderMultiplier * (math.Exp(math.Abs(err)) - 1)
	case err > c.FuelOverThreshold:
		return c.FuelOverMultiplier * (math.Exp(err) - 1)
	default:
		return 0
	}
}

// SecretsPenalty scores missed secret locations: fixed points per miss,
// no curve.
func (c Config) SecretsPenalty(missedCheckpoint, missedEnroute int) (checkpointPenalty, enroutePenalty float64) {
	checkpointPenalty = float64(missedCheckpoint) * c.CheckpointSecretPenalty
	enroutePenalty = float64(missedEnroute) * c.EnrouteSecretPenalty
	return checkpointPenalty, enroutePenalty
}
