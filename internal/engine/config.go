package engine

import "github.com/spf13/viper"

// Config is the competition rule-set for one scoring run. It is passed
// explicitly into the engine rather than read from ambient state, so runs
// under different season rules stay reproducible side by side.
type Config struct {
	// TimePenaltyPerSec is the penalty rate per second of absolute timing
	// deviation, applied per leg and again to the total time.
	TimePenaltyPerSec float64

	// DefaultCheckpointRadiusNM is the acceptance radius used for
	// checkpoints that don't specify their own.
	DefaultCheckpointRadiusNM float64

	// Off-course penalty curve: 0 inside the radius, then a cliff to
	// OffCourseMinPenalty at radius+OffCourseStepNM rising linearly to
	// OffCourseMaxPenalty at OffCourseMaxDistanceNM, capped beyond.
	OffCourseMinPenalty    float64
	OffCourseMaxPenalty    float64
	OffCourseMaxDistanceNM float64
	OffCourseStepNM        float64

	// Fuel-burn penalty: overestimates get a free margin and a gentler
	// exponential multiplier, underestimates are penalized from the first
	// drop of unplanned fuel. The asymmetry is a safety incentive and is
	// part of the competition rules.
	FuelOverMultiplier  float64
	FuelOverThreshold   float64
	FuelUnderMultiplier float64

	// Secrets are fixed per-miss penalties.
	CheckpointSecretPenalty float64
	EnrouteSecretPenalty    float64

	// Start-gate detection: a departure signature needs groundspeed of at
	// least MinTakeoffSpeedKts within GateProximityNM of the gate;
	// GateSearchFraction restricts the scan to the early part of the track
	// so a late return-to-field overflight cannot re-trigger.
	MinTakeoffSpeedKts float64
	GateProximityNM    float64
	GateSearchFraction float64

	// Downsampling of very long tracks. Zero MaxTrackPoints disables it.
	// GuardRadiusNM protects fixes near the gate and checkpoints from
	// being thinned away.
	MaxTrackPoints int
	GuardRadiusNM  float64
}

// DefaultConfig returns the current Red Book rule-set.
func DefaultConfig() Config {
	return Config{
		TimePenaltyPerSec:         1.0,
		DefaultCheckpointRadiusNM: 0.25,
		OffCourseMinPenalty:       100,
		OffCourseMaxPenalty:       600,
		OffCourseMaxDistanceNM:    5.0,
		OffCourseStepNM:           0.01,
		FuelOverMultiplier:        250,
		FuelOverThreshold:         0.10,
		FuelUnderMultiplier:       500,
		CheckpointSecretPenalty:   20,
		EnrouteSecretPenalty:      10,
		MinTakeoffSpeedKts:        20,
		GateProximityNM:           0.5,
		GateSearchFraction:        0.5,
		MaxTrackPoints:            0,
		GuardRadiusNM:             1.0,
	}
}

// ConfigFromViper materializes a Config from the scoring.* keys.
// internal/config.Load sets defaults for every key, so values are always
// present.
func ConfigFromViper() Config {
	return Config{
		TimePenaltyPerSec:         viper.GetFloat64("scoring.timePenaltyPerSec"),
		DefaultCheckpointRadiusNM: viper.GetFloat64("scoring.defaultCheckpointRadiusNM"),
		OffCourseMinPenalty:       viper.GetFloat64("scoring.offCourseMinPenalty"),
		OffCourseMaxPenalty:       viper.GetFloat64("scoring.offCourseMaxPenalty"),
		OffCourseMaxDistanceNM:    viper.GetFloat64("scoring.offCourseMaxDistanceNM"),
		OffCourseStepNM:           viper.GetFloat64("scoring.offCourseStepNM"),
		FuelOverMultiplier:        viper.GetFloat64("scoring.fuelOverMultiplier"),
		FuelOverThreshold:         viper.GetFloat64("scoring.fuelOverThreshold"),
		FuelUnderMultiplier:       viper.GetFloat64("scoring.fuelUnderMultiplier"),
		CheckpointSecretPenalty:   viper.GetFloat64("scoring.checkpointSecretPenalty"),
		EnrouteSecretPenalty:      viper.GetFloat64("scoring.enrouteSecretPenalty"),
		MinTakeoffSpeedKts:        viper.GetFloat64("scoring.minTakeoffSpeedKts"),
		GateProximityNM:           viper.GetFloat64("scoring.gateProximityNM"),
		GateSearchFraction:        viper.GetFloat64("scoring.gateSearchFraction"),
		MaxTrackPoints:            viper.GetInt("scoring.maxTrackPoints"),
		GuardRadiusNM:             viper.GetFloat64("scoring.guardRadiusNM"),
	}
}

// checkpointRadius resolves the acceptance radius for a checkpoint.
func (c Config) checkpointRadius(radiusNM float64) float64 {
	if radiusNM > 0 {
		return radiusNM
	}
	return c.DefaultCheckpointRadiusNM
}
