// pkg/nav/route.go
package nav

// StartGate is the designated departure point whose crossing establishes t=0
// for all leg-time comparisons.
type StartGate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Checkpoint is a fixed geographic point the pilot must pass near.
type Checkpoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`

	// RadiusNM is the acceptance radius in nautical miles. Zero means
	// "use the configured default" (0.25 NM per competition rules).
	RadiusNM float64 `json:"radiusNM"`

	// Seq is the 1-based sequence index defining leg order.
	Seq int `json:"seq"`
}

// PlannedRoute is the reference data for one NAV: a start gate plus ordered
// checkpoints. Owned by the surrounding application; read-only here.
type PlannedRoute struct {
	Name        string       `json:"name"`
	Gate        StartGate    `json:"gate"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// FlightPlan holds the pilot's pre-flight estimates.
type FlightPlan struct {
	// LegTimesSec has one entry per checkpoint: the estimated time enroute
	// for the leg ending at that checkpoint, in seconds.
	LegTimesSec []float64 `json:"legTimesSec"`

	// TotalTimeSec is the estimated total time for the whole route, seconds.
	TotalTimeSec float64 `json:"totalTimeSec"`

	// FuelGal is the estimated fuel burn in gallons, tenths precision.
	FuelGal float64 `json:"fuelGal"`
}

// FlightActuals holds the post-flight observations supplied by the
// pilot/observer.
type FlightActuals struct {
	FuelGal                 float64 `json:"fuelGal"`
	MissedCheckpointSecrets int     `json:"missedCheckpointSecrets"`
	MissedEnrouteSecrets    int     `json:"missedEnrouteSecrets"`
}
