// pkg/nav/result.go
package nav

import "time"

// Method identifies which detection strategy resolved a checkpoint crossing.
type Method string

const (
	// MethodCTP is the closest time point during a full radius transit.
	MethodCTP Method = "CTP"
	// MethodRadiusEntry is the first entry into the radius when the search
	// window ended while still inside.
	MethodRadiusEntry Method = "RadiusEntry"
	// MethodPCA is the point of closest approach; the checkpoint was never
	// entered during the search window.
	MethodPCA Method = "PCA"
)

// CheckpointResult is the resolved crossing and score for one checkpoint.
// Built fully before being appended to a ScoreResult; never mutated after.
type CheckpointResult struct {
	Name string `json:"name"`
	Seq  int    `json:"seq"`

	Method Method `json:"method"`

	// Crossing location and absolute time of the resolved crossing.
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	CrossingTime time.Time `json:"crossingTime"`

	// CrossingSec is seconds since the start-gate crossing.
	CrossingSec float64 `json:"crossingSec"`

	// Leg timing: actual leg duration, planned estimate, signed deviation
	// (actual - estimated), all in seconds.
	ActualLegSec    float64 `json:"actualLegSec"`
	EstimatedLegSec float64 `json:"estimatedLegSec"`
	DeviationSec    float64 `json:"deviationSec"`

	TimePenalty float64 `json:"timePenalty"`

	// DistanceNM is the closest-approach distance to the checkpoint center.
	DistanceNM       float64 `json:"distanceNM"`
	OffCoursePenalty float64 `json:"offCoursePenalty"`
	WithinRadius     bool    `json:"withinRadius"`

	// Unresolved is set when the search window was empty and the result is a
	// maximum-penalty stand-in rather than a detected crossing.
	Unresolved bool `json:"unresolved"`
}

// ScoreResult is the whole-flight output of one scoring run. Lower is better;
// zero is a perfect flight.
type ScoreResult struct {
	RouteName string `json:"routeName"`

	// Start-gate crossing that established t=0, and how close to the gate
	// the detected crossing was.
	GateTime       time.Time `json:"gateTime"`
	GateDistanceNM float64   `json:"gateDistanceNM"`

	Checkpoints []CheckpointResult `json:"checkpoints"`

	// Aggregate penalty components.
	LegTimePenalty           float64 `json:"legTimePenalty"`
	OffCoursePenalty         float64 `json:"offCoursePenalty"`
	TotalTimePenalty         float64 `json:"totalTimePenalty"`
	TotalTimeDeviationSec    float64 `json:"totalTimeDeviationSec"`
	FuelPenalty              float64 `json:"fuelPenalty"`
	CheckpointSecretsPenalty float64 `json:"checkpointSecretsPenalty"`
	EnrouteSecretsPenalty    float64 `json:"enrouteSecretsPenalty"`

	OverallScore float64 `json:"overallScore"`
}

// HasUnresolved reports whether any checkpoint fell back to the
// empty-window stand-in.
func (r ScoreResult) HasUnresolved() bool {
	for _, cp := range r.Checkpoints {
		if cp.Unresolved {
			return true
		}
	}
	return false
}
