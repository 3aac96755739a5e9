// Package engine implements the NAV flight-scoring pipeline: track
// normalization, start-gate detection, checkpoint crossing resolution, and
// penalty aggregation. One call to Score is a pure, synchronous function of
// its inputs: no I/O, no state between calls, safe for concurrent use across
// flights.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/internal/track"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Engine scores flights under a fixed rule-set.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New creates an engine with the given rule-set. A nil logger falls back to
// slog.Default.
func New(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg, log: log}
}

// Score runs the full pipeline over a raw recorded point sequence.
//
// Fatal conditions (empty track, no start-gate crossing, invalid estimates)
// return a typed error and no result. Degraded conditions (PCA fallback,
// empty search windows) are recorded inside the returned result instead.
func (e *Engine) Score(
	route nav.PlannedRoute,
	plan nav.FlightPlan,
	actuals nav.FlightActuals,
	points []nav.TrackPoint,
) (nav.ScoreResult, error) {
	if err := validateInputs(route, plan, actuals); err != nil {
		return nav.ScoreResult{}, err
	}

	t, err := track.Normalize(points)
	if err != nil {
		return nav.ScoreResult{}, err
	}

	if e.cfg.MaxTrackPoints > 0 {
		guards := make([]track.GuardPoint, 0, len(route.Checkpoints)+1)
		guards = append(guards, track.GuardPoint{Lat: route.Gate.Lat, Lon: route.Gate.Lon})
		for _, cp := range route.Checkpoints {
			guards = append(guards, track.GuardPoint{Lat: cp.Lat, Lon: cp.Lon})
		}
		t = track.Downsample(t, e.cfg.MaxTrackPoints, e.cfg.GuardRadiusNM, guards)
	}

	gate, err := e.detectStartGate(t, route.Gate)
	if err != nil {
		return nav.ScoreResult{}, err
	}

	result := nav.ScoreResult{
		RouteName:      route.Name,
		GateTime:       gate.point.Time,
		GateDistanceNM: gate.distanceNM,
		Checkpoints:    make([]nav.CheckpointResult, 0, len(route.Checkpoints)),
	}

	prevTime := gate.point.Time
	prevLat, prevLon := gate.point.Lat, gate.point.Lon
	for i, cp := range route.Checkpoints {
		cr := e.resolveCheckpoint(t, cp, prevTime, prevLat, prevLon)

		cr.CrossingSec = cr.CrossingTime.Sub(gate.point.Time).Seconds()
		cr.ActualLegSec = cr.CrossingTime.Sub(prevTime).Seconds()
		cr.EstimatedLegSec = plan.LegTimesSec[i]
		cr.DeviationSec, cr.TimePenalty = e.cfg.LegTimePenalty(cr.ActualLegSec, cr.EstimatedLegSec)
		cr.OffCoursePenalty = e.cfg.OffCoursePenalty(cr.DistanceNM, cp.RadiusNM)

		result.Checkpoints = append(result.Checkpoints, cr)
		result.LegTimePenalty += cr.TimePenalty
		result.OffCoursePenalty += cr.OffCoursePenalty

		prevTime = cr.CrossingTime
		prevLat, prevLon = cr.Lat, cr.Lon

		e.log.Debug("checkpoint resolved",
			"checkpoint", cp.Name,
			"method", string(cr.Method),
			"distanceNM", fmt.Sprintf("%.3f", cr.DistanceNM),
			"deviationSec", fmt.Sprintf("%.1f", cr.DeviationSec))
	}

	// Total time is scored as its own line item on top of the per-leg
	// penalties. Both count; the rules double-account deliberately.
	totalActual := prevTime.Sub(gate.point.Time).Seconds()
	result.TotalTimeDeviationSec, result.TotalTimePenalty =
		e.cfg.LegTimePenalty(totalActual, plan.TotalTimeSec)

	result.FuelPenalty = e.cfg.FuelPenalty(plan.FuelGal, actuals.FuelGal)
	result.CheckpointSecretsPenalty, result.EnrouteSecretsPenalty =
		e.cfg.SecretsPenalty(actuals.MissedCheckpointSecrets, actuals.MissedEnrouteSecrets)

	result.OverallScore = result.LegTimePenalty +
		result.OffCoursePenalty +
		result.TotalTimePenalty +
		result.FuelPenalty +
		result.CheckpointSecretsPenalty +
		result.EnrouteSecretsPenalty

	return result, nil
}

// validateInputs fails fast on malformed estimates and actuals before any
// computation begins.
func validateInputs(route nav.PlannedRoute, plan nav.FlightPlan, actuals nav.FlightActuals) error {
	if len(route.Checkpoints) == 0 {
		return fmt.Errorf("%w: route has no checkpoints", ErrInvalidEstimate)
	}
	if len(plan.LegTimesSec) != len(route.Checkpoints) {
		return fmt.Errorf("%w: %d leg estimates for %d checkpoints",
			ErrInvalidEstimate, len(plan.LegTimesSec), len(route.Checkpoints))
	}
	for i, leg := range plan.LegTimesSec {
		if !finiteNonNegative(leg) {
			return fmt.Errorf("%w: leg %d estimate %v", ErrInvalidEstimate, i+1, leg)
		}
	}
	if !finiteNonNegative(plan.TotalTimeSec) {
		return fmt.Errorf("%w: total time estimate %v", ErrInvalidEstimate, plan.TotalTimeSec)
	}
	if !finiteNonNegative(plan.FuelGal) || plan.FuelGal == 0 {
		return fmt.Errorf("%w: fuel estimate %v", ErrInvalidEstimate, plan.FuelGal)
	}
	if !finiteNonNegative(actuals.FuelGal) {
		return fmt.Errorf("%w: actual fuel %v", ErrInvalidEstimate, actuals.FuelGal)
	}
	if actuals.MissedCheckpointSecrets < 0 || actuals.MissedEnrouteSecrets < 0 {
		return fmt.Errorf("%w: negative secrets count", ErrInvalidEstimate)
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// scaleDuration returns d scaled by fraction.
func scaleDuration(d time.Duration, fraction float64) time.Duration {
	return time.Duration(float64(d) * fraction)
}
