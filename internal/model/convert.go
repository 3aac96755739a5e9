package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// NewScoreRecord builds a persistable record from a scoring result. The full
// result, per-checkpoint detail included, is kept as the JSON breakdown.
func NewScoreRecord(flightID uint, result nav.ScoreResult, scoredAt time.Time) (ScoreRecord, error) {
	breakdown, err := json.Marshal(result)
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("marshaling score breakdown: %w", err)
	}

	return ScoreRecord{
		FlightRecordID:           flightID,
		RouteName:                result.RouteName,
		ScoredAt:                 scoredAt,
		OverallScore:             result.OverallScore,
		LegTimePenalty:           result.LegTimePenalty,
		OffCoursePenalty:         result.OffCoursePenalty,
		TotalTimePenalty:         result.TotalTimePenalty,
		FuelPenalty:              result.FuelPenalty,
		CheckpointSecretsPenalty: result.CheckpointSecretsPenalty,
		EnrouteSecretsPenalty:    result.EnrouteSecretsPenalty,
		HasUnresolved:            result.HasUnresolved(),
		Breakdown:                breakdown,
	}, nil
}

// Result unmarshals the stored breakdown back into a full scoring result.
func (r ScoreRecord) Result() (nav.ScoreResult, error) {
	var result nav.ScoreResult
	if err := json.Unmarshal(r.Breakdown, &result); err != nil {
		return nav.ScoreResult{}, fmt.Errorf("unmarshaling score breakdown: %w", err)
	}
	return result, nil
}

// NewRouteRecord converts a planned route into its database form.
func NewRouteRecord(route nav.PlannedRoute) RouteRecord {
	rec := RouteRecord{
		Name:     route.Name,
		GateName: route.Gate.Name,
		GateLat:  route.Gate.Lat,
		GateLon:  route.Gate.Lon,
	}
	for _, cp := range route.Checkpoints {
		rec.Checkpoints = append(rec.Checkpoints, CheckpointRecord{
			Seq:      cp.Seq,
			Name:     cp.Name,
			Lat:      cp.Lat,
			Lon:      cp.Lon,
			RadiusNM: cp.RadiusNM,
		})
	}
	return rec
}

// Route converts the record back into the engine's planned route form.
func (r RouteRecord) Route() nav.PlannedRoute {
	route := nav.PlannedRoute{
		Name: r.Name,
		Gate: nav.StartGate{Name: r.GateName, Lat: r.GateLat, Lon: r.GateLon},
	}
	for _, cp := range r.Checkpoints {
		route.Checkpoints = append(route.Checkpoints, nav.Checkpoint{
			Name:     cp.Name,
			Lat:      cp.Lat,
			Lon:      cp.Lon,
			RadiusNM: cp.RadiusNM,
			Seq:      cp.Seq,
		})
	}
	return route
}
