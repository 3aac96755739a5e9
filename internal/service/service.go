// Package service orchestrates a scoring run end to end: track ingestion,
// engine scoring, persistence, and telemetry.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cache"
	"github.com/adequatepilot/nav-scoring-sub000/internal/engine"
	"github.com/adequatepilot/nav-scoring-sub000/internal/gpx"
	"github.com/adequatepilot/nav-scoring-sub000/internal/influx"
	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// FlightInfo identifies the flight being scored.
type FlightInfo struct {
	Pilot       string
	Aircraft    string
	FlownAt     time.Time
	TrackSource string
}

// Service runs the scoring pipeline against a storage backend.
type Service struct {
	engine *engine.Engine
	store  storage.Backend
	logger Logger
	routes *cache.RouteCache

	// optional telemetry sink
	telemetry *influx.Manager

	// OTEL metrics
	scored     metric.Int64Counter
	unresolved metric.Int64Counter
	duration   metric.Float64Histogram
}

// New creates a Service. Uses the global OTel meter for metrics (no-op if
// not configured).
func New(eng *engine.Engine, store storage.Backend, logger Logger) (*Service, error) {
	s := &Service{
		engine: eng,
		store:  store,
		logger: logger,
		routes: cache.NewRouteCache(),
	}

	m := meter()

	var err error

	s.scored, err = m.Int64Counter(
		"scoring.flights.scored",
		metric.WithDescription("Total flights scored"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating scored counter: %w", err)
	}

	s.unresolved, err = m.Int64Counter(
		"scoring.checkpoints.unresolved",
		metric.WithDescription("Total checkpoints that could not be resolved"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating unresolved counter: %w", err)
	}

	s.duration, err = m.Float64Histogram(
		"scoring.run.duration",
		metric.WithDescription("Wall time of one scoring run in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return s, nil
}

// WithTelemetry attaches an InfluxDB manager that receives every scored run.
func (s *Service) WithTelemetry(m *influx.Manager) *Service {
	s.telemetry = m
	return s
}

// SaveRoute stores or replaces a route and drops any cached copy so the
// next scoring run reads the new definition.
func (s *Service) SaveRoute(route nav.PlannedRoute) (uint, error) {
	id, err := s.store.SaveRoute(route)
	if err != nil {
		return 0, fmt.Errorf("saving route: %w", err)
	}
	s.routes.Invalidate(route.Name)
	return id, nil
}

// ScoreFlight scores a recorded track against a stored route and persists
// the outcome.
func (s *Service) ScoreFlight(
	ctx context.Context,
	routeName string,
	plan nav.FlightPlan,
	actuals nav.FlightActuals,
	points []nav.TrackPoint,
	info FlightInfo,
) (nav.ScoreResult, error) {
	start := time.Now()

	route, ok := s.routes.Get(routeName)
	if !ok {
		var err error
		route, err = s.store.GetRoute(routeName)
		if err != nil {
			return nav.ScoreResult{}, fmt.Errorf("loading route: %w", err)
		}
		s.routes.Add(route)
	}

	result, err := s.engine.Score(route, plan, actuals, points)
	if err != nil {
		s.logger.Error("scoring failed", "route", routeName, "pilot", info.Pilot, "error", err)
		return nav.ScoreResult{}, err
	}

	flight := model.FlightRecord{
		Pilot:       info.Pilot,
		Aircraft:    info.Aircraft,
		FlownAt:     info.FlownAt,
		TrackSource: info.TrackSource,
		TrackPoints: len(points),
	}
	if flight.FlownAt.IsZero() {
		flight.FlownAt = result.GateTime
	}
	if err := s.store.SaveFlight(&flight); err != nil {
		return nav.ScoreResult{}, fmt.Errorf("saving flight: %w", err)
	}
	if _, err := s.store.SaveScore(flight.ID, result, time.Now()); err != nil {
		return nav.ScoreResult{}, fmt.Errorf("saving score: %w", err)
	}

	if s.telemetry != nil {
		if err := s.telemetry.WriteScore(ctx, info.Pilot, result); err != nil {
			// telemetry loss is not a scoring failure
			s.logger.Error("telemetry write failed", "route", routeName, "error", err)
		}
	}

	routeAttr := metric.WithAttributes(attribute.String("route", routeName))
	s.scored.Add(ctx, 1, routeAttr)
	for _, cp := range result.Checkpoints {
		if cp.Unresolved {
			s.unresolved.Add(ctx, 1, routeAttr)
		}
	}
	s.duration.Record(ctx, time.Since(start).Seconds(), routeAttr)

	s.logger.Info("flight scored",
		"route", routeName,
		"pilot", info.Pilot,
		"overall", result.OverallScore,
		"checkpoints", len(result.Checkpoints))

	return result, nil
}

// ScoreGPXFile reads a GPX track file and scores it.
func (s *Service) ScoreGPXFile(
	ctx context.Context,
	routeName, path string,
	plan nav.FlightPlan,
	actuals nav.FlightActuals,
	info FlightInfo,
) (nav.ScoreResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nav.ScoreResult{}, fmt.Errorf("reading track file: %w", err)
	}

	points, err := gpx.Parse(data)
	if err != nil {
		return nav.ScoreResult{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if info.TrackSource == "" {
		info.TrackSource = filepath.Base(path)
	}
	return s.ScoreFlight(ctx, routeName, plan, actuals, points, info)
}

// Leaderboard returns persisted scores for a route ordered best first.
func (s *Service) Leaderboard(routeName string) ([]model.ScoreRecord, error) {
	return s.store.ListScores(routeName)
}
