// Package gormdb persists scoring results through a gorm connection, either
// the central Postgres archive or the local SQLite fallback.
package gormdb

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Backend stores scoring data via gorm.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a gorm-backed storage backend over an open connection.
func New(db *gorm.DB, log zerolog.Logger) *Backend {
	return &Backend{db: db, log: log}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRoute upserts a route by name. Checkpoints of a replaced route are
// rewritten as a set.
func (b *Backend) SaveRoute(route nav.PlannedRoute) (uint, error) {
	rec := model.NewRouteRecord(route)

	var existing model.RouteRecord
	err := b.db.Where("name = ?", route.Name).First(&existing).Error
	switch {
	case err == nil:
		rec.ID = existing.ID
		if err := b.db.Where("route_record_id = ?", existing.ID).
			Delete(&model.CheckpointRecord{}).Error; err != nil {
			return 0, fmt.Errorf("clearing checkpoints: %w", err)
		}
		for i := range rec.Checkpoints {
			rec.Checkpoints[i].RouteRecordID = existing.ID
		}
		if err := b.db.Save(&rec).Error; err != nil {
			return 0, fmt.Errorf("updating route: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		if err := b.db.Create(&rec).Error; err != nil {
			return 0, fmt.Errorf("creating route: %w", err)
		}
	default:
		return 0, fmt.Errorf("looking up route: %w", err)
	}

	b.log.Debug().Str("route", route.Name).Uint("id", rec.ID).Msg("Route saved")
	return rec.ID, nil
}

// GetRoute loads a route and its checkpoints by name.
func (b *Backend) GetRoute(name string) (nav.PlannedRoute, error) {
	var rec model.RouteRecord
	err := b.db.Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Where("name = ?", name).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nav.PlannedRoute{}, fmt.Errorf("route %q: %w", name, model.ErrNotFound)
	}
	if err != nil {
		return nav.PlannedRoute{}, fmt.Errorf("loading route: %w", err)
	}
	return rec.Route(), nil
}

// ListRoutes returns all stored routes.
func (b *Backend) ListRoutes() ([]nav.PlannedRoute, error) {
	var recs []model.RouteRecord
	err := b.db.Preload("Checkpoints", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Order("name ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}

	routes := make([]nav.PlannedRoute, 0, len(recs))
	for _, rec := range recs {
		routes = append(routes, rec.Route())
	}
	return routes, nil
}

// SaveFlight creates a flight record, assigning its ID.
func (b *Backend) SaveFlight(flight *model.FlightRecord) error {
	if err := b.db.Create(flight).Error; err != nil {
		return fmt.Errorf("creating flight: %w", err)
	}
	return nil
}

// SaveScore persists a scoring result for a flight.
func (b *Backend) SaveScore(flightID uint, result nav.ScoreResult, scoredAt time.Time) (uint, error) {
	rec, err := model.NewScoreRecord(flightID, result, scoredAt)
	if err != nil {
		return 0, err
	}
	if err := b.db.Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("creating score: %w", err)
	}

	b.log.Debug().
		Str("route", result.RouteName).
		Float64("overall", result.OverallScore).
		Msg("Score saved")
	return rec.ID, nil
}

// ListScores returns scores for the named route ordered best first, or all
// scores when name is empty.
func (b *Backend) ListScores(routeName string) ([]model.ScoreRecord, error) {
	q := b.db.Preload("Flight").Order("overall_score ASC")
	if routeName != "" {
		q = q.Where("route_name = ?", routeName)
	}

	var recs []model.ScoreRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	return recs, nil
}
