package storage

import (
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// ErrNotFound is returned when a requested route or flight does not exist.
// It aliases the model package's sentinel so backends can return it without
// importing this package.
var ErrNotFound = model.ErrNotFound

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Route management
	SaveRoute(route nav.PlannedRoute) (uint, error)
	GetRoute(name string) (nav.PlannedRoute, error)
	ListRoutes() ([]nav.PlannedRoute, error)

	// Flight and score recording
	SaveFlight(flight *model.FlightRecord) error
	SaveScore(flightID uint, result nav.ScoreResult, scoredAt time.Time) (uint, error)
	ListScores(routeName string) ([]model.ScoreRecord, error)
}

// Exportable is an optional interface for backends that write their contents
// to a file, used by the score command to report where results landed.
type Exportable interface {
	ExportedFilePath() string
}
