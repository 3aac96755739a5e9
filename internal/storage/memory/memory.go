// Package memory stores scoring results in memory and exports them to JSON
// on close. It is the default backend for a single scoring session with no
// database at hand.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Backend stores routes, flights, and scores in memory.
type Backend struct {
	cfg config.MemoryConfig

	routes  map[string]routeEntry
	flights map[uint]model.FlightRecord
	scores  []model.ScoreRecord

	idCounter    uint
	exportedPath string
	mu           sync.RWMutex
}

type routeEntry struct {
	id    uint
	route nav.PlannedRoute
}

// export is the JSON document written on Close.
type export struct {
	ExportedAt time.Time            `json:"exportedAt"`
	Routes     []nav.PlannedRoute   `json:"routes"`
	Flights    []model.FlightRecord `json:"flights"`
	Scores     []model.ScoreRecord  `json:"scores"`
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		routes:  make(map[string]routeEntry),
		flights: make(map[uint]model.FlightRecord),
	}
}

// Init creates the output directory.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// Close exports the accumulated session to JSON.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.OutputDir == "" || len(b.scores) == 0 {
		return nil
	}
	return b.exportJSON()
}

// SaveRoute registers a route, replacing any previous route of the same name.
func (b *Backend) SaveRoute(route nav.PlannedRoute) (uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.routes[route.Name]; ok {
		b.routes[route.Name] = routeEntry{id: existing.id, route: route}
		return existing.id, nil
	}

	b.idCounter++
	b.routes[route.Name] = routeEntry{id: b.idCounter, route: route}
	return b.idCounter, nil
}

// GetRoute looks up a route by name.
func (b *Backend) GetRoute(name string) (nav.PlannedRoute, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.routes[name]
	if !ok {
		return nav.PlannedRoute{}, fmt.Errorf("route %q: %w", name, model.ErrNotFound)
	}
	return entry.route, nil
}

// ListRoutes returns all registered routes.
func (b *Backend) ListRoutes() ([]nav.PlannedRoute, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	routes := make([]nav.PlannedRoute, 0, len(b.routes))
	for _, entry := range b.routes {
		routes = append(routes, entry.route)
	}
	return routes, nil
}

// SaveFlight registers a flight and assigns its ID.
func (b *Backend) SaveFlight(flight *model.FlightRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	flight.ID = b.idCounter
	b.flights[flight.ID] = *flight
	return nil
}

// SaveScore records a scoring result for a flight.
func (b *Backend) SaveScore(flightID uint, result nav.ScoreResult, scoredAt time.Time) (uint, error) {
	rec, err := model.NewScoreRecord(flightID, result, scoredAt)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	rec.ID = b.idCounter
	b.scores = append(b.scores, rec)
	return rec.ID, nil
}

// ListScores returns scores for the named route, or all scores when name is
// empty.
func (b *Backend) ListScores(routeName string) ([]model.ScoreRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []model.ScoreRecord
	for _, rec := range b.scores {
		if routeName == "" || rec.RouteName == routeName {
			if flight, ok := b.flights[rec.FlightRecordID]; ok {
				f := flight
				rec.Flight = &f
			}
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OverallScore < out[j].OverallScore })
	return out, nil
}

// ExportedFilePath returns the path of the last JSON export, empty before
// Close.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}

// exportJSON writes the session to a timestamped file, gzipped when
// configured. Caller holds the lock.
func (b *Backend) exportJSON() error {
	doc := export{
		ExportedAt: time.Now().UTC(),
		Scores:     b.scores,
	}
	for _, entry := range b.routes {
		doc.Routes = append(doc.Routes, entry.route)
	}
	for _, flight := range b.flights {
		doc.Flights = append(doc.Flights, flight)
	}

	name := fmt.Sprintf("scores_%s.json", doc.ExportedAt.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(doc); err != nil {
			gz.Close()
			return fmt.Errorf("encoding export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("closing gzip writer: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
	}

	b.exportedPath = path
	return nil
}
