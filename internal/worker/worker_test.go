package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/engine"
	"github.com/adequatepilot/nav-scoring-sub000/internal/service"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/memory"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// recordLogger keeps the key/value pairs of each Info call.
type recordLogger struct {
	mu   sync.Mutex
	info []map[string]any
}

func (l *recordLogger) Debug(string, ...any) {}
func (l *recordLogger) Error(string, ...any) {}
func (l *recordLogger) Info(msg string, kv ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := map[string]any{"msg": msg}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			entry[k] = kv[i+1]
		}
	}
	l.info = append(l.info, entry)
}

func testRoute() nav.PlannedRoute {
	return nav.PlannedRoute{
		Name: "NAV 4",
		Gate: nav.StartGate{Name: "GATE", Lat: 35.0, Lon: -106.0},
		Checkpoints: []nav.Checkpoint{
			{Name: "ALPHA", Lat: 35.2, Lon: -106.0, RadiusNM: 0.25, Seq: 1},
			{Name: "BRAVO", Lat: 35.5, Lon: -106.0, RadiusNM: 0.25, Seq: 2},
		},
	}
}

func testPlan() nav.FlightPlan {
	return nav.FlightPlan{LegTimesSec: []float64{90, 200}, TotalTimeSec: 290, FuelGal: 10.0}
}

// writeTestGPX writes a clean run over the test route and returns the path.
func writeTestGPX(t *testing.T, dir, name string) string {
	t.Helper()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	fixes := []struct {
		lat, lon float64
		sec      int
		speedKts float64
	}{
		{35.0, -106.0, 0, 35},
		{35.1, -106.0, 50, 90},
		{35.2, -106.0, 100, 90},
		{35.3, -106.0, 150, 90},
		{35.4, -106.0, 220, 90},
		{35.5, -106.0, 300, 90},
		{35.6, -106.0, 350, 90},
	}

	var body string
	for _, f := range fixes {
		body += fmt.Sprintf(
			"<trkpt lat=\"%f\" lon=\"%f\"><time>%s</time><extensions><speed>%f</speed></extensions></trkpt>",
			f.lat, f.lon,
			start.Add(time.Duration(f.sec)*time.Second).Format(time.RFC3339),
			f.speedKts/1.943844)
	}
	doc := `<?xml version="1.0"?><gpx version="1.1"><trk><trkseg>` + body + `</trkseg></trk></gpx>`

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func newTestService(t *testing.T) (*service.Service, *memory.Backend) {
	t.Helper()

	store := memory.New(config.MemoryConfig{})
	require.NoError(t, store.Init())
	_, err := store.SaveRoute(testRoute())
	require.NoError(t, err)

	svc, err := service.New(engine.New(engine.DefaultConfig(), nil), store, nopLogger{})
	require.NoError(t, err)
	return svc, store
}

func TestPool_Run_ScoresAllJobs(t *testing.T) {
	svc, store := newTestService(t)
	dir := t.TempDir()

	var jobs []Job
	for i := 0; i < 3; i++ {
		jobs = append(jobs, Job{
			RouteName: "NAV 4",
			GPXPath:   writeTestGPX(t, dir, fmt.Sprintf("flight%d.gpx", i)),
			Plan:      testPlan(),
			Actuals:   nav.FlightActuals{FuelGal: 10.0},
			Info:      service.FlightInfo{Pilot: fmt.Sprintf("Pilot %d", i)},
		})
	}

	outcomes := NewPool(svc, 2, nopLogger{}).Run(context.Background(), jobs)

	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.Len(t, o.Result.Checkpoints, 2)
	}

	scores, err := store.ListScores("NAV 4")
	require.NoError(t, err)
	assert.Len(t, scores, 3)
}

func TestPool_Run_FailedJobDoesNotAbortBatch(t *testing.T) {
	svc, store := newTestService(t)
	dir := t.TempDir()

	jobs := []Job{
		{
			RouteName: "NAV 4",
			GPXPath:   writeTestGPX(t, dir, "good.gpx"),
			Plan:      testPlan(),
			Actuals:   nav.FlightActuals{FuelGal: 10.0},
			Info:      service.FlightInfo{Pilot: "A"},
		},
		{
			RouteName: "NAV 4",
			GPXPath:   filepath.Join(dir, "missing.gpx"),
			Plan:      testPlan(),
			Actuals:   nav.FlightActuals{FuelGal: 10.0},
			Info:      service.FlightInfo{Pilot: "B"},
		},
	}

	log := &recordLogger{}
	outcomes := NewPool(svc, 2, log).Run(context.Background(), jobs)

	require.Len(t, outcomes, 2)
	var failed, succeeded int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, succeeded)

	scores, err := store.ListScores("NAV 4")
	require.NoError(t, err)
	assert.Len(t, scores, 1)

	// The batch summary carries the failure count.
	var summary map[string]any
	for _, e := range log.info {
		if e["msg"] == "batch complete" {
			summary = e
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary["jobs"])
	assert.Equal(t, 1, summary["failed"])
}

func TestPool_Run_CancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{
		RouteName: "NAV 4",
		GPXPath:   writeTestGPX(t, dir, "flight.gpx"),
		Plan:      testPlan(),
		Actuals:   nav.FlightActuals{FuelGal: 10.0},
	}}

	outcomes := NewPool(svc, 1, nopLogger{}).Run(ctx, jobs)

	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestPool_Run_NoJobs(t *testing.T) {
	svc, _ := newTestService(t)

	outcomes := NewPool(svc, 4, nopLogger{}).Run(context.Background(), nil)
	assert.Empty(t, outcomes)
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	jobs := []Job{{
		RouteName: "NAV 4",
		GPXPath:   writeTestGPX(t, dir, "flight.gpx"),
		Plan:      testPlan(),
		Actuals:   nav.FlightActuals{FuelGal: 10.0},
	}}

	outcomes := NewPool(svc, 0, nopLogger{}).Run(context.Background(), jobs)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
}
