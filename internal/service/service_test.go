package service

import (
	"context"
	"errors"
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
	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/memory"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// testLogger records log calls for assertions.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+msg)
}

func (l *testLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *testLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *testLogger) Error(msg string, _ ...any) { l.record("error", msg) }

func (l *testLogger) has(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == entry {
			return true
		}
	}
	return false
}

var trackStart = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func trackFix(lat, lon float64, offsetSec int, speedKts float64) nav.TrackPoint {
	return nav.TrackPoint{
		Lat:            lat,
		Lon:            lon,
		Time:           trackStart.Add(time.Duration(offsetSec) * time.Second),
		GroundSpeedKts: speedKts,
		HasSpeed:       true,
	}
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

func testTrack() []nav.TrackPoint {
	return []nav.TrackPoint{
		trackFix(35.0, -106.0, 0, 35),
		trackFix(35.1, -106.0, 50, 90),
		trackFix(35.2, -106.0, 100, 90),
		trackFix(35.3, -106.0, 150, 90),
		trackFix(35.4, -106.0, 220, 90),
		trackFix(35.5, -106.0, 300, 90),
		trackFix(35.6, -106.0, 350, 90),
	}
}

func testPlan() nav.FlightPlan {
	return nav.FlightPlan{
		LegTimesSec:  []float64{90, 200},
		TotalTimeSec: 290,
		FuelGal:      10.0,
	}
}

func newTestService(t *testing.T) (*Service, *memory.Backend, *testLogger) {
	t.Helper()

	store := memory.New(config.MemoryConfig{})
	require.NoError(t, store.Init())

	_, err := store.SaveRoute(testRoute())
	require.NoError(t, err)

	log := &testLogger{}
	svc, err := New(engine.New(engine.DefaultConfig(), nil), store, log)
	require.NoError(t, err)
	return svc, store, log
}

func TestScoreFlight_PersistsScore(t *testing.T) {
	svc, store, log := newTestService(t)

	result, err := svc.ScoreFlight(context.Background(), "NAV 4", testPlan(), nav.FlightActuals{FuelGal: 10.0},
		testTrack(), FlightInfo{Pilot: "R. Nelson", Aircraft: "C172"})
	require.NoError(t, err)
	assert.Greater(t, result.OverallScore, 0.0)

	scores, err := store.ListScores("NAV 4")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, result.OverallScore, scores[0].OverallScore)
	assert.NotZero(t, scores[0].FlightRecordID)

	assert.True(t, log.has("info: flight scored"))
}

func TestScoreFlight_UnknownRoute(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ScoreFlight(context.Background(), "NAV 99", testPlan(), nav.FlightActuals{FuelGal: 10.0},
		testTrack(), FlightInfo{Pilot: "R. Nelson"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestScoreFlight_EngineErrorLogged(t *testing.T) {
	svc, store, log := newTestService(t)

	// single fix: track too short to score
	_, err := svc.ScoreFlight(context.Background(), "NAV 4", testPlan(), nav.FlightActuals{FuelGal: 10.0},
		testTrack()[:1], FlightInfo{Pilot: "R. Nelson"})
	require.Error(t, err)

	scores, err2 := store.ListScores("")
	require.NoError(t, err2)
	assert.Empty(t, scores, "failed run must not persist a score")
	assert.True(t, log.has("error: scoring failed"))
}

func TestSaveRoute_InvalidatesCachedRoute(t *testing.T) {
	svc, _, _ := newTestService(t)

	// First run caches the two-checkpoint route.
	result, err := svc.ScoreFlight(context.Background(), "NAV 4", testPlan(), nav.FlightActuals{FuelGal: 10.0},
		testTrack(), FlightInfo{Pilot: "R. Nelson"})
	require.NoError(t, err)
	require.Len(t, result.Checkpoints, 2)

	// Replace the route with a single-checkpoint definition under the same name.
	shorter := testRoute()
	shorter.Checkpoints = shorter.Checkpoints[:1]
	_, err = svc.SaveRoute(shorter)
	require.NoError(t, err)

	plan := nav.FlightPlan{LegTimesSec: []float64{90}, TotalTimeSec: 90, FuelGal: 10.0}
	result, err = svc.ScoreFlight(context.Background(), "NAV 4", plan, nav.FlightActuals{FuelGal: 10.0},
		testTrack(), FlightInfo{Pilot: "R. Nelson"})
	require.NoError(t, err)
	assert.Len(t, result.Checkpoints, 1, "stale cached route used after replacement")
}

func TestScoreGPXFile(t *testing.T) {
	svc, store, _ := newTestService(t)

	var body string
	for _, p := range testTrack() {
		body += fmt.Sprintf(
			"<trkpt lat=\"%f\" lon=\"%f\"><time>%s</time><extensions><speed>%f</speed></extensions></trkpt>",
			p.Lat, p.Lon, p.Time.Format(time.RFC3339), p.GroundSpeedKts/1.943844)
	}
	doc := `<?xml version="1.0"?><gpx version="1.1"><trk><trkseg>` + body + `</trkseg></trk></gpx>`

	path := filepath.Join(t.TempDir(), "flight.gpx")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	result, err := svc.ScoreGPXFile(context.Background(), "NAV 4", path, testPlan(),
		nav.FlightActuals{FuelGal: 10.0}, FlightInfo{Pilot: "R. Nelson"})
	require.NoError(t, err)
	assert.Len(t, result.Checkpoints, 2)

	scores, err := store.ListScores("NAV 4")
	require.NoError(t, err)
	require.Len(t, scores, 1)
}

func TestScoreGPXFile_MissingFile(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ScoreGPXFile(context.Background(), "NAV 4", "/nonexistent/flight.gpx",
		testPlan(), nav.FlightActuals{FuelGal: 10.0}, FlightInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading track file")
}

func TestLeaderboard(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ScoreFlight(context.Background(), "NAV 4", testPlan(), nav.FlightActuals{FuelGal: 10.0},
		testTrack(), FlightInfo{Pilot: "R. Nelson"})
	require.NoError(t, err)

	board, err := svc.Leaderboard("NAV 4")
	require.NoError(t, err)
	assert.Len(t, board, 1)
}
