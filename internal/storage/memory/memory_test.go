package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

func testRoute(name string) nav.PlannedRoute {
	return nav.PlannedRoute{
		Name: name,
		Gate: nav.StartGate{Name: name, Lat: 35.0, Lon: -106.0},
		Checkpoints: []nav.Checkpoint{
			{Name: "ALPHA", Lat: 35.2, Lon: -106.0, RadiusNM: 0.25, Seq: 1},
		},
	}
}

func TestSaveAndGetRoute(t *testing.T) {
	b := New(config.MemoryConfig{})

	id, err := b.SaveRoute(testRoute("NAV 4"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := b.GetRoute("NAV 4")
	require.NoError(t, err)
	assert.Equal(t, "NAV 4", got.Name)
	require.Len(t, got.Checkpoints, 1)
}

func TestSaveRoute_ReplaceKeepsID(t *testing.T) {
	b := New(config.MemoryConfig{})

	id1, err := b.SaveRoute(testRoute("NAV 4"))
	require.NoError(t, err)

	updated := testRoute("NAV 4")
	updated.Checkpoints[0].RadiusNM = 0.5
	id2, err := b.SaveRoute(updated)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	got, err := b.GetRoute("NAV 4")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Checkpoints[0].RadiusNM)
}

func TestGetRoute_NotFound(t *testing.T) {
	b := New(config.MemoryConfig{})
	_, err := b.GetRoute("missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestListRoutes(t *testing.T) {
	b := New(config.MemoryConfig{})
	_, err := b.SaveRoute(testRoute("NAV 4"))
	require.NoError(t, err)
	_, err = b.SaveRoute(testRoute("NAV 5"))
	require.NoError(t, err)

	routes, err := b.ListRoutes()
	require.NoError(t, err)
	assert.Len(t, routes, 2)
}

func TestSaveFlightAssignsID(t *testing.T) {
	b := New(config.MemoryConfig{})

	flight := model.FlightRecord{Pilot: "R. Nelson", Aircraft: "C172"}
	require.NoError(t, b.SaveFlight(&flight))
	assert.NotZero(t, flight.ID)
}

func TestSaveAndListScores(t *testing.T) {
	b := New(config.MemoryConfig{})

	flight := model.FlightRecord{Pilot: "R. Nelson"}
	require.NoError(t, b.SaveFlight(&flight))

	result := nav.ScoreResult{RouteName: "NAV 4", OverallScore: 42}
	id, err := b.SaveScore(flight.ID, result, time.Now())
	require.NoError(t, err)
	assert.NotZero(t, id)

	other := nav.ScoreResult{RouteName: "NAV 5", OverallScore: 10}
	_, err = b.SaveScore(flight.ID, other, time.Now())
	require.NoError(t, err)

	scores, err := b.ListScores("NAV 4")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 42.0, scores[0].OverallScore)
	require.NotNil(t, scores[0].Flight)
	assert.Equal(t, "R. Nelson", scores[0].Flight.Pilot)

	all, err := b.ListScores("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClose_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.Init())

	flight := model.FlightRecord{Pilot: "R. Nelson"}
	require.NoError(t, b.SaveFlight(&flight))
	_, err := b.SaveScore(flight.ID, nav.ScoreResult{RouteName: "NAV 4", OverallScore: 42}, time.Now())
	require.NoError(t, err)

	require.NoError(t, b.Close())

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc export
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Scores, 1)
	assert.Equal(t, "NAV 4", doc.Scores[0].RouteName)
}

func TestClose_ExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.Init())

	flight := model.FlightRecord{Pilot: "R. Nelson"}
	require.NoError(t, b.SaveFlight(&flight))
	_, err := b.SaveScore(flight.ID, nav.ScoreResult{RouteName: "NAV 4"}, time.Now())
	require.NoError(t, err)

	require.NoError(t, b.Close())

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)
	assert.Contains(t, path, ".json.gz")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var doc export
	require.NoError(t, json.NewDecoder(gz).Decode(&doc))
	assert.Len(t, doc.Scores, 1)
}

func TestClose_NoScoresNoFile(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())
	assert.Empty(t, b.ExportedFilePath())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
