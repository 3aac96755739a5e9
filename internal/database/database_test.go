package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager(zerolog.Nop())
	db, err := m.GetSqliteDB("")
	require.NoError(t, err)
	m.DB = db
	m.ShouldSaveLocal = true
	m.IsValid = true
	return m
}

func TestSetup_MigratesAndSeedsCompetitionInfo(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Setup())

	var info model.CompetitionInfo
	require.NoError(t, m.DB.First(&info).Error)
	assert.Equal(t, "Regional NAV", info.CompetitionName)

	for _, tbl := range []string{"routes", "checkpoints", "flights", "scores"} {
		assert.True(t, m.DB.Migrator().HasTable(tbl), "missing table %s", tbl)
	}
}

func TestSetup_Idempotent(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Setup())
	require.NoError(t, m.Setup())

	var count int64
	require.NoError(t, m.DB.Model(&model.CompetitionInfo{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRouteRoundTrip(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Setup())

	rec := model.RouteRecord{
		Name:    "NAV 4",
		GateLat: 35.0,
		GateLon: -106.0,
		Checkpoints: []model.CheckpointRecord{
			{Seq: 1, Name: "ALPHA", Lat: 35.2, Lon: -106.0, RadiusNM: 0.25},
			{Seq: 2, Name: "BRAVO", Lat: 35.5, Lon: -106.0, RadiusNM: 0.25},
		},
	}
	require.NoError(t, m.DB.Create(&rec).Error)

	var got model.RouteRecord
	require.NoError(t, m.DB.Preload("Checkpoints").Where("name = ?", "NAV 4").First(&got).Error)
	require.Len(t, got.Checkpoints, 2)
	assert.Equal(t, "BRAVO", got.Checkpoints[1].Name)
}

func TestDumpMemoryToDisk(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Setup())

	m.SqliteFilePath = filepath.Join(t.TempDir(), "navscore.db")
	require.NoError(t, m.DumpMemoryToDisk())

	info, err := os.Stat(m.SqliteFilePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDumpMemoryToDisk_NoPath(t *testing.T) {
	m := newTestManager(t)
	err := m.DumpMemoryToDisk()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite file path not set")
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.db"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.db"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}
