// Package sqlite implements the storage.Backend interface using an in-memory
// SQLite database with periodic disk snapshots via VACUUM INTO. It wraps the
// GORM backend via composition; the only SQLite-specific concerns are
// (a) creating the in-memory DB, (b) the snapshot loop, and (c) a final
// snapshot on Close.
package sqlite

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/database"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/gormdb"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormdb.Backend
	mgr      *database.Manager
	cfg      config.SQLiteConfig
	log      zerolog.Logger
	stopChan chan struct{}
}

// New creates a SQLite storage backend. Data lives in memory; cfg.Path is
// where snapshots land.
func New(cfg config.SQLiteConfig, log zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(log)
	db, err := mgr.GetSqliteDB("")
	if err != nil {
		return nil, fmt.Errorf("creating in-memory SQLite DB: %w", err)
	}
	mgr.DB = db
	mgr.SqliteFilePath = cfg.Path
	mgr.ShouldSaveLocal = true
	mgr.IsValid = true

	return &Backend{
		Backend:  gormdb.New(db, log),
		mgr:      mgr,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema through the embedded GORM backend and starts the
// snapshot goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.Path != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	}

	return nil
}

// Close stops the snapshot goroutine, takes a final snapshot, and closes the
// embedded GORM backend.
func (b *Backend) Close() error {
	close(b.stopChan)

	if b.cfg.Path != "" {
		if err := b.mgr.DumpMemoryToDisk(); err != nil {
			b.log.Error().Err(err).Msg("final snapshot failed")
		}
	}
	return b.Backend.Close()
}

// ExportedFilePath returns the snapshot destination.
func (b *Backend) ExportedFilePath() string {
	return b.cfg.Path
}

// dumpLoop periodically snapshots the in-memory database to disk.
// VACUUM INTO is a point-in-time copy, so writers are never paused.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.mgr.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("periodic snapshot failed")
			}
		}
	}
}
