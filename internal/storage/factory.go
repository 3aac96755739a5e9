package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/database"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/gormdb"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/memory"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		m := database.NewManager(log)
		if err := m.Connect(); err != nil {
			return nil, fmt.Errorf("connecting postgres backend: %w", err)
		}
		return gormdb.New(m.DB, log), nil
	case "sqlite":
		b, err := sqlite.New(cfg.SQLite, log)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return b, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
