// Package database manages the score archive connection. Postgres is the
// primary backend; a local SQLite database is the fallback so a scoring line
// at a remote airfield keeps working without the central server.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adequatepilot/nav-scoring-sub000/internal/model"
)

// Manager handles database connections and operations.
type Manager struct {
	DB              *gorm.DB
	SqlDB           *sql.DB
	IsValid         bool
	ShouldSaveLocal bool
	SqliteFilePath  string
	Logger          zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid:         false,
		ShouldSaveLocal: false,
		Logger:          log,
	}
}

// Connect establishes a database connection, falling back to SQLite if Postgres fails.
func (m *Manager) Connect() error {
	var err error

	m.DB, err = m.GetPostgresDB()
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		m.ShouldSaveLocal = true
		m.DB, err = m.GetSqliteDB("")
		if err != nil || m.DB == nil {
			m.IsValid = false
			return fmt.Errorf("failed to get local SQLite DB: %s", err)
		}
		m.IsValid = true
	}

	// test connection
	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %s", err)
	}

	err = m.SqlDB.Ping()
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to validate connection, trying SQLite")
		m.ShouldSaveLocal = true
		m.DB, err = m.GetSqliteDB("")
		if err != nil || m.DB == nil {
			m.IsValid = false
			return fmt.Errorf("failed to get local SQLite DB: %s", err)
		}
		m.IsValid = true
	} else {
		m.Logger.Info().Msg("Connected to database")
		m.IsValid = true
	}

	if !m.IsValid {
		return fmt.Errorf("db not valid. not saving")
	}

	if !m.ShouldSaveLocal {
		m.SqlDB.SetMaxOpenConns(10)
	}

	return nil
}

// GetPostgresDB returns a connection to the Postgres database.
func (m *Manager) GetPostgresDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)

	m.Logger.Debug().Msgf("Connecting to Postgres DB at '%s'", dsn)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if path != "" {
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
			CreateBatchSize:        1000,
			Logger:                 logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			m.IsValid = false
			return nil, err
		}
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	} else {
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
			CreateBatchSize:        1000,
			Logger:                 logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			m.IsValid = false
			return nil, err
		}
		m.Logger.Info().Msg("Using local SQLite DB in memory with periodic disk dump")
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA page_size = 32768;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %s", err)
		}
	}

	return db, nil
}

// Setup migrates tables and creates default competition settings if they don't exist.
func (m *Manager) Setup() error {
	if !m.DB.Migrator().HasTable(&model.CompetitionInfo{}) {
		err := m.DB.AutoMigrate(&model.CompetitionInfo{})
		if err != nil {
			m.IsValid = false
			return fmt.Errorf("failed to create competition_infos table: %s", err)
		}
		err = m.DB.Create(&model.CompetitionInfo{
			CompetitionName: "Regional NAV",
			Organizer:       "unset",
			Website:         "",
		}).Error
		if err != nil {
			m.IsValid = false
			return fmt.Errorf("failed to create competition_infos entry: %s", err)
		}
	}

	m.Logger.Info().Msg("Migrating schema")
	var err error
	if m.ShouldSaveLocal {
		err = m.DB.AutoMigrate(model.DatabaseModelsSQLite...)
	} else {
		err = m.DB.AutoMigrate(model.DatabaseModels...)
	}
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %s", err)
	}

	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// DumpMemoryToDisk vacuums the in-memory database to a file.
func (m *Manager) DumpMemoryToDisk() error {
	if m.SqliteFilePath == "" {
		return fmt.Errorf("sqlite file path not set")
	}

	// remove existing file if it exists
	if exists, err := os.Stat(m.SqliteFilePath); err == nil && exists != nil {
		if err := os.Remove(m.SqliteFilePath); err != nil {
			return fmt.Errorf("error removing existing DB file: %s", err)
		}
	}

	start := time.Now()
	err := m.DB.Exec("VACUUM INTO 'file:" + m.SqliteFilePath + "';").Error
	if err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %s", err)
	}

	m.Logger.Debug().Dur("duration", time.Since(start)).Msg("Dumped memory DB to disk")
	return nil
}

// GetBackupDBPaths returns paths to all .db files in the given directory.
func GetBackupDBPaths(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dbPaths []string
	for _, file := range files {
		if !file.IsDir() && len(file.Name()) > 3 && file.Name()[len(file.Name())-3:] == ".db" {
			dbPaths = append(dbPaths, dir+"/"+file.Name())
		}
	}
	return dbPaths, nil
}
