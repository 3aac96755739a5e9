package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds local sqlite backend settings.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// StorageConfig selects and parameterizes the score persistence backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry metrics exporter settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./navscore-logs")

	viper.SetDefault("scoring.timePenaltyPerSec", 1.0)
	viper.SetDefault("scoring.defaultCheckpointRadiusNM", 0.25)
	viper.SetDefault("scoring.offCourseMinPenalty", 100.0)
	viper.SetDefault("scoring.offCourseMaxPenalty", 600.0)
	viper.SetDefault("scoring.offCourseMaxDistanceNM", 5.0)
	viper.SetDefault("scoring.offCourseStepNM", 0.01)
	viper.SetDefault("scoring.fuelOverMultiplier", 250.0)
	viper.SetDefault("scoring.fuelOverThreshold", 0.10)
	viper.SetDefault("scoring.fuelUnderMultiplier", 500.0)
	viper.SetDefault("scoring.checkpointSecretPenalty", 20.0)
	viper.SetDefault("scoring.enrouteSecretPenalty", 10.0)
	viper.SetDefault("scoring.minTakeoffSpeedKts", 20.0)
	viper.SetDefault("scoring.gateProximityNM", 0.5)
	viper.SetDefault("scoring.gateSearchFraction", 0.5)
	viper.SetDefault("scoring.maxTrackPoints", 0)
	viper.SetDefault("scoring.guardRadiusNM", 1.0)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "navscore")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./scores")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./navscore.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "navscore-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
	viper.SetDefault("graylog.facility", "navscore")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "navscore")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("navscore.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetStorageConfig returns the storage section as a struct.
func GetStorageConfig() StorageConfig {
	var sc StorageConfig
	sc.Type = viper.GetString("storage.type")
	sc.Memory.OutputDir = viper.GetString("storage.memory.outputDir")
	sc.Memory.CompressOutput = viper.GetBool("storage.memory.compressOutput")
	sc.SQLite.Path = viper.GetString("storage.sqlite.path")
	sc.SQLite.DumpInterval = viper.GetDuration("storage.sqlite.dumpInterval")
	return sc
}

// GetOTelConfig returns the otel section as a struct.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
