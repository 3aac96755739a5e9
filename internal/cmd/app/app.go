// Package app assembles the runtime pieces every CLI command needs: config,
// logging, metrics, storage, and the scoring service.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/adequatepilot/nav-scoring-sub000/internal/config"
	"github.com/adequatepilot/nav-scoring-sub000/internal/engine"
	"github.com/adequatepilot/nav-scoring-sub000/internal/influx"
	"github.com/adequatepilot/nav-scoring-sub000/internal/logging"
	intotel "github.com/adequatepilot/nav-scoring-sub000/internal/otel"
	"github.com/adequatepilot/nav-scoring-sub000/internal/service"
	"github.com/adequatepilot/nav-scoring-sub000/internal/storage"
)

// App holds the wired runtime for one CLI invocation.
type App struct {
	Logger    *slog.Logger
	Slog      *logging.SlogManager
	Store     storage.Backend
	Telemetry *influx.Manager
	OTel      *intotel.Provider

	logFile *os.File
}

// New loads configuration from configDir and brings up logging, metrics,
// and the configured storage backend.
func New(configDir string) (*App, error) {
	a := &App{Slog: logging.NewSlogManager()}

	if err := config.Load(configDir); err != nil {
		// defaults still apply; note it once logging is up
		defer func() {
			if a.Logger != nil {
				a.Logger.Warn("config file not loaded, using defaults", "error", err)
			}
		}()
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}

	logPath := logging.LogFilePath(logsDir, "navscore", time.Now())
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	a.logFile = logFile

	var remote io.Writer
	if viper.GetBool("graylog.enabled") {
		remote, err = logging.NewGraylogWriter(
			viper.GetString("graylog.address"),
			viper.GetString("graylog.facility"))
		if err != nil {
			return nil, fmt.Errorf("connecting to graylog: %w", err)
		}
	}

	a.Slog.Setup(logFile, viper.GetString("logLevel"), remote, nil)
	a.Logger = a.Slog.Logger()

	otelCfg := config.GetOTelConfig()
	a.OTel, err = intotel.New(intotel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		MetricWriter: logFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}
	a.OTel.SetGlobal()

	zlog := zerolog.New(logFile).With().Timestamp().Logger()

	a.Store, err = storage.NewBackend(config.GetStorageConfig(), zlog)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	if err := a.Store.Init(); err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	if viper.GetBool("influx.enabled") {
		m := influx.NewManager(zlog, filepath.Join(logsDir, "metrics_backup.gzip"))
		if err := m.Connect(); err != nil {
			a.Logger.Error("influx connect failed, telemetry disabled", "error", err)
		} else {
			m.CreateWriters()
			a.Telemetry = m
		}
	}

	return a, nil
}

// NewService builds the scoring service on the app's storage and telemetry.
func (a *App) NewService() (*service.Service, error) {
	eng := engine.New(engine.ConfigFromViper(), a.Logger)
	svc, err := service.New(eng, a.Store, logging.NewServiceLogger(a.Logger))
	if err != nil {
		return nil, err
	}
	if a.Telemetry != nil {
		svc = svc.WithTelemetry(a.Telemetry)
	}
	return svc, nil
}

// Close flushes and releases everything New opened, last-writer first.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.Telemetry != nil {
		if err := a.Telemetry.Close(); err != nil {
			a.Logger.Error("closing telemetry", "error", err)
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Error("closing storage", "error", err)
		}
	}
	if a.OTel != nil {
		if err := a.OTel.Flush(ctx); err != nil {
			a.Logger.Error("flushing metrics", "error", err)
		}
		if err := a.OTel.Shutdown(ctx); err != nil {
			a.Logger.Error("shutting down metrics", "error", err)
		}
	}
	if err := a.Slog.Close(); err != nil {
		a.Logger.Error("closing log manager", "error", err)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
