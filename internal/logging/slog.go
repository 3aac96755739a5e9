package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// stdout indirection for tests.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

// SlogManager manages slog-based logging for scoring runs. Records fan out to
// a local file (or stdout when no file is given) and, when configured, to a
// remote GELF endpoint.
type SlogManager struct {
	logger *slog.Logger
	remote io.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. With a file writer, records go to the
// file; without one, to stdout. A non-nil remote writer (see NewGraylogWriter)
// additionally receives every record as JSON. A non-nil provider injects
// dynamic attributes, such as the route and pilot of the current run, into
// each record.
func (m *SlogManager) Setup(file io.Writer, level string, remote io.Writer, provider ContextProvider) {
	lvl := parseLevel(level)
	m.remote = remote

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	if remote != nil {
		handlers = append(handlers, slog.NewJSONHandler(remote, handlerOpts))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		handler = NewContextHandler(handler, provider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Close releases the remote writer if it holds a connection.
func (m *SlogManager) Close() error {
	if c, ok := m.remote.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteLog writes a log entry with the specified function name, data, and level.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m.logger == nil {
		return
	}

	lvl := parseLevel(level)

	switch lvl {
	case slog.LevelDebug:
		m.logger.Debug(data, "function", functionName)
	case slog.LevelInfo:
		m.logger.Info(data, "function", functionName)
	case slog.LevelWarn:
		m.logger.Warn(data, "function", functionName)
	case slog.LevelError:
		m.logger.Error(data, "function", functionName)
	default:
		m.logger.Info(data, "function", functionName)
	}
}
