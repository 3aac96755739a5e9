package logging

import "log/slog"

// ServiceLogger adapts *slog.Logger to the service.Logger interface.
type ServiceLogger struct {
	logger *slog.Logger
}

// NewServiceLogger creates a new ServiceLogger wrapping an slog.Logger.
func NewServiceLogger(logger *slog.Logger) *ServiceLogger {
	return &ServiceLogger{logger: logger}
}

// Debug logs a debug message with optional key-value pairs.
func (l *ServiceLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message with optional key-value pairs.
func (l *ServiceLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

// Error logs an error message with optional key-value pairs.
func (l *ServiceLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}
