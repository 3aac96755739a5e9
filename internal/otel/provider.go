// Package otel wires the OpenTelemetry metrics pipeline for scoring runs.
package otel

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds OTel configuration
type Config struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	MetricWriter io.Writer // destination for exported metrics (required when enabled)
}

// Provider manages the OpenTelemetry meter provider.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates a new OTel provider with the given configuration.
// If OTel is disabled, returns a no-op provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{
		config: cfg,
	}

	if !cfg.Enabled {
		return p, nil
	}

	if cfg.MetricWriter == nil {
		return nil, fmt.Errorf("OTel enabled but no metric writer configured")
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.MetricWriter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.BatchTimeout
	if interval <= 0 {
		interval = 5 * time.Second
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(interval),
		)),
	)

	return p, nil
}

// SetGlobal installs the meter provider as the process-wide default so
// packages using the global otel.Meter pick it up. No-op when disabled.
func (p *Provider) SetGlobal() {
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
}

// Meter returns a meter with the given name for creating metrics.
// Returns a no-op meter when OTel is disabled.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return noop.Meter{}
	}
	return p.meterProvider.Meter(name)
}

// Flush forces a flush of all pending metrics.
// Use this after a scoring batch so nothing sits in the reader.
func (p *Provider) Flush(ctx context.Context) error {
	if !p.config.Enabled {
		return nil
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metric flush failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the meter provider.
// Should be called when the application exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.config.Enabled {
		return nil
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("metric shutdown failed: %w", err)
		}
	}

	return nil
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}
