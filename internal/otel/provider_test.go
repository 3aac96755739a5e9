package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	// No-op paths must not error.
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.Meter("navscore"))
}

func TestNew_EnabledRequiresWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "navscore"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no metric writer")
}

func TestNew_EnabledExportsMetrics(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{
		Enabled:      true,
		ServiceName:  "navscore",
		BatchTimeout: time.Second,
		MetricWriter: &buf,
	})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	meter := p.Meter("navscore")
	counter, err := meter.Int64Counter("flights_scored")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Flush(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "flights_scored")
}
