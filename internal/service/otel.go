package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/adequatepilot/nav-scoring-sub000/internal/service"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
