package garage

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/torres-mse/garage/internal/garage"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
