// internal/worker/otel.go
package worker

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/torres-mse/garage/internal/worker"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
