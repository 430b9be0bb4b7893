package ledger

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/torres-mse/garage/internal/ledger"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
