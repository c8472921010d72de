package scripting

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/halcyon-engine/missions/internal/scripting"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
