package provider

import (
	"context"

	"github.com/kbukum/longreader/observability"
)

// HealthCheck reports a provider's availability as a component health entry.
func HealthCheck(p Provider) observability.HealthChecker {
	return observability.HealthCheckFunc(func(ctx context.Context) observability.Health {
		if p.IsAvailable(ctx) {
			return observability.Health{Name: p.Name(), Status: observability.HealthStatusUp}
		}
		return observability.Health{
			Name:    p.Name(),
			Status:  observability.HealthStatusDown,
			Message: "provider unavailable",
		}
	})
}
