package telemetry

import (
	"context"

	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Tracer owns the OpenTelemetry providers configured by Uptrace.
// A nil Tracer is valid and does nothing.
type Tracer struct {
	serviceName string
}

// StartTracing configures OpenTelemetry to export to Uptrace.
// Returns nil when no DSN is configured.
func StartTracing(_ context.Context, cfg *config.Telemetry, component, version string) *Tracer {
	if cfg == nil || cfg.UptraceDSN == "" {
		return nil
	}

	serviceName := cfg.ServiceName
	if component != "" {
		serviceName += "-" + component
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(serviceName),
		uptrace.WithServiceVersion(version),
	)

	return &Tracer{serviceName: serviceName}
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t != nil
}

// Shutdown flushes pending spans and stops the exporters.
func (t *Tracer) Shutdown(ctx context.Context) {
	if t == nil {
		return
	}

	_ = uptrace.Shutdown(ctx)
}

// ServiceName returns the name spans are reported under.
func (t *Tracer) ServiceName() string {
	if t == nil {
		return ""
	}

	return t.serviceName
}
