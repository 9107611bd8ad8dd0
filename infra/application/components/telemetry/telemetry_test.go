package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestStartInstallsProviders(t *testing.T) {
	tc := NewTelemetryComponent(&Config{Enabled: true, ServiceName: "todolist-test", Exporter: ExporterNone})
	ctx := context.Background()
	if err := tc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tc.Stop(ctx)

	if err := tc.HealthCheck(); err != nil {
		t.Fatalf("health: %v", err)
	}
	_, span := otel.Tracer("t").Start(ctx, "op")
	defer span.End()
	if !span.SpanContext().IsValid() {
		t.Fatalf("global tracer should produce valid spans after start")
	}
}

func TestStartRequiresServiceName(t *testing.T) {
	tc := NewTelemetryComponent(&Config{Enabled: true, Exporter: ExporterNone})
	if err := tc.Start(context.Background()); err == nil {
		t.Fatalf("expected error without service name")
	}
}

func TestOTLPRequiresEndpoint(t *testing.T) {
	tc := NewTelemetryComponent(&Config{Enabled: true, ServiceName: "s", Exporter: ExporterOTLP})
	if err := tc.Start(context.Background()); err == nil {
		t.Fatalf("expected error without endpoint")
	}
}
