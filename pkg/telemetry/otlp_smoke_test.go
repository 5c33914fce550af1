package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestOTLPSmoke(t *testing.T) {
	if os.Getenv("SCREENPLAY_OTLP_SMOKE_TEST") != "1" {
		t.Skip("set SCREENPLAY_OTLP_SMOKE_TEST=1 to run")
	}

	endpoint := os.Getenv("SCREENPLAY_TELEMETRY__OTLP_ENDPOINT")
	if endpoint == "" {
		t.Skip("set SCREENPLAY_TELEMETRY__OTLP_ENDPOINT for OTLP smoke test")
	}

	cfg := Config{
		Exporter:     "otlp",
		OTLPEndpoint: endpoint,
		OTLPInsecure: os.Getenv("SCREENPLAY_TELEMETRY__OTLP_INSECURE") == "true",
	}

	shutdown, err := InitWithConfig("telemetry-smoke-test", "v0.1.0", cfg)
	if err != nil {
		t.Fatalf("failed to init telemetry: %v", err)
	}

	tracer := otel.Tracer("screenplay/telemetry-smoke")
	ctx, span := tracer.Start(context.Background(), "smoke.span")
	span.SetAttributes(attribute.String("smoke.test", "otlp"))
	span.End()

	metrics, err := NewNarrationMetrics()
	if err == nil {
		metrics.RecordAttachment(ctx)
	}

	time.Sleep(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("telemetry shutdown failed: %v", err)
	}
}
