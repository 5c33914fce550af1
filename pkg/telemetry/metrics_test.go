// SPDX-License-Identifier: Apache-2.0
package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	serrors "github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

func newTestMetrics(t *testing.T) (*NarrationMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	nm, err := NewNarrationMetricsWith(mp)
	if err != nil {
		t.Fatalf("failed to create narration metrics: %v", err)
	}
	return nm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sum(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	s, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected an int64 sum, got %T", data)
	}
	var total int64
	for _, dp := range s.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNarrationMetrics(t *testing.T) {
	nm, reader := newTestMetrics(t)
	ctx := context.Background()

	nm.RecordScope(ctx, narration.ChannelBeat, narration.Normal, 10*time.Millisecond, false)
	nm.RecordScope(ctx, narration.ChannelAct, narration.Heavy, time.Second, true)
	nm.RecordError(ctx, serrors.AssertionFailed("nope"))
	nm.RecordError(ctx, errors.New("plain"))
	nm.RecordError(ctx, nil)
	nm.RecordAttachment(ctx)

	data := collect(t, reader)
	if got := sum(t, data["screenplay.narration.scopes"]); got != 2 {
		t.Errorf("expected 2 scopes, got %d", got)
	}
	if got := sum(t, data["screenplay.narration.errors"]); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}
	if got := sum(t, data["screenplay.narration.attachments"]); got != 1 {
		t.Errorf("expected 1 attachment, got %d", got)
	}
	if _, ok := data["screenplay.narration.scope.duration"].(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected a duration histogram")
	}
}

func TestNilNarrationMetrics(t *testing.T) {
	var nm *NarrationMetrics
	ctx := context.Background()
	nm.RecordScope(ctx, narration.ChannelBeat, narration.Normal, time.Millisecond, false)
	nm.RecordError(ctx, errors.New("x"))
	nm.RecordAttachment(ctx)
}

func TestNewNarrationMetricsGlobal(t *testing.T) {
	nm, err := NewNarrationMetrics()
	if err != nil || nm == nil {
		t.Fatalf("expected metrics on the global provider, got %v", err)
	}
}
