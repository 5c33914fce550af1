// SPDX-License-Identifier: Apache-2.0
// Package telemetry wires narration into OpenTelemetry and slog.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

// NarrationMetrics counts narrated scopes, failures and attachments.
type NarrationMetrics struct {
	// scopeCounter tracks scopes by channel, gravitas and outcome
	scopeCounter metric.Int64Counter

	// scopeDuration tracks how long scopes stay open, in seconds
	scopeDuration metric.Float64Histogram

	// errorCounter tracks reported failures by code
	errorCounter metric.Int64Counter

	attachmentCounter metric.Int64Counter
}

// NewNarrationMetrics creates the instruments on the global meter provider.
func NewNarrationMetrics() (*NarrationMetrics, error) {
	return NewNarrationMetricsWith(otel.GetMeterProvider())
}

// NewNarrationMetricsWith creates the instruments on mp.
func NewNarrationMetricsWith(mp metric.MeterProvider) (*NarrationMetrics, error) {
	meter := mp.Meter("screenplay/narration")

	scopeCounter, err := meter.Int64Counter(
		"screenplay.narration.scopes",
		metric.WithDescription("Narrated scopes by channel, gravitas and outcome"),
	)
	if err != nil {
		return nil, err
	}

	scopeDuration, err := meter.Float64Histogram(
		"screenplay.narration.scope.duration",
		metric.WithDescription("Time a narrated scope stays open"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"screenplay.narration.errors",
		metric.WithDescription("Failures reported to the narrator by error code"),
	)
	if err != nil {
		return nil, err
	}

	attachmentCounter, err := meter.Int64Counter(
		"screenplay.narration.attachments",
		metric.WithDescription("Files attached to the narration"),
	)
	if err != nil {
		return nil, err
	}

	return &NarrationMetrics{
		scopeCounter:      scopeCounter,
		scopeDuration:     scopeDuration,
		errorCounter:      errorCounter,
		attachmentCounter: attachmentCounter,
	}, nil
}

// RecordScope records a closed scope.
func (nm *NarrationMetrics) RecordScope(ctx context.Context, channel narration.Channel, gravitas narration.Gravitas, elapsed time.Duration, failed bool) {
	if nm == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrChannel, string(channel)),
		attribute.String(AttrGravitas, gravitas.String()),
		attribute.String("outcome", outcome),
	)
	nm.scopeCounter.Add(ctx, 1, attrs)
	nm.scopeDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordError increments the error counter for err's code.
func (nm *NarrationMetrics) RecordError(ctx context.Context, err error) {
	if nm == nil || err == nil {
		return
	}
	nm.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrErrorCode, string(errors.CodeOf(err))),
		),
	)
}

// RecordAttachment increments the attachment counter.
func (nm *NarrationMetrics) RecordAttachment(ctx context.Context) {
	if nm == nil {
		return
	}
	nm.attachmentCounter.Add(ctx, 1)
}
