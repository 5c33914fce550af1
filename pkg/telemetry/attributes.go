// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jllopis/screenplay/pkg/narration"
)

// Attribute keys for narration telemetry.
const (
	AttrChannel  = "screenplay.narration.channel"
	AttrGravitas = "screenplay.narration.gravitas"
	AttrLine     = "screenplay.narration.line"
	AttrText     = "screenplay.narration.text"

	// AttrFieldPrefix prefixes every templated field of an entry.
	AttrFieldPrefix = "screenplay.field."

	AttrErrorCode      = "screenplay.error.code"
	AttrAttachmentPath = "screenplay.attachment.path"
	AttrAttachmentMeta = "screenplay.attachment.meta."
)

// EntryAttributes describes a narration entry as span attributes. Fields
// are emitted in key order.
func EntryAttributes(e narration.Entry) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrChannel, string(e.Channel)),
		attribute.String(AttrGravitas, e.Gravitas.String()),
		attribute.String(AttrLine, e.Line),
		attribute.String(AttrText, e.Text()),
	}
	for _, key := range slices.Sorted(maps.Keys(e.Fields)) {
		attrs = append(attrs, value(AttrFieldPrefix+key, e.Fields[key]))
	}
	return attrs
}

// AttachmentAttributes describes a file attachment.
func AttachmentAttributes(path string, meta map[string]any) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrAttachmentPath, path)}
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		attrs = append(attrs, value(AttrAttachmentMeta+key, meta[key]))
	}
	return attrs
}

func value(key string, v any) attribute.KeyValue {
	switch typed := v.(type) {
	case string:
		return attribute.String(key, typed)
	case bool:
		return attribute.Bool(key, typed)
	case int:
		return attribute.Int(key, typed)
	case int64:
		return attribute.Int64(key, typed)
	case float64:
		return attribute.Float64(key, typed)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
