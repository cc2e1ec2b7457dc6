package solvation

import (
	"context"
	"time"

	"github.com/scienceol/solvation/pkg/common/code"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/scienceol/solvation/pkg/core/solvation"

type telemetry struct {
	tracer      trace.Tracer
	evaluations metric.Int64Counter
	failures    metric.Int64Counter
	duration    metric.Float64Histogram
}

func newTelemetry() *telemetry {
	meter := otel.Meter(instrumentation)
	t := &telemetry{tracer: otel.Tracer(instrumentation)}
	// instrument creation only fails on invalid names
	t.evaluations, _ = meter.Int64Counter("solvation.evaluations",
		metric.WithDescription("temperatures evaluated"))
	t.failures, _ = meter.Int64Counter("solvation.failures",
		metric.WithDescription("requests rejected, by error code"))
	t.duration, _ = meter.Float64Histogram("solvation.request.duration",
		metric.WithDescription("request wall time"), metric.WithUnit("s"))
	return t
}

// start opens a span for op; the returned func ends it and records metrics.
func (t *telemetry) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(points int, err error)) {
	begin := time.Now()
	ctx, span := t.tracer.Start(ctx, "solvation."+op, trace.WithAttributes(attrs...))
	return ctx, func(points int, err error) {
		opAttr := metric.WithAttributes(attribute.String("op", op))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			t.failures.Add(ctx, 1, opAttr, metric.WithAttributes(attribute.Int("code", code.CodeOf(err).Int())))
		} else {
			span.SetAttributes(attribute.Int("points", points))
			t.evaluations.Add(ctx, int64(points), opAttr)
		}
		t.duration.Record(ctx, time.Since(begin).Seconds(), opAttr)
		span.End()
	}
}
