package trace

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type InitConfig struct {
	ServiceName    string
	Version        string
	Exporter       string
	TraceEndpoint  string
	MetricEndpoint string
	// Output receives stdout exporter records, a file path.
	Output string
}

type provider struct {
	tp  *sdktrace.TracerProvider
	mp  *metric.MeterProvider
	out io.Closer
}

var (
	mu      sync.Mutex
	current *provider
)

// InitTrace installs the global tracer and meter providers. With the none
// exporter the otel no-op providers stay in place.
func InitTrace(ctx context.Context, conf *InitConfig) error {
	if conf == nil || conf.Exporter == "" || conf.Exporter == ExporterNone {
		return nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", conf.ServiceName),
		attribute.String("service.version", conf.Version),
	))
	if err != nil {
		return code.ParamErr.WithErr(err)
	}

	p := &provider{}
	var (
		spanExp   sdktrace.SpanExporter
		metricExp metric.Exporter
	)
	switch conf.Exporter {
	case ExporterStdout:
		f, err := os.OpenFile(conf.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return code.ParamErr.WithErr(err)
		}
		p.out = f
		if spanExp, err = stdouttrace.New(stdouttrace.WithWriter(f)); err != nil {
			_ = f.Close()
			return code.ParamErr.WithErr(err)
		}
		if metricExp, err = stdoutmetric.New(stdoutmetric.WithWriter(f)); err != nil {
			_ = f.Close()
			return code.ParamErr.WithErr(err)
		}
	case ExporterOTLP:
		if conf.TraceEndpoint == "" {
			return code.ParamErr.WithMsg("otlp exporter needs a trace endpoint")
		}
		exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(conf.TraceEndpoint),
			otlptracegrpc.WithInsecure(),
		))
		if err != nil {
			return code.ParamErr.WithErr(err)
		}
		spanExp = exp
		if conf.MetricEndpoint != "" {
			if metricExp, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(conf.MetricEndpoint),
				otlpmetricgrpc.WithInsecure(),
			); err != nil {
				_ = exp.Shutdown(ctx)
				return code.ParamErr.WithErr(err)
			}
		}
	default:
		return code.ParamErr.WithMsgf("unsupported trace exporter %q", conf.Exporter)
	}

	p.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	if metricExp != nil {
		p.mp = metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(metricExp, metric.WithInterval(15*time.Second))),
			metric.WithResource(res),
		)
		otel.SetMeterProvider(p.mp)
		if err := runtime.Start(runtime.WithMeterProvider(p.mp)); err != nil {
			logger.Warnf(ctx, "start runtime metrics err: %+v", err)
		}
		if err := host.Start(host.WithMeterProvider(p.mp)); err != nil {
			logger.Warnf(ctx, "start host metrics err: %+v", err)
		}
	}

	mu.Lock()
	current = p
	mu.Unlock()
	logger.Infof(ctx, "trace exporter %s enabled for %s", conf.Exporter, conf.ServiceName)
	return nil
}

// CloseTrace flushes pending spans and metrics.
func CloseTrace() {
	mu.Lock()
	p := current
	current = nil
	mu.Unlock()
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.tp.Shutdown(ctx); err != nil {
		logger.Errorf(ctx, "shutdown tracer provider err: %+v", err)
	}
	if p.mp != nil {
		if err := p.mp.Shutdown(ctx); err != nil {
			logger.Errorf(ctx, "shutdown meter provider err: %+v", err)
		}
	}
	if p.out != nil {
		_ = p.out.Close()
	}
}
