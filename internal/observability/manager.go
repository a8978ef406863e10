package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"interviewlens/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Manager owns the OpenTelemetry providers and the service instruments.
// A nil *Manager is valid and records nothing.
type Manager struct {
	cfg            config.ObservabilityConfig
	serviceName    string
	serviceVersion string

	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	manualReader   *sdkmetric.ManualReader
	prometheus     *prometheusEndpoint
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics from cfg. version is used when
// observability.serviceVersion is empty.
func NewManager(cfg config.ObservabilityConfig, version string) (*Manager, error) {
	om := &Manager{
		cfg:            cfg,
		serviceName:    cfg.ServiceName,
		serviceVersion: cfg.ServiceVersion,
	}
	if om.serviceVersion == "" {
		om.serviceVersion = version
	}
	if !cfg.Enabled {
		return om, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.serviceName),
			semconv.ServiceVersion(om.serviceVersion),
			attribute.String("service.instance.id", cfg.ServiceInstance),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := om.initTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return om, nil
}

func (om *Manager) initTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.cfg.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.cfg.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.cfg.OTLP.Enabled:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(om.cfg.OTLP.Endpoint)}
		if om.cfg.OTLP.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(om.cfg.OTLP.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(om.cfg.OTLP.Headers))
		}
		exporter, err = otlptracehttp.New(context.Background(), opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tpOpts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.cfg.SampleRate))),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, trace.WithBatcher(exporter))
	}
	tp := trace.NewTracerProvider(tpOpts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *Manager) initMetrics(res *resource.Resource) error {
	var readers []sdkmetric.Reader
	interval := om.cfg.Metrics.CollectionInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	if om.cfg.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.cfg.OTLP.Enabled {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(om.cfg.OTLP.Endpoint)}
		if om.cfg.OTLP.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(om.cfg.OTLP.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(om.cfg.OTLP.Headers))
		}
		exporter, err := otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.cfg.Prometheus.Enabled {
		endpoint, err := newPrometheusEndpoint(om.cfg.Prometheus)
		if err != nil {
			return err
		}
		om.prometheus = endpoint
		readers = append(readers, endpoint.reader)
	}

	if len(readers) == 0 {
		om.manualReader = sdkmetric.NewManualReader()
		readers = append(readers, om.manualReader)
	}

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(om.serviceName))
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

// StartPrometheusServer serves the scrape endpoint in the background when
// Prometheus export is enabled.
func (om *Manager) StartPrometheusServer() error {
	if om == nil || om.prometheus == nil {
		return nil
	}
	if err := om.prometheus.start(); err != nil {
		return err
	}
	om.shutdownFuncs = append(om.shutdownFuncs, om.prometheus.shutdown)
	return nil
}

// PrometheusHandler returns the scrape handler, or nil when disabled
func (om *Manager) PrometheusHandler() http.Handler {
	if om == nil || om.prometheus == nil {
		return nil
	}
	return om.prometheus.handler
}

// HTTPMiddleware instruments inbound requests
func (om *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.serviceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a named tracer, a no-op one when observability is off
func (om *Manager) Tracer(name string) oteltrace.Tracer {
	if om == nil || om.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown flushes exporters and stops the scrape server
func (om *Manager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
