// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider encapsulates the OpenTelemetry trace and meter providers.
type Provider struct {
	config        *Config
	traceProvider *trace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
	resource      *resource.Resource
}

// NewProvider creates a new telemetry provider with the given configuration options.
func NewProvider(opts ...Option) (*Provider, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.samplingRatio < 0.0 || config.samplingRatio > 1.0 {
		return nil, fmt.Errorf("%w: sampling ratio %f out of range", ErrInvalidConfiguration, config.samplingRatio)
	}

	res, err := createResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := &Provider{config: config, resource: res}
	if err := provider.setupProviders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExporterSetupFailed, err)
	}

	provider.setGlobalProviders()
	setupTextMapPropagator()

	return provider, nil
}

// Tracer returns a tracer with the given name.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	if p.traceProvider == nil {
		return tracenoop.NewTracerProvider().Tracer(name)
	}
	return p.traceProvider.Tracer(name)
}

// Meter returns a meter with the given name.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.meterProvider.Meter(name)
}

// Shutdown gracefully shuts down both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrShutdownFailed, errs)
	}
	return nil
}

func createResource(config *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.serviceName),
		semconv.ServiceVersion(config.serviceVersion),
	}
	for key, value := range config.resourceAttrs {
		attrs = append(attrs, attribute.String(key, value))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func (p *Provider) setupProviders() error {
	if p.config.enableTraces {
		if err := p.setupTraceProvider(); err != nil {
			return fmt.Errorf("failed to setup trace provider: %w", err)
		}
	}
	if p.config.enableMetrics {
		if err := p.setupMeterProvider(); err != nil {
			return fmt.Errorf("failed to setup meter provider: %w", err)
		}
	}
	return nil
}

func (p *Provider) setupTraceProvider() error {
	opts := []trace.TracerProviderOption{
		trace.WithResource(p.resource),
		trace.WithSampler(trace.TraceIDRatioBased(p.config.samplingRatio)),
	}

	if p.config.exporterType == Stdout {
		exporter, err := stdouttrace.New(stdouttrace.WithoutTimestamps())
		if err != nil {
			return fmt.Errorf("create stdout trace exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(exporter))
	}

	p.traceProvider = trace.NewTracerProvider(opts...)
	return nil
}

func (p *Provider) setupMeterProvider() error {
	opts := []sdkmetric.Option{sdkmetric.WithResource(p.resource)}

	if p.config.exporterType == Stdout {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("create stdout metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	p.meterProvider = sdkmetric.NewMeterProvider(opts...)
	return nil
}

func (p *Provider) setGlobalProviders() {
	if p.traceProvider != nil {
		otel.SetTracerProvider(p.traceProvider)
	}
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
}

func setupTextMapPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
