// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	defaultSetupOnce sync.Once
	globalProvider   *Provider
	setupMutex       sync.Mutex
	isSetup          bool
)

// DefaultSetup initializes OpenTelemetry with a no-op provider. It is safe to
// call multiple times; only the first call has an effect.
func DefaultSetup() {
	defaultSetupOnce.Do(func() {
		if _, err := Setup(context.Background(), WithServiceName("fand")); err != nil {
			otel.SetTracerProvider(otel.GetTracerProvider())
		}
	})
}

// Setup initializes the global telemetry provider from the given options. It
// returns a shutdown function that must be called when the application exits.
func Setup(ctx context.Context, opts ...Option) (func(context.Context) error, error) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	if isSetup {
		return func(context.Context) error { return nil }, fmt.Errorf("telemetry already initialized - multiple setup calls not allowed")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateServiceConfig(config); err != nil {
		return nil, fmt.Errorf("telemetry configuration validation failed: %w", err)
	}

	provider, err := NewProvider(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	globalProvider = provider
	isSetup = true

	shutdown := func(shutdownCtx context.Context) error {
		setupMutex.Lock()
		defer setupMutex.Unlock()

		if globalProvider != nil {
			err := globalProvider.Shutdown(shutdownCtx)
			globalProvider = nil
			isSetup = false
			return err
		}
		return nil
	}

	return shutdown, nil
}

// validateServiceConfig validates that the telemetry configuration is usable.
func validateServiceConfig(config *Config) error {
	if config.serviceName == "" {
		return fmt.Errorf("service name is mandatory and cannot be empty")
	}

	if !config.enableMetrics && !config.enableTraces {
		return fmt.Errorf("at least one telemetry signal (metrics or traces) must be enabled")
	}

	return nil
}

// ForceSetup allows overriding the setup lock for testing purposes only.
// This function should NEVER be used in production code.
func ForceSetup(ctx context.Context, opts ...Option) (func(context.Context) error, error) {
	setupMutex.Lock()
	if globalProvider != nil {
		globalProvider.Shutdown(ctx)
	}

	isSetup = false
	globalProvider = nil
	setupMutex.Unlock()

	return Setup(ctx, opts...)
}

// GetTracer returns a tracer with the given name from the global provider,
// auto-initializing a no-op provider if none has been set up yet.
func GetTracer(name string) trace.Tracer {
	if !IsInitialized() {
		DefaultSetup()
	}

	setupMutex.Lock()
	defer setupMutex.Unlock()

	if globalProvider != nil {
		return globalProvider.Tracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}

// GetMeter returns a meter with the given name from the global provider,
// auto-initializing a no-op provider if none has been set up yet.
func GetMeter(name string) metric.Meter {
	if !IsInitialized() {
		DefaultSetup()
	}

	setupMutex.Lock()
	defer setupMutex.Unlock()

	if globalProvider != nil {
		return globalProvider.Meter(name)
	}
	return otel.GetMeterProvider().Meter(name)
}

// GetLogger returns a logger with the given name, tagged as a component of
// the default structured logger.
func GetLogger(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// IsInitialized returns true if a global telemetry provider has been initialized.
func IsInitialized() bool {
	setupMutex.Lock()
	defer setupMutex.Unlock()
	return globalProvider != nil && isSetup
}

// MustBeInitialized panics if telemetry is not properly initialized.
func MustBeInitialized() {
	if !IsInitialized() {
		panic("telemetry must be initialized before use")
	}
}

// GetProviderInfo returns information about the current telemetry provider,
// for debugging and configuration validation.
func GetProviderInfo() map[string]interface{} {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	info := map[string]interface{}{
		"initialized": isSetup,
		"provider":    globalProvider != nil,
	}

	if globalProvider != nil && globalProvider.config != nil {
		info["exporter_type"] = globalProvider.config.exporterType
		info["service_name"] = globalProvider.config.serviceName
		info["metrics_enabled"] = globalProvider.config.enableMetrics
		info["traces_enabled"] = globalProvider.config.enableTraces
	}

	return info
}
