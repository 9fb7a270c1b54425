// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import "errors"

var (
	// ErrInvalidExporterType names an unsupported exporter type. NewProvider does
	// not return it: an exporter type other than Stdout gets no exporter.
	ErrInvalidExporterType = errors.New("invalid exporter type")

	// ErrProviderNotInitialized names use of a provider that hasn't been
	// initialized. Nothing in this package returns it: GetTracer and GetMeter
	// run DefaultSetup on first use instead.
	ErrProviderNotInitialized = errors.New("provider not initialized")

	// ErrInvalidConfiguration is returned when the telemetry configuration is invalid.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrShutdownFailed is returned when the provider fails to shutdown cleanly.
	ErrShutdownFailed = errors.New("shutdown failed")

	// ErrExporterSetupFailed is returned when an exporter fails to initialize.
	ErrExporterSetupFailed = errors.New("exporter setup failed")
)
