// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry provides OpenTelemetry setup for the daemon: a single
// entry point that wires the trace and meter providers to either a no-op
// backend or the stdout exporters, since this daemon runs standalone on
// embedded hardware with no collector to export to over the network.
//
// Call DefaultSetup once at startup before constructing a logger or using
// GetTracer/GetMeter. Components that want to participate in tracing pull
// a tracer by name with GetTracer and use the StartSpan/RecordError helpers
// instead of reaching into the OpenTelemetry API directly.
package telemetry
