// SPDX-License-Identifier: BSD-3-Clause

// Package sensor holds the sensor registry and the event bus that carries
// sensor state changes to network sessions and virtual sensor workers.
package sensor
