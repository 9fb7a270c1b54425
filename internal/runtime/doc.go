// SPDX-License-Identifier: BSD-3-Clause

// Package runtime is the daemon's composition root: it wires the sensor
// registry, the built-in pollers, the virtual sensor manager, the PWM
// actuator and the network session server together and runs them all
// under one supervisor.
package runtime
