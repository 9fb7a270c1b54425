// SPDX-License-Identifier: BSD-3-Clause

// Package actuator runs the two-channel PWM actuator: a single consuming
// goroutine that applies set-points non-blockingly queued by network
// sessions and persists every applied value.
package actuator
