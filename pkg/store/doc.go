// SPDX-License-Identifier: BSD-3-Clause

// Package store wraps a bbolt database with the narrow get/put surface the
// rest of the daemon needs: bucketed byte-slice keys and values, plus a few
// typed helpers for the fixed-width fields the PWM actuator persists.
package store
