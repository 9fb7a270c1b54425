// SPDX-License-Identifier: BSD-3-Clause

package store

import "errors"

var (
	// ErrNotFound is returned when a key has no value in the given bucket.
	ErrNotFound = errors.New("store: not found")
	// ErrClosed names use of a Store after Close. Store does not return it:
	// operations after Close return bbolt's own error.
	ErrClosed = errors.New("store: closed")
)
