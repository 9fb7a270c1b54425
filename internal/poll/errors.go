// SPDX-License-Identifier: BSD-3-Clause

package poll

import "errors"

var (
	// ErrReadFailed is returned when a poller's underlying hardware read fails.
	ErrReadFailed = errors.New("poll: read failed")
	// ErrNoSignal names a tachometer read that saw no edges before its window
	// closed. The readers in this package do not return it: such a read
	// reports a zero count with a nil error, and Tachometers records nothing.
	ErrNoSignal = errors.New("poll: no signal")
)
