// SPDX-License-Identifier: BSD-3-Clause

package virtual

import "errors"

var (
	// ErrNoSource names the case of a virtual sensor with no script body.
	// Worker does not return it: an empty source just leaves nothing to
	// evaluate.
	ErrNoSource = errors.New("virtual: no source configured")
	// ErrCompile wraps an expr-lang compile failure.
	ErrCompile = errors.New("virtual: compile failed")
	// ErrEval wraps an expr-lang evaluation failure.
	ErrEval = errors.New("virtual: evaluation failed")
	// ErrNotNumber is returned when a script evaluates to a non-numeric result.
	ErrNotNumber = errors.New("virtual: script did not evaluate to a number")
	// ErrNoSuchSensor is returned by the sensor(n) builtin when n has no
	// reading yet.
	ErrNoSuchSensor = errors.New("virtual: no such sensor")
)
