// SPDX-License-Identifier: BSD-3-Clause

package supervisor

import "errors"

var (
	// ErrNameEmpty is returned by Add when given an empty component name.
	ErrNameEmpty = errors.New("supervisor: component name cannot be empty")
	// ErrAddChild is returned when the underlying oversight tree rejects a child.
	ErrAddChild = errors.New("supervisor: failed to add child to supervision tree")
)
