// SPDX-License-Identifier: BSD-3-Clause

// Package virtual runs one worker goroutine per script-defined virtual
// sensor, compiling and evaluating its source with expr-lang/expr against
// the sensor registry.
package virtual
