// SPDX-License-Identifier: BSD-3-Clause

package actuator

import "errors"

// ErrInvalidChannel is returned for a PWM channel outside {0, 1}.
var ErrInvalidChannel = errors.New("actuator: invalid channel")
