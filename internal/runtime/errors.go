// SPDX-License-Identifier: BSD-3-Clause

package runtime

import "errors"

// ErrNameEmpty is returned by Run when the daemon was never given a name.
var ErrNameEmpty = errors.New("runtime: name cannot be empty")
