// SPDX-License-Identifier: BSD-3-Clause

// Package supervisor runs the daemon's components as a flat oversight tree:
// each component is a child process that is started once and never
// restarted automatically. The tree never halts on a child failure: the
// failed child is logged and stays stopped while the other components keep
// running until the tree's context ends.
package supervisor
