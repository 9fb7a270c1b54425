// SPDX-License-Identifier: BSD-3-Clause

// Package netsrv serves the daemon's network session protocol: a
// length-prefixed binary frame carrying one of a handful of fixed message
// types, streamed over a single accepted TCP connection per session.
package netsrv
