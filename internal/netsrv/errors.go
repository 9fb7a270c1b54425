// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import "errors"

var (
	// ErrPayloadTooLarge is returned when a frame's declared length exceeds maxPayload.
	ErrPayloadTooLarge = errors.New("netsrv: payload exceeds maximum size")
	// ErrMalformed is returned when a payload ends before a field it declared can be read.
	ErrMalformed = errors.New("netsrv: malformed payload")
	// ErrProtocolViolation is returned when a session receives a message its current state does not accept.
	ErrProtocolViolation = errors.New("netsrv: protocol violation")
	// ErrUnknownMessage names a message id this server does not recognize.
	// Session does not return it: frames with unknown ids are ignored.
	ErrUnknownMessage = errors.New("netsrv: unknown message id")
)
