// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MessageID identifies the shape of a frame's payload.
type MessageID uint16

const (
	MsgHello MessageID = iota
	MsgReady
	MsgValue
	MsgSensors
	MsgSensorConfig
	MsgAddSensor
	MsgPwm
	// MsgRemoveSensor is additive: it was not present in the original wire
	// protocol, which had no way to delete a virtual sensor.
	MsgRemoveSensor
)

// maxPayload bounds a single frame's payload at 10MiB.
const maxPayload = 10 * 1024 * 1024

// frameHeaderSize is 2 bytes of little-endian message id plus 8 bytes of
// little-endian payload length.
const frameHeaderSize = 10

// Frame is one decoded wire message: an id and its raw, not-yet-decoded payload.
type Frame struct {
	ID      MessageID
	Payload []byte
}

// ReadFrame reads one frame from r, enforcing maxPayload.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}

	id := MessageID(binary.LittleEndian.Uint16(header[0:2]))
	length := binary.LittleEndian.Uint64(header[2:10])
	if length > maxPayload {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Payload: payload}, nil
}

// WriteFrame writes one frame to w.
func WriteFrame(w io.Writer, id MessageID, payload []byte) error {
	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint16(header[0:2], uint16(id))
	binary.LittleEndian.PutUint64(header[2:10], uint64(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
