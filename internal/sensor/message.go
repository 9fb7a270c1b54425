// SPDX-License-Identifier: BSD-3-Clause

package sensor

// Kind identifies what changed about a sensor.
type Kind uint8

const (
	// Update carries a freshly sampled value.
	Update Kind = iota
	// Config is emitted whenever a sensor's alias, unit, rate or source changes.
	Config
	// Error is emitted when a virtual sensor's script evaluation fails.
	Error
	// ClearError is emitted when a previously failing virtual sensor evaluates successfully again.
	ClearError
	// Remove is emitted when a virtual sensor is deleted from the registry.
	Remove
)

// Message is the payload carried over the event bus for every registry
// mutation. Value is only meaningful for Update.
type Message struct {
	Kind  Kind
	ID    ID
	Value float64
}

// wireMessage is the msgpack-on-the-wire shape of Message; kept distinct
// from Message so in-process callers never need to think about encoding.
type wireMessage struct {
	Kind  uint8   `msgpack:"k"`
	ID    uint32  `msgpack:"i"`
	Value float64 `msgpack:"v"`
}

func (m Message) toWire() wireMessage {
	return wireMessage{Kind: uint8(m.Kind), ID: m.ID.Uint32(), Value: m.Value}
}

func (w wireMessage) toMessage() Message {
	return Message{Kind: Kind(w.Kind), ID: IDFromUint32(w.ID), Value: w.Value}
}
