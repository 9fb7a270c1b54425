// SPDX-License-Identifier: BSD-3-Clause

package sensor

import "fmt"

// ID identifies a sensor, either one of the fixed built-ins or a virtual
// sensor allocated at runtime. It encodes as a plain nonnegative integer so
// it can be used directly as a persistence key and as a wire protocol field.
type ID uint32

// Built-in sensor identities. Their numeric values are part of the wire
// protocol and the persistent store layout and must never change.
const (
	Tmp0 ID = iota
	Tmp1
	Tmp2
	Tmp3
	Host
	Rpm0
	Rpm1
)

// firstVirtualID is the lowest id a virtual sensor may be allocated.
const firstVirtualID ID = 7

// IsVirtual reports whether id identifies a virtual, script-defined sensor.
func (id ID) IsVirtual() bool {
	return id >= firstVirtualID
}

// Uint32 returns the wire/storage encoding of id.
func (id ID) Uint32() uint32 {
	return uint32(id)
}

// IDFromUint32 decodes an ID from its wire/storage encoding.
func IDFromUint32(v uint32) ID {
	return ID(v)
}

func (id ID) String() string {
	switch id {
	case Tmp0:
		return "tmp0"
	case Tmp1:
		return "tmp1"
	case Tmp2:
		return "tmp2"
	case Tmp3:
		return "tmp3"
	case Host:
		return "host"
	case Rpm0:
		return "rpm0"
	case Rpm1:
		return "rpm1"
	default:
		return fmt.Sprintf("virtual(%d)", uint32(id))
	}
}

// builtinIDs lists every built-in sensor in ascending order.
var builtinIDs = [...]ID{Tmp0, Tmp1, Tmp2, Tmp3, Host, Rpm0, Rpm1}
