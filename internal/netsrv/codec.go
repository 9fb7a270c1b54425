// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"bytes"
	"encoding/binary"
	"math"
)

// encoder builds a message payload field by field, little-endian, the
// fixed-width shape of the original prost-generated structs written by
// hand since this environment cannot run the protoc/buf codegen step.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) f32(v float32) { e.u32(math.Float32bits(v)) }

func (e *encoder) f64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.buf.Write(b[:])
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf.WriteString(s)
}

func (e *encoder) presence(ok bool) {
	if ok {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *encoder) optStr(s *string) {
	e.presence(s != nil)
	if s != nil {
		e.str(*s)
	}
}

func (e *encoder) optU32(v *uint32) {
	e.presence(v != nil)
	if v != nil {
		e.u32(*v)
	}
}

func (e *encoder) f64Slice(vs []float64) {
	e.u32(uint32(len(vs)))
	for _, v := range vs {
		e.f64(v)
	}
}

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

// decoder reads fields back off a payload in the same order the encoder
// wrote them, failing with ErrMalformed rather than panicking on a short read.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) u32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, ErrMalformed
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) f32() (float32, error) {
	v, err := d.u32()
	return math.Float32frombits(v), err
}

func (d *decoder) f64() (float64, error) {
	if d.pos+8 > len(d.data) {
		return 0, ErrMalformed
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return math.Float64frombits(v), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if d.pos+int(n) > len(d.data) {
		return "", ErrMalformed
	}
	s := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func (d *decoder) byteFlag() (bool, error) {
	if d.pos+1 > len(d.data) {
		return false, ErrMalformed
	}
	v := d.data[d.pos] != 0
	d.pos++
	return v, nil
}

func (d *decoder) optStr() (*string, error) {
	ok, err := d.byteFlag()
	if err != nil || !ok {
		return nil, err
	}
	s, err := d.str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *decoder) optU32() (*uint32, error) {
	ok, err := d.byteFlag()
	if err != nil || !ok {
		return nil, err
	}
	v, err := d.u32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *decoder) f64Slice() ([]float64, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		v, err := d.f64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
