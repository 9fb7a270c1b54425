// SPDX-License-Identifier: BSD-3-Clause

package netsrv

// Hello is the server's greeting, sent immediately after accept.
type Hello struct {
	Version   string
	Name      string
	Retention uint32
	Pwm0      float32
	Pwm1      float32
}

// Encode renders h as a frame payload.
func (h Hello) Encode() []byte {
	var e encoder
	e.str(h.Version)
	e.str(h.Name)
	e.u32(h.Retention)
	e.f32(h.Pwm0)
	e.f32(h.Pwm1)
	return e.bytes()
}

// DecodeHello parses a Hello payload.
func DecodeHello(data []byte) (Hello, error) {
	d := decoder{data: data}
	var h Hello
	var err error
	if h.Version, err = d.str(); err != nil {
		return Hello{}, err
	}
	if h.Name, err = d.str(); err != nil {
		return Hello{}, err
	}
	if h.Retention, err = d.u32(); err != nil {
		return Hello{}, err
	}
	if h.Pwm0, err = d.f32(); err != nil {
		return Hello{}, err
	}
	if h.Pwm1, err = d.f32(); err != nil {
		return Hello{}, err
	}
	return h, nil
}

// Value is a single sensor update.
type Value struct {
	ID    uint32
	Value float64
}

// Encode renders v as a frame payload.
func (v Value) Encode() []byte {
	var e encoder
	e.u32(v.ID)
	e.f64(v.Value)
	return e.bytes()
}

// DecodeValue parses a Value payload.
func DecodeValue(data []byte) (Value, error) {
	d := decoder{data: data}
	var v Value
	var err error
	if v.ID, err = d.u32(); err != nil {
		return Value{}, err
	}
	if v.Value, err = d.f64(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// SensorRecord is one sensor's full state, as sent in a Sensors snapshot.
type SensorRecord struct {
	ID     uint32
	Rate   uint32
	Alias  string
	Unit   string
	Values []float64
	Source *string
	Error  *string
}

func (s SensorRecord) encodeInto(e *encoder) {
	e.u32(s.ID)
	e.u32(s.Rate)
	e.str(s.Alias)
	e.str(s.Unit)
	e.f64Slice(s.Values)
	e.optStr(s.Source)
	e.optStr(s.Error)
}

func decodeSensorRecord(d *decoder) (SensorRecord, error) {
	var s SensorRecord
	var err error
	if s.ID, err = d.u32(); err != nil {
		return SensorRecord{}, err
	}
	if s.Rate, err = d.u32(); err != nil {
		return SensorRecord{}, err
	}
	if s.Alias, err = d.str(); err != nil {
		return SensorRecord{}, err
	}
	if s.Unit, err = d.str(); err != nil {
		return SensorRecord{}, err
	}
	if s.Values, err = d.f64Slice(); err != nil {
		return SensorRecord{}, err
	}
	if s.Source, err = d.optStr(); err != nil {
		return SensorRecord{}, err
	}
	if s.Error, err = d.optStr(); err != nil {
		return SensorRecord{}, err
	}
	return s, nil
}

// Sensors is a full snapshot of every sensor currently in the registry.
type Sensors struct {
	Sensors []SensorRecord
}

// Encode renders s as a frame payload.
func (s Sensors) Encode() []byte {
	var e encoder
	e.u32(uint32(len(s.Sensors)))
	for _, rec := range s.Sensors {
		rec.encodeInto(&e)
	}
	return e.bytes()
}

// DecodeSensors parses a Sensors payload.
func DecodeSensors(data []byte) (Sensors, error) {
	d := decoder{data: data}
	n, err := d.u32()
	if err != nil {
		return Sensors{}, err
	}
	out := Sensors{Sensors: make([]SensorRecord, n)}
	for i := range out.Sensors {
		rec, err := decodeSensorRecord(&d)
		if err != nil {
			return Sensors{}, err
		}
		out.Sensors[i] = rec
	}
	return out, nil
}

// SensorConfig requests a configuration change on one sensor. Alias and
// Unit are always present; Rate and Source are optional, matching the
// original protocol's optional oneof fields.
type SensorConfig struct {
	ID     uint32
	Alias  string
	Unit   string
	Rate   *uint32
	Source *string
}

// Encode renders c as a frame payload.
func (c SensorConfig) Encode() []byte {
	var e encoder
	e.u32(c.ID)
	e.str(c.Alias)
	e.str(c.Unit)
	e.optU32(c.Rate)
	e.optStr(c.Source)
	return e.bytes()
}

// DecodeSensorConfig parses a SensorConfig payload.
func DecodeSensorConfig(data []byte) (SensorConfig, error) {
	d := decoder{data: data}
	var c SensorConfig
	var err error
	if c.ID, err = d.u32(); err != nil {
		return SensorConfig{}, err
	}
	if c.Alias, err = d.str(); err != nil {
		return SensorConfig{}, err
	}
	if c.Unit, err = d.str(); err != nil {
		return SensorConfig{}, err
	}
	if c.Rate, err = d.optU32(); err != nil {
		return SensorConfig{}, err
	}
	if c.Source, err = d.optStr(); err != nil {
		return SensorConfig{}, err
	}
	return c, nil
}

// Pwm sets one PWM channel's duty cycle.
type Pwm struct {
	Channel uint32
	Value   float32
}

// Encode renders p as a frame payload.
func (p Pwm) Encode() []byte {
	var e encoder
	e.u32(p.Channel)
	e.f32(p.Value)
	return e.bytes()
}

// DecodePwm parses a Pwm payload.
func DecodePwm(data []byte) (Pwm, error) {
	d := decoder{data: data}
	var p Pwm
	var err error
	if p.Channel, err = d.u32(); err != nil {
		return Pwm{}, err
	}
	if p.Value, err = d.f32(); err != nil {
		return Pwm{}, err
	}
	return p, nil
}

// RemoveSensor requests deletion of one virtual sensor.
type RemoveSensor struct {
	ID uint32
}

// Encode renders r as a frame payload.
func (r RemoveSensor) Encode() []byte {
	var e encoder
	e.u32(r.ID)
	return e.bytes()
}

// DecodeRemoveSensor parses a RemoveSensor payload.
func DecodeRemoveSensor(data []byte) (RemoveSensor, error) {
	d := decoder{data: data}
	id, err := d.u32()
	if err != nil {
		return RemoveSensor{}, err
	}
	return RemoveSensor{ID: id}, nil
}
