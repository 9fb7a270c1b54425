// SPDX-License-Identifier: BSD-3-Clause

package sensor

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/u-bmc/fand/pkg/store"
)

var (
	bucketBuiltin = []byte("sensor-builtin")
	bucketVirtual = []byte("sensor-virtual")
)

// Default configuration for the seven built-in sensors, applied on first
// boot and overridden by whatever was last persisted.
var builtinDefaults = map[ID]struct {
	alias string
	unit  string
	rate  time.Duration
}{
	Tmp0: {"Tmp0", "C", time.Second},
	Tmp1: {"Tmp1", "C", time.Second},
	Tmp2: {"Tmp2", "C", time.Second},
	Tmp3: {"Tmp3", "C", time.Second},
	Host: {"Host", "C", 3 * time.Second},
	Rpm0: {"Rpm0", "RPM", 3 * time.Second},
	Rpm1: {"Rpm1", "RPM", 3 * time.Second},
}

// defaultVirtualRate is applied to a freshly allocated virtual sensor until
// a SensorConfig message sets one explicitly.
const defaultVirtualRate = time.Second

// Sensor is an immutable snapshot of one registry entry, safe to read or
// send over the wire after it has been returned.
type Sensor struct {
	ID     ID
	Alias  string
	Unit   string
	Rate   time.Duration
	Source string
	Values []float64 // newest-first
	Err    string
}

// entry is the mutable, independently-locked registry record for one
// sensor. Per-entry locking (rather than one registry-wide lock) keeps a
// write to one sensor from blocking a read of another, the same shape as
// the concurrent map this registry is modeled on.
type entry struct {
	mu      sync.RWMutex
	alias   string
	unit    string
	rate    time.Duration
	source  string
	virtual bool
	values  []float64
	errMsg  string
}

func (e *entry) snapshot(id ID) Sensor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	values := make([]float64, len(e.values))
	copy(values, e.values)
	return Sensor{
		ID:     id,
		Alias:  e.alias,
		Unit:   e.unit,
		Rate:   e.rate,
		Source: e.source,
		Values: values,
		Err:    e.errMsg,
	}
}

type persistedSensor struct {
	Alias  string `msgpack:"alias"`
	Unit   string `msgpack:"unit"`
	RateMS uint32 `msgpack:"rate_ms"`
	Source string `msgpack:"source,omitempty"`
}

// Registry is the sensor registry described by the daemon's data model: one
// entry per present SensorId, a bounded newest-first ring of samples per
// entry, and a bus broadcast on every mutation.
type Registry struct {
	logger    *slog.Logger
	bus       *Bus
	store     *store.Store
	retention int

	mu          sync.RWMutex
	entries     map[ID]*entry
	nextVirtual uint32
}

// New constructs a registry with the seven built-in sensors present and
// empty, ready for LoadSaved to restore any persisted configuration.
func New(logger *slog.Logger, bus *Bus, st *store.Store, retention int) *Registry {
	r := &Registry{
		logger:      logger,
		bus:         bus,
		store:       st,
		retention:   retention,
		entries:     make(map[ID]*entry, len(builtinIDs)),
		nextVirtual: uint32(firstVirtualID),
	}
	for _, id := range builtinIDs {
		d := builtinDefaults[id]
		r.entries[id] = &entry{alias: d.alias, unit: d.unit, rate: d.rate}
	}
	return r
}

func idKey(id ID) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], id.Uint32())
	return buf[:]
}

// LoadSaved restores built-in configuration overrides and recreates every
// persisted virtual sensor, and recomputes the next virtual id allocation
// point from the highest id found, built-in or virtual.
func (r *Registry) LoadSaved() error {
	maxSeen := uint32(firstVirtualID) - 1

	err := r.store.ForEach(bucketBuiltin, func(k, v []byte) error {
		if len(k) != 4 {
			return nil
		}
		id := IDFromUint32(binary.BigEndian.Uint32(k))
		var p persistedSensor
		if err := msgpack.Unmarshal(v, &p); err != nil {
			r.logger.Warn("discarding unreadable builtin sensor record", slog.Any("id", id), slog.Any("error", err))
			return nil
		}
		r.mu.RLock()
		e, ok := r.entries[id]
		r.mu.RUnlock()
		if !ok {
			return nil
		}
		e.mu.Lock()
		e.alias, e.unit, e.rate = p.Alias, p.Unit, time.Duration(p.RateMS)*time.Millisecond
		e.mu.Unlock()
		if id.Uint32() > maxSeen {
			maxSeen = id.Uint32()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sensor: load builtin sensors: %w", err)
	}

	err = r.store.ForEach(bucketVirtual, func(k, v []byte) error {
		if len(k) != 4 {
			return nil
		}
		id := IDFromUint32(binary.BigEndian.Uint32(k))
		var p persistedSensor
		if err := msgpack.Unmarshal(v, &p); err != nil {
			r.logger.Warn("discarding unreadable virtual sensor record", slog.Any("id", id), slog.Any("error", err))
			return nil
		}
		r.mu.Lock()
		r.entries[id] = &entry{
			alias:   p.Alias,
			unit:    p.Unit,
			rate:    time.Duration(p.RateMS) * time.Millisecond,
			source:  p.Source,
			virtual: true,
		}
		r.mu.Unlock()
		if id.Uint32() > maxSeen {
			maxSeen = id.Uint32()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sensor: load virtual sensors: %w", err)
	}

	r.mu.Lock()
	r.nextVirtual = maxSeen + 1
	r.mu.Unlock()
	return nil
}

func (r *Registry) entryFor(id ID) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Set records a freshly sampled value for id. Values that are NaN or
// negative are silently dropped: no mutation, no event.
func (r *Registry) Set(id ID, value float64) {
	if math.IsNaN(value) || value < 0 {
		return
	}
	e, ok := r.entryFor(id)
	if !ok {
		return
	}

	e.mu.Lock()
	if len(e.values) >= r.retention && len(e.values) > 0 {
		e.values = e.values[:len(e.values)-1]
	}
	e.values = append([]float64{value}, e.values...)
	e.mu.Unlock()

	if err := r.bus.Publish(Message{Kind: Update, ID: id, Value: value}); err != nil {
		r.logger.Warn("publish sensor update", slog.Any("id", id), slog.Any("error", err))
	}
}

// SetError marks a virtual sensor's most recent evaluation as failed. It
// does not touch the sensor's stored values or refresh timestamp, so the
// worker will retry on the next eligible cycle. Setting the same message
// that is already recorded emits no event.
func (r *Registry) SetError(id ID, msg string) error {
	e, ok := r.entryFor(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	if e.errMsg == msg {
		e.mu.Unlock()
		return nil
	}
	e.errMsg = msg
	e.mu.Unlock()
	return r.bus.Publish(Message{Kind: Error, ID: id})
}

// ClearError clears a previously recorded evaluation error for id.
func (r *Registry) ClearError(id ID) error {
	e, ok := r.entryFor(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	had := e.errMsg != ""
	e.errMsg = ""
	e.mu.Unlock()
	if !had {
		return nil
	}
	return r.bus.Publish(Message{Kind: ClearError, ID: id})
}

// Get returns a snapshot of one sensor.
func (r *Registry) Get(id ID) (Sensor, bool) {
	e, ok := r.entryFor(id)
	if !ok {
		return Sensor{}, false
	}
	return e.snapshot(id), true
}

// List returns a snapshot of every present sensor.
func (r *Registry) List() []Sensor {
	r.mu.RLock()
	ids := make([]ID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	out := make([]Sensor, 0, len(ids))
	for _, id := range ids {
		e, ok := r.entryFor(id)
		if !ok {
			continue
		}
		out = append(out, e.snapshot(id))
	}
	return out
}

// AddVirtual allocates a fresh virtual SensorId, strictly greater than
// every id currently present, persists a default-configured record for it,
// and only then registers it in memory. The caller is expected to follow up
// with Reconfigure.
func (r *Registry) AddVirtual() ID {
	r.mu.Lock()
	id := ID(r.nextVirtual)
	r.nextVirtual++

	alias := fmt.Sprintf("Virtual(%d)", uint32(id))
	const unit = "?"
	const source = "sensor(0)"

	p := persistedSensor{
		Alias:  alias,
		Unit:   unit,
		RateMS: uint32(defaultVirtualRate / time.Millisecond),
		Source: source,
	}
	if err := r.persistRecord(bucketVirtual, id, p); err != nil {
		r.logger.Warn("persist new virtual sensor", slog.Any("id", id), slog.Any("error", err))
	}

	r.entries[id] = &entry{alias: alias, unit: unit, rate: defaultVirtualRate, source: source, virtual: true}
	r.mu.Unlock()

	if err := r.bus.Publish(Message{Kind: Config, ID: id}); err != nil {
		r.logger.Warn("publish new virtual sensor", slog.Any("id", id), slog.Any("error", err))
	}
	return id
}

// Reconfigure updates the given fields of id's entry, where non-nil, and
// broadcasts a Config message. Built-in sensors accept alias/unit/rate but
// not source.
func (r *Registry) Reconfigure(id ID, alias, unit *string, rateMS *uint32, source *string) error {
	e, ok := r.entryFor(id)
	if !ok {
		return ErrNotFound
	}
	if source != nil && !id.IsVirtual() {
		return fmt.Errorf("%w: %s", ErrNotVirtual, id)
	}

	e.mu.Lock()
	if alias != nil {
		e.alias = *alias
	}
	if unit != nil {
		e.unit = *unit
	}
	if rateMS != nil {
		e.rate = time.Duration(*rateMS) * time.Millisecond
	}
	if source != nil {
		e.source = *source
	}
	e.mu.Unlock()

	var persistErr error
	if id.IsVirtual() {
		persistErr = r.persistVirtual(id)
	} else {
		persistErr = r.persistBuiltin(id)
	}
	if persistErr != nil {
		r.logger.Warn("persist sensor config", slog.Any("id", id), slog.Any("error", persistErr))
	}

	return r.bus.Publish(Message{Kind: Config, ID: id})
}

// Remove deletes a virtual sensor from the registry, its persisted record,
// and broadcasts a Remove message so its worker stops and any subscribers
// refresh their view.
func (r *Registry) Remove(id ID) error {
	if !id.IsVirtual() {
		return fmt.Errorf("%w: %s", ErrNotVirtual, id)
	}

	r.mu.Lock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if err := r.store.Delete(bucketVirtual, idKey(id)); err != nil {
		r.logger.Warn("delete persisted virtual sensor", slog.Any("id", id), slog.Any("error", err))
	}

	return r.bus.Publish(Message{Kind: Remove, ID: id})
}

func (r *Registry) persistBuiltin(id ID) error {
	return r.persist(bucketBuiltin, id)
}

func (r *Registry) persistVirtual(id ID) error {
	return r.persist(bucketVirtual, id)
}

func (r *Registry) persist(bucket []byte, id ID) error {
	e, ok := r.entryFor(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.RLock()
	p := persistedSensor{Alias: e.alias, Unit: e.unit, RateMS: uint32(e.rate / time.Millisecond), Source: e.source}
	e.mu.RUnlock()

	return r.persistRecord(bucket, id, p)
}

// persistRecord marshals and stores p directly, without reading back through
// r.entries. AddVirtual needs this to persist a new virtual sensor's record
// before the sensor exists in the in-memory map.
func (r *Registry) persistRecord(bucket []byte, id ID, p persistedSensor) error {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := r.store.Put(bucket, idKey(id), data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Subscribe returns a new bounded view onto the registry's event bus.
func (r *Registry) Subscribe() (*Subscription, error) {
	return r.bus.Subscribe()
}
