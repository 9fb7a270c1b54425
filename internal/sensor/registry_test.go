// SPDX-License-Identifier: BSD-3-Clause

package sensor

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/u-bmc/fand/pkg/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus, err := NewBus(logger)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(bus.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return New(logger, bus, st, 3)
}

func TestSetDropsInvalidSamples(t *testing.T) {
	r := newTestRegistry(t)

	r.Set(Tmp0, math.NaN())
	r.Set(Tmp0, -1)

	got, ok := r.Get(Tmp0)
	if !ok {
		t.Fatal("Tmp0 missing")
	}
	if len(got.Values) != 0 {
		t.Fatalf("expected no values recorded, got %v", got.Values)
	}
}

func TestSetEvictsOldestBeyondRetention(t *testing.T) {
	r := newTestRegistry(t)

	for i := 0; i < 5; i++ {
		r.Set(Tmp0, float64(i))
	}

	got, _ := r.Get(Tmp0)
	want := []float64{4, 3, 2}
	if len(got.Values) != len(want) {
		t.Fatalf("expected %d values, got %d: %v", len(want), len(got.Values), got.Values)
	}
	for i := range want {
		if got.Values[i] != want[i] {
			t.Fatalf("value %d: want %v, got %v", i, want[i], got.Values[i])
		}
	}
}

func TestAddVirtualAllocatesStrictlyIncreasingIDs(t *testing.T) {
	r := newTestRegistry(t)

	first := r.AddVirtual()
	second := r.AddVirtual()

	if first < firstVirtualID {
		t.Fatalf("first virtual id %d below floor %d", first, firstVirtualID)
	}
	if second <= first {
		t.Fatalf("second id %d not greater than first %d", second, first)
	}
}

func TestAddVirtualSetsDefaultsAndPersists(t *testing.T) {
	r := newTestRegistry(t)

	id := r.AddVirtual()

	got, ok := r.Get(id)
	if !ok {
		t.Fatal("newly added virtual sensor not found")
	}
	wantAlias := fmt.Sprintf("Virtual(%d)", uint32(id))
	if got.Alias != wantAlias {
		t.Fatalf("alias: want %q, got %q", wantAlias, got.Alias)
	}
	if got.Unit != "?" {
		t.Fatalf("unit: want %q, got %q", "?", got.Unit)
	}
	if got.Source != "sensor(0)" {
		t.Fatalf("source: want %q, got %q", "sensor(0)", got.Source)
	}

	var p persistedSensor
	raw, err := r.store.Get(bucketVirtual, idKey(id))
	if err != nil {
		t.Fatalf("virtual sensor not persisted: %v", err)
	}
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal persisted record: %v", err)
	}
	if p.Alias != wantAlias || p.Unit != "?" || p.Source != "sensor(0)" {
		t.Fatalf("persisted record mismatch: %+v", p)
	}
}

func TestReconfigureRejectsSourceOnBuiltin(t *testing.T) {
	r := newTestRegistry(t)

	src := "sensor(0)"
	if err := r.Reconfigure(Tmp0, nil, nil, nil, &src); err == nil {
		t.Fatal("expected error setting source on a built-in sensor")
	}
}

func TestRemoveOnlyAcceptsVirtualIDs(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Remove(Tmp0); err == nil {
		t.Fatal("expected error removing a built-in sensor")
	}

	id := r.AddVirtual()
	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := r.Get(id); ok {
		t.Fatal("sensor still present after Remove")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	r := newTestRegistry(t)

	sub, err := r.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	ch := sub.C()
	r.Set(Tmp0, 21.5)

	select {
	case msg := <-ch:
		if msg.Kind != Update || msg.ID != Tmp0 || msg.Value != 21.5 {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestLoadSavedRestoresVirtualSensors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus1, err := NewBus(logger)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	st1, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	r1 := New(logger, bus1, st1, 10)
	id := r1.AddVirtual()
	alias, unit, source := "avg", "C", "(sensor(0)+sensor(1))/2"
	if err := r1.Reconfigure(id, &alias, &unit, nil, &source); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	bus1.Close()
	_ = st1.Close()

	bus2, err := NewBus(logger)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus2.Close()
	st2, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st2.Close()

	r2 := New(logger, bus2, st2, 10)
	if err := r2.LoadSaved(); err != nil {
		t.Fatalf("LoadSaved: %v", err)
	}

	got, ok := r2.Get(id)
	if !ok {
		t.Fatalf("virtual sensor %s not restored", id)
	}
	if got.Alias != alias || got.Source != source {
		t.Fatalf("restored sensor mismatch: %+v", got)
	}

	next := r2.AddVirtual()
	if next <= id {
		t.Fatalf("next virtual id %d did not advance past restored id %d", next, id)
	}
}
