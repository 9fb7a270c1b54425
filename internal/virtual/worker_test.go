// SPDX-License-Identifier: BSD-3-Clause

package virtual

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/u-bmc/fand/internal/sensor"
	"github.com/u-bmc/fand/pkg/store"
)

func newTestRegistry(t *testing.T) *sensor.Registry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus, err := sensor.NewBus(logger)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(bus.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return sensor.New(logger, bus, st, 10)
}

func TestWorkerEvaluatesOnDependencyUpdate(t *testing.T) {
	r := newTestRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	id := r.AddVirtual()
	rate := uint32(0)
	src := "sensor(0) * 2"
	if err := r.Reconfigure(id, nil, nil, &rate, &src); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	w := NewWorker(id, r, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond) // let Run subscribe and compile
	r.Set(sensor.Tmp0, 10)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for virtual sensor to evaluate")
		default:
		}
		got, ok := r.Get(id)
		if ok && len(got.Values) > 0 {
			if got.Values[0] != 20 {
				t.Fatalf("expected 20, got %v", got.Values[0])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWorkerStopsOnRemove(t *testing.T) {
	r := newTestRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	id := r.AddVirtual()
	w := NewWorker(id, r, logger)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after removal")
	}
}
