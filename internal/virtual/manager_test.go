// SPDX-License-Identifier: BSD-3-Clause

package virtual

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/u-bmc/fand/internal/sensor"
)

func TestManagerSpawnsWorkerForNewVirtualSensor(t *testing.T) {
	r := newTestRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr := NewManager(r, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mgr.Run(ctx) }()

	time.Sleep(20 * time.Millisecond) // let the manager subscribe

	id := r.AddVirtual()
	rate := uint32(0)
	src := "sensor(0) + 1"
	if err := r.Reconfigure(id, nil, nil, &rate, &src); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	r.Set(sensor.Tmp0, 9)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for newly added virtual sensor to evaluate")
		default:
		}
		got, ok := r.Get(id)
		if ok && len(got.Values) > 0 {
			if got.Values[0] != 10 {
				t.Fatalf("expected 10, got %v", got.Values[0])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManagerStopsWorkerOnRemove(t *testing.T) {
	r := newTestRegistry(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	id := r.AddVirtual()

	mgr := NewManager(r, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- mgr.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// Give the manager a moment to process the Remove event, then confirm
	// canceling the top-level context still lets Run return promptly (no
	// leaked worker goroutine holding a stale context open).
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop after context cancellation")
	}
}
