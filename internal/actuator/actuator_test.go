// SPDX-License-Identifier: BSD-3-Clause

package actuator

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/u-bmc/fand/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRunAppliesDefaultsOnStartup(t *testing.T) {
	st := newTestStore(t)
	pwm := NewMockPWM()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := New(pwm, st, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = a.Run(ctx) }()
	defer cancel()

	time.Sleep(50 * time.Millisecond)
	if got := pwm.Duty(Channel0); got != DefaultDutyChannel0 {
		t.Fatalf("channel0 default: want %v, got %v", DefaultDutyChannel0, got)
	}
	if got := pwm.Duty(Channel1); got != DefaultDutyChannel1 {
		t.Fatalf("channel1 default: want %v, got %v", DefaultDutyChannel1, got)
	}
}

func TestSetClampsAndPersists(t *testing.T) {
	st := newTestStore(t)
	pwm := NewMockPWM()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := New(pwm, st, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = a.Run(ctx) }()
	defer cancel()

	time.Sleep(20 * time.Millisecond)
	a.Set(Channel0, 1.5)

	deadline := time.After(2 * time.Second)
	for {
		if pwm.Duty(Channel0) == 1.0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for clamped duty to apply")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	got, err := st.GetFloat32(rootBucket, keyFor(Channel0))
	if err != nil {
		t.Fatalf("GetFloat32: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("persisted duty: want 1.0, got %v", got)
	}
}
