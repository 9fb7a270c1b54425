// SPDX-License-Identifier: BSD-3-Clause

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	s := New(slog.New(slog.DiscardHandler), time.Second)
	if err := s.Add("noop", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: unexpected error: %v", err)
	}
}

func TestAddRejectsEmptyName(t *testing.T) {
	s := New(slog.New(slog.DiscardHandler), time.Second)
	if err := s.Add("", func(context.Context) error { return nil }); !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("expected ErrNameEmpty, got %v", err)
	}
}

func TestRunSurfacesChildPanic(t *testing.T) {
	s := New(slog.New(slog.DiscardHandler), time.Second)
	if err := s.Add("panicky", func(context.Context) error {
		panic("boom")
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Run(ctx); err == nil {
		t.Fatal("expected Run to surface the panicking child's error")
	}
}
