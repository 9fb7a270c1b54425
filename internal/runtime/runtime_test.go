// SPDX-License-Identifier: BSD-3-Clause

package runtime

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeRunsAndStopsInMockMode(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	rt := New(logger,
		WithName("test-rig"),
		WithMock(true),
		WithAddr("127.0.0.1:0"),
		WithStorePath(filepath.Join(t.TempDir(), "settings.db")),
		WithRetention(8),
		WithTimeout(time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := rt.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: unexpected error: %v", err)
	}
}

func TestRuntimeRejectsEmptyName(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	rt := New(logger, WithName(""), WithStorePath(filepath.Join(t.TempDir(), "settings.db")))

	if err := rt.Run(context.Background()); !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("expected ErrNameEmpty, got %v", err)
	}
}
