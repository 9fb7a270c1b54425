// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sys/unix"

	"github.com/u-bmc/fand/internal/sensor"
)

// tachNiceness is the target process priority (lower is higher priority on
// Linux) requested before sampling begins. Tachometer edge counting is
// latency-sensitive: a scheduling delay mid-window is indistinguishable from
// a slow fan.
const tachNiceness = -10

// TachReader counts falling edges on one tachometer line, up to maxEdges,
// giving up once a single edge takes longer than edgeWait to arrive. It
// reports how many edges it actually saw and how long that took, so the
// caller can derive an RPM even from a partial window.
type TachReader interface {
	CountEdges(ctx context.Context, line int, maxEdges int, edgeWait time.Duration) (count int, elapsed time.Duration, err error)
}

var tachIDs = [2]sensor.ID{sensor.Rpm0, sensor.Rpm1}

// Tachometers alternates between the two configured tachometer lines,
// converting edge counts to RPM assuming two pulses per revolution.
type Tachometers struct {
	cfg      *Config
	registry *sensor.Registry
	logger   *slog.Logger
	reader   TachReader
}

// NewTachometers builds the tachometer poller.
func NewTachometers(cfg *Config, registry *sensor.Registry, logger *slog.Logger, reader TachReader) *Tachometers {
	return &Tachometers{cfg: cfg, registry: registry, logger: logger, reader: reader}
}

// Run alternates sampling the two tachometer lines, sleeping cfg.tachSettle
// between each, until ctx ends.
func (t *Tachometers) Run(ctx context.Context) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, tachNiceness); err != nil {
		t.logger.Warn("raise tachometer scheduling priority", slog.Any("error", err))
	}

	cluster := 0
	for {
		line := t.cfg.tachPins[cluster]
		count, elapsed, err := t.reader.CountEdges(ctx, line, t.cfg.tachMaxEdges, t.cfg.tachEdgeWait)
		switch {
		case err != nil:
			t.logger.Warn("tachometer read failed", slog.Int("line", line), slog.Any("error", err))
		case count > 0 && elapsed > 0:
			freq := float64(count) / elapsed.Seconds()
			rpm := (freq / 2.0) * 60.0
			t.registry.Set(tachIDs[cluster], rpm)
		}

		cluster = (cluster + 1) % 2

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.cfg.tachSettle):
		}
	}
}
