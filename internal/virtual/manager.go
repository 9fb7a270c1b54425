// SPDX-License-Identifier: BSD-3-Clause

package virtual

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/u-bmc/fand/internal/sensor"
)

// Manager owns one Worker goroutine per virtual sensor currently in the
// registry, spawning a new one whenever a virtual sensor is added and
// tearing its worker down whenever that sensor is removed.
type Manager struct {
	registry *sensor.Registry
	logger   *slog.Logger
}

// NewManager builds a virtual sensor supervisor over registry.
func NewManager(registry *sensor.Registry, logger *slog.Logger) *Manager {
	return &Manager{registry: registry, logger: logger}
}

// Run spawns a worker for every virtual sensor already present in the
// registry, then watches the bus for newly added or removed virtual
// sensors until ctx ends, at which point every worker it started is
// canceled and waited on before returning.
func (m *Manager) Run(ctx context.Context) error {
	sub, err := m.registry.Subscribe()
	if err != nil {
		return fmt.Errorf("virtual: subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	var wg sync.WaitGroup
	workers := make(map[sensor.ID]context.CancelFunc)

	spawn := func(id sensor.ID) {
		if _, ok := workers[id]; ok {
			return
		}
		workerCtx, cancel := context.WithCancel(ctx)
		workers[id] = cancel
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewWorker(id, m.registry, m.logger)
			if err := w.Run(workerCtx); err != nil {
				m.logger.Warn("virtual sensor worker exited", slog.Any("id", id), slog.Any("error", err))
			}
		}()
	}

	for _, s := range m.registry.List() {
		if s.ID.IsVirtual() {
			spawn(s.ID)
		}
	}

	ch := sub.C()
	for {
		select {
		case <-ctx.Done():
			for _, cancel := range workers {
				cancel()
			}
			wg.Wait()
			return nil
		case msg, ok := <-ch:
			if !ok {
				wg.Wait()
				return nil
			}
			if !msg.ID.IsVirtual() {
				continue
			}
			switch msg.Kind {
			case sensor.Config:
				spawn(msg.ID)
			case sensor.Remove:
				if cancel, ok := workers[msg.ID]; ok {
					cancel()
					delete(workers, msg.ID)
				}
			}
		}
	}
}
