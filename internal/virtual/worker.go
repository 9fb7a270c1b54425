// SPDX-License-Identifier: BSD-3-Clause

package virtual

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/u-bmc/fand/internal/sensor"
)

// Worker evaluates one virtual sensor's script on a bus-driven schedule: it
// recompiles on spawn and on every Config message for its own id, and
// evaluates whenever an Update arrives for a sensor it depends on (or it
// has no known dependencies yet) and its configured rate has elapsed.
type Worker struct {
	id       sensor.ID
	registry *sensor.Registry
	logger   *slog.Logger

	mu             sync.Mutex
	program        *vm.Program
	compiledSource string
	lastRun        time.Time
	deps           map[sensor.ID]struct{}
}

// NewWorker builds a worker for the virtual sensor identified by id.
func NewWorker(id sensor.ID, registry *sensor.Registry, logger *slog.Logger) *Worker {
	return &Worker{id: id, registry: registry, logger: logger, deps: make(map[sensor.ID]struct{})}
}

// Run blocks until the sensor is removed, its bus subscription closes, or
// ctx ends. Compile failures are recorded on the sensor and do not end Run.
func (w *Worker) Run(ctx context.Context) error {
	sub, err := w.registry.Subscribe()
	if err != nil {
		return fmt.Errorf("virtual: subscribe for %s: %w", w.id, err)
	}
	defer sub.Unsubscribe()

	w.recompile()
	ch := sub.C()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.ID != w.id && msg.Kind != sensor.Update {
				continue
			}
			switch {
			case msg.ID == w.id && msg.Kind == sensor.Remove:
				return nil
			case msg.ID == w.id && msg.Kind == sensor.Config:
				w.recompile()
			case msg.Kind == sensor.Update && w.shouldEvaluate(msg.ID):
				w.evaluate()
			}
		}
	}
}

func (w *Worker) shouldEvaluate(updated sensor.ID) bool {
	w.mu.Lock()
	relevant := len(w.deps) == 0
	if !relevant {
		_, relevant = w.deps[updated]
	}
	w.mu.Unlock()
	if !relevant {
		return false
	}

	s, ok := w.registry.Get(w.id)
	if !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.lastRun) >= s.Rate
}

func (w *Worker) recompile() {
	s, ok := w.registry.Get(w.id)
	if !ok {
		return
	}

	w.mu.Lock()
	w.deps = make(map[sensor.ID]struct{})
	sameSource := s.Source != "" && s.Source == w.compiledSource && w.program != nil
	w.mu.Unlock()
	if sameSource {
		return
	}

	if s.Source == "" {
		w.mu.Lock()
		w.program, w.compiledSource = nil, ""
		w.mu.Unlock()
		return
	}

	program, err := expr.Compile(s.Source, expr.Env(evalEnv{}), expr.AsFloat64())

	w.mu.Lock()
	w.compiledSource = s.Source
	if err != nil {
		w.program = nil
	} else {
		w.program = program
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("virtual sensor compile failed", slog.Any("id", w.id), slog.Any("error", err))
		if serr := w.registry.SetError(w.id, fmt.Sprintf("%s: %s", ErrCompile, err)); serr != nil {
			w.logger.Warn("record compile error", slog.Any("error", serr))
		}
	}
}

// evalEnv is the compile-time environment expr-lang type-checks scripts
// against; sensor's real implementation is bound per-evaluation in evaluate.
type evalEnv struct {
	Sensor func(int) (float64, error) `expr:"sensor"`
}

func (w *Worker) evaluate() {
	w.mu.Lock()
	program := w.program
	w.deps = make(map[sensor.ID]struct{})
	w.mu.Unlock()
	if program == nil {
		return
	}

	env := evalEnv{Sensor: w.sensorFunc()}

	result, err := expr.Run(program, env)
	if err != nil {
		w.logger.Debug("virtual sensor evaluation failed", slog.Any("id", w.id), slog.Any("error", err))
		if serr := w.registry.SetError(w.id, fmt.Sprintf("%s: %s", ErrEval, err)); serr != nil {
			w.logger.Warn("record evaluation error", slog.Any("error", serr))
		}
		return
	}

	value, ok := result.(float64)
	if !ok {
		if serr := w.registry.SetError(w.id, ErrNotNumber.Error()); serr != nil {
			w.logger.Warn("record evaluation error", slog.Any("error", serr))
		}
		return
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	w.registry.Set(w.id, value)
	if cerr := w.registry.ClearError(w.id); cerr != nil {
		w.logger.Warn("clear evaluation error", slog.Any("error", cerr))
	}
}

// sensorFunc returns the sensor(n) builtin bound to this evaluation: a
// successful lookup records n in the worker's dependency set before
// returning its latest value; a missing sensor or one with no value yet
// returns an error to the script without recording a dependency on it.
func (w *Worker) sensorFunc() func(int) (float64, error) {
	return func(n int) (float64, error) {
		id := sensor.IDFromUint32(uint32(n))

		s, ok := w.registry.Get(id)
		if !ok || len(s.Values) == 0 {
			return 0, fmt.Errorf("%w: %s", ErrNoSuchSensor, id)
		}

		w.mu.Lock()
		w.deps[id] = struct{}{}
		w.mu.Unlock()

		return s.Values[0], nil
	}
}
