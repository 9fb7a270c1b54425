// SPDX-License-Identifier: BSD-3-Clause

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cirello.io/oversight/v2"

	"github.com/u-bmc/fand/pkg/log"
)

// Task is one supervised component's entry point.
type Task func(ctx context.Context) error

// Supervisor is a thin wrapper over an oversight tree: components are added
// once up front, then all started together and run until ctx ends. A
// component that returns or panics is logged and not restarted; the others
// keep running.
type Supervisor struct {
	logger  *slog.Logger
	timeout time.Duration
	tree    *oversight.Tree
}

// New builds a Supervisor. timeout bounds how long a component is given to
// shut down once its context is canceled before the tree considers it stuck.
func New(logger *slog.Logger, timeout time.Duration) *Supervisor {
	return &Supervisor{
		logger:  logger,
		timeout: timeout,
		tree: oversight.New(
			oversight.NeverHalt(),
			oversight.WithLogger(log.NewOversightLogger(logger)),
		),
	}
}

func wrap(name string, fn Task) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		return fn(ctx)
	}
}

// Add registers a named component. Components are never restarted: a
// temporary child, per oversight's terminology, is started once and its
// failure is reported rather than retried.
func (s *Supervisor) Add(name string, fn Task) error {
	if name == "" {
		return ErrNameEmpty
	}
	if err := s.tree.Add(wrap(name, fn), oversight.Temporary(), oversight.Timeout(s.timeout), name); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAddChild, name, err)
	}
	return nil
}

// Run starts every registered component and blocks until ctx is canceled.
// The tree is built with NeverHalt, so a failed temporary child does not
// end Run.
func (s *Supervisor) Run(ctx context.Context) error {
	return s.tree.Start(ctx)
}
