// SPDX-License-Identifier: BSD-3-Clause

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/arunsworld/nursery"

	"github.com/u-bmc/fand/internal/actuator"
	"github.com/u-bmc/fand/internal/netsrv"
	"github.com/u-bmc/fand/internal/poll"
	"github.com/u-bmc/fand/internal/sensor"
	"github.com/u-bmc/fand/internal/supervisor"
	"github.com/u-bmc/fand/internal/virtual"
	"github.com/u-bmc/fand/pkg/store"
)

// Runtime is the assembled daemon, ready to run once Run is called.
type Runtime struct {
	cfg    *Config
	logger *slog.Logger
}

// New builds a Runtime from the given options.
func New(logger *slog.Logger, opts ...Option) *Runtime {
	return &Runtime{cfg: NewConfig(opts...), logger: logger}
}

// Run opens the persistent store, wires every component together, and
// blocks running them under a supervisor until ctx ends or a component
// fails fatally.
func (r *Runtime) Run(ctx context.Context) error {
	if r.cfg.name == "" {
		return fmt.Errorf("runtime: %w", ErrNameEmpty)
	}

	st, err := store.Open(r.cfg.storePath)
	if err != nil {
		return fmt.Errorf("runtime: open store: %w", err)
	}
	defer st.Close()

	bus, err := sensor.NewBus(r.logger)
	if err != nil {
		return fmt.Errorf("runtime: start event bus: %w", err)
	}
	defer bus.Close()

	registry := sensor.New(r.logger, bus, st, r.cfg.retention)
	if err := registry.LoadSaved(); err != nil {
		return fmt.Errorf("runtime: load persisted sensors: %w", err)
	}

	pollCfg := poll.NewConfig(r.cfg.pollOpts...)

	var pwmWriter actuator.PWMWriter
	var adcReader poll.ADCReader
	var tachReader poll.TachReader
	if r.cfg.mock {
		seed := rand.Int63()
		pwmWriter = actuator.NewMockPWM()
		adcReader = poll.NewMockADCReader(seed)
		tachReader = poll.NewMockTachReader(seed + 1)
	} else {
		pwmWriter = actuator.NewSysfsPWM(r.cfg.pwmChip)
		adcReader = poll.NewADS1115FromConfig(pollCfg)
		tachReader = poll.NewGPIOTachFromConfig(pollCfg)
	}

	act := actuator.New(pwmWriter, st, r.logger)
	tempProbes := poll.NewTemperatureProbes(pollCfg, registry, r.logger, adcReader)
	hostTemp := poll.NewHostTemperature(pollCfg, registry, r.logger)
	tachs := poll.NewTachometers(pollCfg, registry, r.logger, tachReader)
	virtualMgr := virtual.NewManager(registry, r.logger)
	server := netsrv.NewServer(r.cfg.addr, registry, act, r.cfg.name, uint32(r.cfg.retention), r.logger)

	sup := supervisor.New(r.logger, r.cfg.timeout)
	components := []struct {
		name string
		fn   supervisor.Task
	}{
		{"actuator", act.Run},
		{"poll-temperature", tempProbes.Run},
		{"poll-host", hostTemp.Run},
		{"poll-tach", tachs.Run},
		{"virtual-sensors", virtualMgr.Run},
	}
	for _, c := range components {
		if err := sup.Add(c.name, c.fn); err != nil {
			return fmt.Errorf("runtime: %w", err)
		}
	}

	r.logger.Info("starting", slog.String("name", r.cfg.name), slog.Int("retention", r.cfg.retention), slog.String("addr", r.cfg.addr))

	superviseTree := func(ctx context.Context, c chan error) {
		c <- sup.Run(ctx)
	}
	serveListener := func(ctx context.Context, c chan error) {
		c <- server.Run(ctx)
	}

	return nursery.RunConcurrentlyWithContext(ctx, superviseTree, serveListener)
}
