// SPDX-License-Identifier: BSD-3-Clause

package actuator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/u-bmc/fand/pkg/store"
)

// Channel identifies one of the two PWM outputs.
type Channel int

const (
	Channel0 Channel = iota
	Channel1
)

var rootBucket = []byte("root")

func keyFor(c Channel) []byte {
	if c == Channel0 {
		return []byte("pwm0")
	}
	return []byte("pwm1")
}

// Defaults applied at startup and whenever no persisted value is found.
const (
	DefaultDutyChannel0 float32 = 0.6
	DefaultDutyChannel1 float32 = 0.28
)

// PWMWriter applies a duty cycle to one hardware PWM channel.
type PWMWriter interface {
	SetDuty(ctx context.Context, channel Channel, duty float32) error
}

type command struct {
	channel Channel
	duty    float32
}

// Actuator is the PWM actuator channel: a single consumer goroutine reading
// from a non-blocking command queue, applying set-points to hardware and
// persisting them.
type Actuator struct {
	writer PWMWriter
	store  *store.Store
	logger *slog.Logger
	cmds   chan command

	mu      sync.RWMutex
	current map[Channel]float32
}

// New builds an Actuator. The command queue capacity matches the "a
// try-send that drops on a full queue" semantics the daemon's design calls
// for: clients that flood PWM set-points get the latest one applied, not
// every one queued.
func New(writer PWMWriter, st *store.Store, logger *slog.Logger) *Actuator {
	return &Actuator{
		writer:  writer,
		store:   st,
		logger:  logger,
		cmds:    make(chan command, 1),
		current: make(map[Channel]float32, 2),
	}
}

// Current returns the last duty cycle successfully applied to channel, or
// zero if Run has not applied one yet.
func (a *Actuator) Current(channel Channel) float32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current[channel]
}

func clamp(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Set enqueues a new duty cycle for channel, clamped to [0, 1]. It never
// blocks: if a set-point is already queued and unconsumed, the new one
// silently replaces it.
func (a *Actuator) Set(channel Channel, duty float32) {
	cmd := command{channel: channel, duty: clamp(duty)}
	select {
	case a.cmds <- cmd:
	default:
		select {
		case <-a.cmds:
		default:
		}
		select {
		case a.cmds <- cmd:
		default:
		}
	}
}

func (a *Actuator) loadOrDefault(channel Channel, def float32) float32 {
	v, err := a.store.GetFloat32(rootBucket, keyFor(channel))
	if err != nil {
		return def
	}
	return v
}

// Run applies the persisted (or default) duty cycle to both channels, then
// serves Set-queued updates until ctx ends.
func (a *Actuator) Run(ctx context.Context) error {
	def0 := a.loadOrDefault(Channel0, DefaultDutyChannel0)
	def1 := a.loadOrDefault(Channel1, DefaultDutyChannel1)

	if err := a.writer.SetDuty(ctx, Channel0, def0); err != nil {
		return fmt.Errorf("actuator: apply startup duty for channel 0: %w", err)
	}
	a.setCurrent(Channel0, def0)
	if err := a.writer.SetDuty(ctx, Channel1, def1); err != nil {
		return fmt.Errorf("actuator: apply startup duty for channel 1: %w", err)
	}
	a.setCurrent(Channel1, def1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-a.cmds:
			if err := a.writer.SetDuty(ctx, cmd.channel, cmd.duty); err != nil {
				a.logger.Warn("apply pwm set-point failed", slog.Any("channel", cmd.channel), slog.Any("error", err))
				continue
			}
			a.setCurrent(cmd.channel, cmd.duty)
			if err := a.store.PutFloat32(rootBucket, keyFor(cmd.channel), cmd.duty); err != nil {
				a.logger.Warn("persist pwm set-point failed", slog.Any("channel", cmd.channel), slog.Any("error", err))
			}
		}
	}
}

func (a *Actuator) setCurrent(channel Channel, duty float32) {
	a.mu.Lock()
	a.current[channel] = duty
	a.mu.Unlock()
}
