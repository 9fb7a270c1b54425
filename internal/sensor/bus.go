// SPDX-License-Identifier: BSD-3-Clause

package sensor

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	busSubject          = "fand.sensor.events"
	subscriberPending   = 25
	subscriberPendingMB = 4 * 1024 * 1024
)

// Bus is the event bus described in the registry's component design: every
// registry mutation is broadcast to every subscriber, each subscriber has
// its own bounded queue, and a subscriber that falls behind has messages
// dropped for it alone rather than stalling the publisher or the other
// subscribers. It is backed by an embedded, in-process NATS server so the
// only public network surface this daemon exposes is the session listener.
type Bus struct {
	logger *slog.Logger
	srv    *server.Server
	nc     *nats.Conn

	mu     sync.Mutex
	closed bool
}

// NewBus starts an in-process NATS server and connects to it without
// opening any TCP listener, mirroring the nats.InProcessConnProvider idiom.
func NewBus(logger *slog.Logger) (*Bus, error) {
	opts := &server.Options{
		Host:                  "127.0.0.1",
		Port:                  server.RANDOM_PORT,
		DontListen:            true,
		NoSigs:                true,
		NoLog:                 true,
		MaxPayload:            1024 * 1024,
		DisableShortFirstPing: true,
	}

	srv, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusUnavailable, err)
	}

	srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		srv.Shutdown()
		return nil, fmt.Errorf("%w: server not ready", ErrBusUnavailable)
	}

	nc, err := nats.Connect("", nats.InProcessServer(srv))
	if err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("%w: %w", ErrBusUnavailable, err)
	}

	return &Bus{logger: logger, srv: srv, nc: nc}, nil
}

// Publish broadcasts msg to every current subscriber. It never blocks on a
// slow subscriber; NATS applies each subscription's own pending limits.
func (b *Bus) Publish(msg Message) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := msgpack.Marshal(msg.toWire())
	if err != nil {
		return fmt.Errorf("sensor: encode message: %w", err)
	}

	if err := b.nc.Publish(busSubject, data); err != nil {
		return fmt.Errorf("sensor: publish: %w", err)
	}
	return nil
}

// Subscription is a single subscriber's bounded view onto the bus.
type Subscription struct {
	sub *nats.Subscription
	ch  chan *nats.Msg
}

// C returns the channel of decoded messages for this subscription.
func (s *Subscription) C() <-chan Message {
	out := make(chan Message)
	go func() {
		defer close(out)
		for raw := range s.ch {
			var w wireMessage
			if err := msgpack.Unmarshal(raw.Data, &w); err != nil {
				continue
			}
			out <- w.toMessage()
		}
	}()
	return out
}

// Unsubscribe detaches the subscription from the bus.
func (s *Subscription) Unsubscribe() error {
	close(s.ch)
	return s.sub.Unsubscribe()
}

// Subscribe registers a new bounded subscriber.
func (b *Bus) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	ch := make(chan *nats.Msg, subscriberPending)
	sub, err := b.nc.ChanSubscribe(busSubject, ch)
	if err != nil {
		return nil, fmt.Errorf("sensor: subscribe: %w", err)
	}
	if err := sub.SetPendingLimits(subscriberPending, subscriberPendingMB); err != nil {
		b.logger.Warn("could not set subscriber pending limits", slog.Any("error", err))
	}

	return &Subscription{sub: sub, ch: ch}, nil
}

// Close drains connections and shuts the in-process server down.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.nc.Close()
	b.srv.Shutdown()
	b.srv.WaitForShutdown()
}
