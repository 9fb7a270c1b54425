// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/u-bmc/fand/internal/actuator"
	"github.com/u-bmc/fand/internal/sensor"
	"github.com/u-bmc/fand/pkg/store"
)

func newTestSession(t *testing.T) (client net.Conn, registry *sensor.Registry, pwm *actuator.Actuator) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	bus, err := sensor.NewBus(logger)
	if err != nil {
		t.Fatalf("sensor.NewBus: %v", err)
	}
	t.Cleanup(bus.Close)

	registry = sensor.New(logger, bus, st, 16)
	pwm = actuator.New(actuator.NewMockPWM(), st, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = pwm.Run(ctx) }()
	for pwm.Current(actuator.Channel0) == 0 {
		time.Sleep(time.Millisecond)
	}

	server, client := net.Pipe()
	sess := NewSession(server, registry, pwm, "test-rig", 16, logger)
	go func() { _ = sess.Serve(ctx) }()

	return client, registry, pwm
}

func TestSessionHandshakeAndSnapshot(t *testing.T) {
	client, _, _ := newTestSession(t)
	defer client.Close()

	hello, err := ReadFrame(client)
	if err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.ID != MsgHello {
		t.Fatalf("expected hello, got %v", hello.ID)
	}
	h, err := DecodeHello(hello.Payload)
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	if h.Name != "test-rig" || h.Retention != 16 {
		t.Fatalf("unexpected hello: %+v", h)
	}
	if h.Pwm0 != actuator.DefaultDutyChannel0 {
		t.Fatalf("expected pwm0 startup default applied by Run, got %v", h.Pwm0)
	}

	if err := WriteFrame(client, MsgReady, nil); err != nil {
		t.Fatalf("write ready: %v", err)
	}

	snapshot, err := ReadFrame(client)
	if err != nil {
		t.Fatalf("read sensors snapshot: %v", err)
	}
	if snapshot.ID != MsgSensors {
		t.Fatalf("expected sensors snapshot, got %v", snapshot.ID)
	}
	sensors, err := DecodeSensors(snapshot.Payload)
	if err != nil {
		t.Fatalf("decode sensors: %v", err)
	}
	if len(sensors.Sensors) != 7 {
		t.Fatalf("expected 7 built-in sensors, got %d", len(sensors.Sensors))
	}
}

func TestSessionRejectsMessageBeforeReady(t *testing.T) {
	client, _, _ := newTestSession(t)
	defer client.Close()

	if _, err := ReadFrame(client); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	if err := WriteFrame(client, MsgValue, Value{ID: 0, Value: 1}.Encode()); err != nil {
		t.Fatalf("write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := ReadFrame(client); err == nil {
		t.Fatal("expected the session to close the connection on a protocol violation")
	}
}

func TestSessionStreamsUpdatesAfterReady(t *testing.T) {
	client, registry, _ := newTestSession(t)
	defer client.Close()

	if _, err := ReadFrame(client); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if err := WriteFrame(client, MsgReady, nil); err != nil {
		t.Fatalf("write ready: %v", err)
	}
	if _, err := ReadFrame(client); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	registry.Set(sensor.Tmp0, 42.5)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := ReadFrame(client)
	if err != nil {
		t.Fatalf("read value update: %v", err)
	}
	if frame.ID != MsgValue {
		t.Fatalf("expected value update, got %v", frame.ID)
	}
	v, err := DecodeValue(frame.Payload)
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if v.ID != uint32(sensor.Tmp0) || v.Value != 42.5 {
		t.Fatalf("unexpected value: %+v", v)
	}
}
