// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/u-bmc/fand/internal/actuator"
	"github.com/u-bmc/fand/internal/sensor"
)

// protocolVersion is reported in every Hello greeting.
const protocolVersion = "1.0.0"

type sessionState string

const (
	stateAccepted      sessionState = "accepted"
	stateHelloSent     sessionState = "hello_sent"
	stateReadyReceived sessionState = "ready_received"
	stateStreaming     sessionState = "streaming"
	stateClosed        sessionState = "closed"
)

type sessionTrigger string

const (
	triggerHelloSent    sessionTrigger = "hello_sent"
	triggerReady        sessionTrigger = "ready_received"
	triggerSnapshotSent sessionTrigger = "snapshot_sent"
	triggerViolation    sessionTrigger = "violation"
)

// Session serves the daemon's wire protocol over one accepted connection:
// greet, wait for ready, send a full snapshot, then stream updates while
// dispatching whatever commands the client sends.
type Session struct {
	id        uuid.UUID
	conn      net.Conn
	registry  *sensor.Registry
	pwm       *actuator.Actuator
	logger    *slog.Logger
	name      string
	retention uint32

	fsm *stateless.StateMachine
}

// NewSession builds a session for one accepted connection.
func NewSession(conn net.Conn, registry *sensor.Registry, pwm *actuator.Actuator, name string, retention uint32, logger *slog.Logger) *Session {
	id := uuid.New()
	s := &Session{
		id:        id,
		conn:      conn,
		registry:  registry,
		pwm:       pwm,
		name:      name,
		retention: retention,
		logger:    logger.With(slog.String("session", id.String())),
	}

	s.fsm = stateless.NewStateMachine(stateAccepted)
	s.fsm.Configure(stateAccepted).
		Permit(triggerHelloSent, stateHelloSent)
	s.fsm.Configure(stateHelloSent).
		Permit(triggerReady, stateReadyReceived).
		Permit(triggerViolation, stateClosed)
	s.fsm.Configure(stateReadyReceived).
		Permit(triggerSnapshotSent, stateStreaming).
		Permit(triggerViolation, stateClosed)
	s.fsm.Configure(stateStreaming).
		Permit(triggerViolation, stateClosed)
	s.fsm.Configure(stateClosed)

	return s
}

// Serve runs the session's handshake and streaming loop to completion.
func (s *Session) Serve(ctx context.Context) error {
	defer s.conn.Close()

	if err := s.sendHello(); err != nil {
		return fmt.Errorf("netsrv: send hello: %w", err)
	}
	if err := s.fsm.Fire(triggerHelloSent); err != nil {
		return err
	}

	frame, err := ReadFrame(s.conn)
	if err != nil {
		return fmt.Errorf("netsrv: read ready: %w", err)
	}
	if frame.ID != MsgReady {
		_ = s.fsm.Fire(triggerViolation)
		return fmt.Errorf("%w: expected ready, got message id %d", ErrProtocolViolation, frame.ID)
	}
	if err := s.fsm.Fire(triggerReady); err != nil {
		return err
	}

	if err := s.sendSensors(); err != nil {
		return fmt.Errorf("netsrv: send initial sensors snapshot: %w", err)
	}
	if err := s.fsm.Fire(triggerSnapshotSent); err != nil {
		return err
	}

	sub, err := s.registry.Subscribe()
	if err != nil {
		return fmt.Errorf("netsrv: subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	frames := make(chan Frame)
	readErrs := make(chan error, 1)
	go func() {
		for {
			f, err := ReadFrame(s.conn)
			if err != nil {
				readErrs <- err
				return
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	updates := sub.C()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.handleBusMessage(msg); err != nil {
				return fmt.Errorf("netsrv: send update: %w", err)
			}
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if err := s.handleFrame(f); err != nil {
				s.logger.Warn("malformed or rejected client message", slog.Any("id", f.ID), slog.Any("error", err))
			}
		case err := <-readErrs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("netsrv: read: %w", err)
		}
	}
}

func (s *Session) handleBusMessage(msg sensor.Message) error {
	switch msg.Kind {
	case sensor.Update:
		return WriteFrame(s.conn, MsgValue, Value{ID: msg.ID.Uint32(), Value: msg.Value}.Encode())
	case sensor.Config, sensor.Error, sensor.ClearError, sensor.Remove:
		return s.sendSensors()
	default:
		return nil
	}
}

func (s *Session) handleFrame(f Frame) error {
	switch f.ID {
	case MsgSensorConfig:
		cfg, err := DecodeSensorConfig(f.Payload)
		if err != nil {
			return err
		}
		alias, unit := cfg.Alias, cfg.Unit
		return s.registry.Reconfigure(sensor.IDFromUint32(cfg.ID), &alias, &unit, cfg.Rate, cfg.Source)
	case MsgAddSensor:
		s.registry.AddVirtual()
		return nil
	case MsgRemoveSensor:
		rm, err := DecodeRemoveSensor(f.Payload)
		if err != nil {
			return err
		}
		return s.registry.Remove(sensor.IDFromUint32(rm.ID))
	case MsgPwm:
		p, err := DecodePwm(f.Payload)
		if err != nil {
			return err
		}
		switch p.Channel {
		case 0:
			s.pwm.Set(actuator.Channel0, p.Value)
		case 1:
			s.pwm.Set(actuator.Channel1, p.Value)
		}
		return nil
	default:
		// Hello/Ready/Value/Sensors are server-to-client only; anything
		// else we don't recognize is simply ignored, not fatal.
		return nil
	}
}

func (s *Session) sendHello() error {
	hello := Hello{
		Version:   protocolVersion,
		Name:      s.name,
		Retention: s.retention,
		Pwm0:      s.pwm.Current(actuator.Channel0),
		Pwm1:      s.pwm.Current(actuator.Channel1),
	}
	return WriteFrame(s.conn, MsgHello, hello.Encode())
}

func (s *Session) sendSensors() error {
	list := s.registry.List()
	records := make([]SensorRecord, 0, len(list))
	for _, sn := range list {
		rec := SensorRecord{
			ID:     sn.ID.Uint32(),
			Rate:   uint32(sn.Rate / time.Millisecond),
			Alias:  sn.Alias,
			Unit:   sn.Unit,
			Values: sn.Values,
		}
		if sn.ID.IsVirtual() {
			source := sn.Source
			rec.Source = &source
		}
		if sn.Err != "" {
			errMsg := sn.Err
			rec.Error = &errMsg
		}
		records = append(records, rec)
	}
	return WriteFrame(s.conn, MsgSensors, Sensors{Sensors: records}.Encode())
}
