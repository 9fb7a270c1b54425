// SPDX-License-Identifier: BSD-3-Clause

package netsrv

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/u-bmc/fand/internal/actuator"
	"github.com/u-bmc/fand/internal/sensor"
)

// Server is the network session listener: one TCP socket, one Session
// goroutine per accepted connection.
type Server struct {
	addr      string
	registry  *sensor.Registry
	pwm       *actuator.Actuator
	name      string
	retention uint32
	logger    *slog.Logger
}

// NewServer builds a Server bound to addr (e.g. "0.0.0.0:7583").
func NewServer(addr string, registry *sensor.Registry, pwm *actuator.Actuator, name string, retention uint32, logger *slog.Logger) *Server {
	return &Server{
		addr:      addr,
		registry:  registry,
		pwm:       pwm,
		name:      name,
		retention: retention,
		logger:    logger,
	}
}

// Run listens on s.addr and serves connections until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("netsrv: listen on %s: %w", s.addr, err)
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.logger.Info("listening", slog.String("addr", s.addr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("netsrv: accept: %w", err)
			}
		}

		sess := NewSession(conn, s.registry, s.pwm, s.name, s.retention, s.logger)
		go func() {
			if err := sess.Serve(ctx); err != nil {
				s.logger.Debug("session ended", slog.Any("error", err))
			}
		}()
	}
}
