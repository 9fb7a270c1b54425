// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/u-bmc/fand/internal/sensor"
	"github.com/u-bmc/fand/pkg/hwmon"
)

// HostTemperature samples the board's own CPU thermal zone through sysfs.
// If the configured thermal-zone path isn't present, it falls back to
// discovering a matching hwmon temperature sensor by label.
type HostTemperature struct {
	cfg        *Config
	registry   *sensor.Registry
	logger     *slog.Logger
	discoverer *hwmon.Discoverer

	path string
}

// NewHostTemperature builds the host CPU temperature poller.
func NewHostTemperature(cfg *Config, registry *sensor.Registry, logger *slog.Logger) *HostTemperature {
	return &HostTemperature{
		cfg:        cfg,
		registry:   registry,
		logger:     logger,
		discoverer: hwmon.NewDiscoverer(),
		path:       cfg.hostPath,
	}
}

// Run samples the thermal zone once per configured interval until ctx ends.
func (h *HostTemperature) Run(ctx context.Context) error {
	if !hwmon.IsFileReadable(h.path) {
		h.resolvePath(ctx)
	}

	ticker := time.NewTicker(h.cfg.hostInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !hwmon.IsFileReadable(h.path) {
				h.resolvePath(ctx)
			}

			milliC, err := hwmon.ReadIntCtx(ctx, h.path)
			if err != nil {
				h.logger.Warn("host temperature read failed", slog.Any("error", err))
				continue
			}
			h.registry.Set(sensor.Host, float64(milliC)/1000.0)
		}
	}
}

// resolvePath falls back to hwmon discovery when the configured thermal
// zone path isn't usable, preferring a sensor whose label matches
// cfg.hostLabel and otherwise taking the first discovered temperature
// sensor.
func (h *HostTemperature) resolvePath(ctx context.Context) {
	var candidates []*hwmon.SensorInfo
	var err error
	if h.cfg.hostLabel != "" {
		if verr := hwmon.ValidateSensorLabel(h.cfg.hostLabel); verr != nil {
			h.logger.Warn("configured host label rejected", slog.Any("error", verr))
		} else {
			candidates, err = h.discoverer.DiscoverSensorsByLabel(ctx, h.cfg.hostLabel)
		}
	}
	if len(candidates) == 0 {
		candidates, err = h.discoverer.DiscoverSensors(ctx, hwmon.SensorTypeTemperature)
	}
	if err != nil || len(candidates) == 0 {
		h.logger.Warn("host temperature sensor discovery failed", slog.Any("error", err))
		return
	}

	path, err := candidates[0].GetAttributePath(hwmon.AttributeInput)
	if err != nil {
		h.logger.Warn("discovered sensor missing input attribute", slog.Any("error", err))
		return
	}
	if err := hwmon.ValidateHwmonPath(path); err != nil {
		h.logger.Warn("discovered path rejected", slog.Any("error", err))
		return
	}

	h.logger.Info("discovered host temperature sensor", slog.String("path", path), slog.String("sensor", candidates[0].String()))
	h.path = path
}
