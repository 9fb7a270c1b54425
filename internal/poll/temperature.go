// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/u-bmc/fand/internal/sensor"
)

var temperatureChannelIDs = [4]sensor.ID{sensor.Tmp0, sensor.Tmp1, sensor.Tmp2, sensor.Tmp3}

// TemperatureProbes samples the four I2C-ADC thermistor channels on a
// fixed interval and converts each reading to Celsius with the
// Steinhart-Hart equation, recording each channel's own value under its
// own SensorId.
type TemperatureProbes struct {
	cfg      *Config
	registry *sensor.Registry
	logger   *slog.Logger
	adc      ADCReader
}

// NewTemperatureProbes builds the poller for the four thermistor channels.
func NewTemperatureProbes(cfg *Config, registry *sensor.Registry, logger *slog.Logger, adc ADCReader) *TemperatureProbes {
	return &TemperatureProbes{cfg: cfg, registry: registry, logger: logger, adc: adc}
}

// Run samples every channel once per configured interval until ctx ends.
func (p *TemperatureProbes) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.tempInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for channel, id := range temperatureChannelIDs {
				counts, err := p.adc.ReadChannel(ctx, channel)
				if err != nil {
					p.logger.Warn("temperature probe read failed", slog.Int("channel", channel), slog.Any("error", err))
					continue
				}
				p.registry.Set(id, steinhartHart(counts))
			}
		}
	}
}
