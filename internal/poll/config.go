// SPDX-License-Identifier: BSD-3-Clause

package poll

import "time"

// Config holds the tunables for every built-in poller. It is assembled
// with functional options the way u-bmc's own per-service configs are.
type Config struct {
	i2cDevice     string
	i2cAddr       uint8
	tempInterval  time.Duration
	adcSettle     time.Duration
	hostPath      string
	hostLabel     string
	hostInterval  time.Duration
	tachChip      string
	tachPins      [2]int
	tachMaxEdges  int
	tachEdgeWait  time.Duration
	tachSettle    time.Duration
}

// Option configures a Config.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithI2CDevice sets the I2C bus device node the ADC is attached to.
func WithI2CDevice(path string) Option {
	return optionFunc(func(c *Config) { c.i2cDevice = path })
}

// WithI2CAddress sets the ADC's slave address.
func WithI2CAddress(addr uint8) Option {
	return optionFunc(func(c *Config) { c.i2cAddr = addr })
}

// WithTemperatureInterval sets how often all four thermistor channels are sampled.
func WithTemperatureInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.tempInterval = d })
}

// WithHostThermalPath sets the sysfs file the host CPU temperature is read from.
func WithHostThermalPath(path string) Option {
	return optionFunc(func(c *Config) { c.hostPath = path })
}

// WithHostLabel sets the hwmon sensor label to discover a host temperature
// path from when hostPath is absent (e.g. "package" or "Tdie").
func WithHostLabel(label string) Option {
	return optionFunc(func(c *Config) { c.hostLabel = label })
}

// WithHostInterval sets how often the host CPU temperature is sampled.
func WithHostInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.hostInterval = d })
}

// WithTachChip sets the gpiochip device the tachometer lines are requested from.
func WithTachChip(chip string) Option {
	return optionFunc(func(c *Config) { c.tachChip = chip })
}

// WithTachPins sets the two tachometer GPIO line offsets.
func WithTachPins(pin0, pin1 int) Option {
	return optionFunc(func(c *Config) { c.tachPins = [2]int{pin0, pin1} })
}

// NewConfig builds a Config from defaults tuned for the reference board,
// overridden by opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		i2cDevice:    "/dev/i2c-1",
		i2cAddr:      0x48,
		tempInterval: time.Second,
		adcSettle:    1300 * time.Microsecond,
		hostPath:     "/sys/class/thermal/thermal_zone0/temp",
		hostLabel:    "package",
		hostInterval: 3 * time.Second,
		tachChip:     "gpiochip0",
		tachPins:     [2]int{17, 27},
		tachMaxEdges: 50,
		tachEdgeWait: time.Second,
		tachSettle:   3 * time.Second,
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// NewADS1115FromConfig builds the real ADC reader described by cfg.
func NewADS1115FromConfig(cfg *Config) *ADS1115I2C {
	return NewADS1115I2C(cfg.i2cDevice, cfg.i2cAddr, cfg.adcSettle)
}

// NewGPIOTachFromConfig builds the real tachometer reader described by cfg.
func NewGPIOTachFromConfig(cfg *Config) *GPIOTachReader {
	return NewGPIOTachReader(cfg.tachChip)
}
