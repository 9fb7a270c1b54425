// SPDX-License-Identifier: BSD-3-Clause

package runtime

import (
	"time"

	"github.com/u-bmc/fand/internal/poll"
)

// Config holds the daemon's top-level tunables, assembled with functional
// options the way the rest of this codebase configures its components.
type Config struct {
	name      string
	addr      string
	storePath string
	retention int
	mock      bool
	timeout   time.Duration
	pwmChip   string
	pollOpts  []poll.Option
}

// Option configures a Config.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithName sets the daemon's identity, reported to clients in Hello.
func WithName(name string) Option {
	return optionFunc(func(c *Config) { c.name = name })
}

// WithAddr sets the TCP address the session server listens on.
func WithAddr(addr string) Option {
	return optionFunc(func(c *Config) { c.addr = addr })
}

// WithStorePath sets the bbolt database file path.
func WithStorePath(path string) Option {
	return optionFunc(func(c *Config) { c.storePath = path })
}

// WithRetention sets how many samples each sensor keeps.
func WithRetention(n int) Option {
	return optionFunc(func(c *Config) { c.retention = n })
}

// WithMock swaps every hardware collaborator for an in-memory stand-in,
// for development boards and CI.
func WithMock(mock bool) Option {
	return optionFunc(func(c *Config) { c.mock = mock })
}

// WithTimeout sets how long a component is given to shut down before the
// supervisor considers it stuck.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.timeout = d })
}

// WithPWMChip sets the sysfs pwmchip directory the actuator drives.
func WithPWMChip(path string) Option {
	return optionFunc(func(c *Config) { c.pwmChip = path })
}

// WithPollOptions passes configuration through to the built-in pollers.
func WithPollOptions(opts ...poll.Option) Option {
	return optionFunc(func(c *Config) { c.pollOpts = append(c.pollOpts, opts...) })
}

// NewConfig builds a Config from defaults, overridden by opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		name:      "fand",
		addr:      "0.0.0.0:7583",
		storePath: "./settings.db",
		retention: 100,
		mock:      false,
		timeout:   10 * time.Second,
		pwmChip:   "/sys/class/pwm/pwmchip0",
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}
