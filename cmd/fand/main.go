// SPDX-License-Identifier: BSD-3-Clause

// Command fand runs the fan and sensor daemon: it serves a line of network
// clients with live sensor readings and fan duty control, polling onboard
// temperature and tachometer hardware and evaluating user-defined virtual
// sensors in the background.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/u-bmc/fand/internal/poll"
	"github.com/u-bmc/fand/internal/runtime"
	"github.com/u-bmc/fand/pkg/log"
	"github.com/u-bmc/fand/pkg/telemetry"
)

func main() {
	// Embedded boards this daemon targets rarely have more than a few
	// hundred MB of RAM.
	debug.SetMemoryLimit(256 * 1024 * 1024)

	var name string
	flag.StringVar(&name, "name", "", "the instance name of the fand server (required)")
	flag.StringVar(&name, "n", "", "shorthand for -name")
	retention := flag.Uint("r", 100, "the number of sensor values the server will store for each sensor")
	addr := flag.String("addr", "0.0.0.0:7583", "address the server listens on")
	storePath := flag.String("db", "./settings.db", "path to the settings database")
	mock := flag.Bool("mock", false, "use mock ADC/tachometer/PWM backends instead of real hardware")
	pwmChip := flag.String("pwm-chip", "/sys/class/pwm/pwmchip0", "sysfs PWM chip to drive")
	i2cDevice := flag.String("i2c-device", "/dev/i2c-1", "I2C device node for the ADC")
	tachChip := flag.String("tach-chip", "gpiochip0", "GPIO chip for tachometer inputs")
	hostLabel := flag.String("host-label", "package", "hwmon sensor label to fall back to if the thermal zone path is absent")
	flag.Parse()

	if name == "" {
		fmt.Fprintln(os.Stderr, "fand: -name is required")
		flag.Usage()
		os.Exit(2)
	}

	telemetry.DefaultSetup()
	logger := log.NewDefaultLogger()

	rt := runtime.New(logger,
		runtime.WithName(name),
		runtime.WithAddr(*addr),
		runtime.WithStorePath(*storePath),
		runtime.WithRetention(int(*retention)),
		runtime.WithMock(*mock),
		runtime.WithTimeout(10*time.Second),
		runtime.WithPWMChip(*pwmChip),
		runtime.WithPollOptions(
			poll.WithI2CDevice(*i2cDevice),
			poll.WithTachChip(*tachChip),
			poll.WithHostLabel(*hostLabel),
		),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rt.Run(ctx); err != nil {
		logger.Error("fand exited", slog.Any("error", err))
		os.Exit(1)
	}
}
