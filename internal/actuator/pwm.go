// SPDX-License-Identifier: BSD-3-Clause

package actuator

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/u-bmc/fand/pkg/hwmon"
)

// pwmPeriodNS is a fixed 25kHz period, matching the PWM hat's fixed
// carrier frequency.
const pwmPeriodNS = 40_000

// SysfsPWM drives the Linux sysfs PWM class (/sys/class/pwm/pwmchipN),
// reusing the same cancelable-file-IO helpers pkg/hwmon already provides
// for sysfs access elsewhere in the daemon.
type SysfsPWM struct {
	chipPath string
}

// NewSysfsPWM builds a writer against the pwmchip directory at chipPath
// (e.g. "/sys/class/pwm/pwmchip0").
func NewSysfsPWM(chipPath string) *SysfsPWM {
	return &SysfsPWM{chipPath: chipPath}
}

func (s *SysfsPWM) channelDir(channel Channel) string {
	return filepath.Join(s.chipPath, fmt.Sprintf("pwm%d", int(channel)))
}

func (s *SysfsPWM) ensureExported(ctx context.Context, channel Channel) error {
	dir := s.channelDir(channel)
	if hwmon.FileExistsCtx(ctx, dir) {
		return nil
	}

	if err := hwmon.WriteStringCtx(ctx, filepath.Join(s.chipPath, "export"), strconv.Itoa(int(channel))); err != nil {
		return fmt.Errorf("export pwm channel %d: %w", channel, err)
	}
	if err := hwmon.WriteIntCtx(ctx, filepath.Join(dir, "period"), pwmPeriodNS); err != nil {
		return fmt.Errorf("set pwm channel %d period: %w", channel, err)
	}
	// Inverse polarity, as the reference board's PWM hat requires.
	if err := hwmon.WriteStringCtx(ctx, filepath.Join(dir, "polarity"), "inversed"); err != nil {
		return fmt.Errorf("set pwm channel %d polarity: %w", channel, err)
	}
	if err := hwmon.WriteIntCtx(ctx, filepath.Join(dir, "enable"), 1); err != nil {
		return fmt.Errorf("enable pwm channel %d: %w", channel, err)
	}
	return nil
}

// SetDuty applies duty (0..1) to channel, exporting and enabling it first
// if this is the first time it has been set.
func (s *SysfsPWM) SetDuty(ctx context.Context, channel Channel, duty float32) error {
	if channel != Channel0 && channel != Channel1 {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	if err := s.ensureExported(ctx, channel); err != nil {
		return err
	}

	dutyNS := int(float64(duty) * float64(pwmPeriodNS))
	return hwmon.WriteIntCtx(ctx, filepath.Join(s.channelDir(channel), "duty_cycle"), dutyNS)
}
