// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/u-bmc/fand/pkg/i2c"
)

// ADCReader reads a raw signed 16-bit conversion result from one ADC channel.
type ADCReader interface {
	ReadChannel(ctx context.Context, channel int) (int16, error)
}

const (
	ads1115PointerConfig     = 0x01
	ads1115PointerConversion = 0x00
)

// muxConfig holds the ADS1115 config register's high/low bytes for each
// single-ended channel against GND, at the board's fixed +-4.096V FSR,
// 860SPS, single-shot settings. See the ADS1115 datasheet's register map.
var muxConfig = [4][2]byte{
	{0b11000011, 0b11100011},
	{0b11010011, 0b11100011},
	{0b11100011, 0b11100011},
	{0b11110011, 0b11100011},
}

// ADS1115I2C reads the four single-ended channels of an ADS1115 ADC over I2C.
type ADS1115I2C struct {
	device string
	addr   uint8
	settle time.Duration
}

// NewADS1115I2C builds a reader for the ADC at device/addr, waiting settle
// after starting a conversion before reading it back.
func NewADS1115I2C(device string, addr uint8, settle time.Duration) *ADS1115I2C {
	return &ADS1115I2C{device: device, addr: addr, settle: settle}
}

// ReadChannel starts a single-shot conversion on channel, waits the
// configured settle time, and returns the signed 16-bit result.
func (a *ADS1115I2C) ReadChannel(ctx context.Context, channel int) (int16, error) {
	if channel < 0 || channel > 3 {
		return 0, fmt.Errorf("poll: invalid adc channel %d", channel)
	}

	bus, err := parseI2CBus(a.device)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	conn, err := i2c.Open(i2c.NewConfig(
		i2c.WithBus(bus),
		i2c.WithAddress(uint16(a.addr)),
		i2c.WithProtocol(i2c.ProtocolSMBus),
	))
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", ErrReadFailed, a.device, err)
	}
	defer conn.Close()

	cfg := muxConfig[channel]
	cfgWord := uint16(cfg[0])<<8 | uint16(cfg[1])
	if err := conn.WriteWordData(ads1115PointerConfig, swapBytes(cfgWord)); err != nil {
		return 0, fmt.Errorf("%w: write config register: %w", ErrReadFailed, err)
	}

	select {
	case <-time.After(a.settle):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	raw, err := conn.ReadWordData(ads1115PointerConversion)
	if err != nil {
		return 0, fmt.Errorf("%w: read conversion register: %w", ErrReadFailed, err)
	}

	return int16(swapBytes(raw)), nil
}

// swapBytes reverses the byte order of a 16-bit word. The ADS1115 register
// layout is big-endian while SMBus word transfers are little-endian.
func swapBytes(v uint16) uint16 {
	return v<<8 | v>>8
}

// parseI2CBus extracts the bus number from a /dev/i2c-N device path.
func parseI2CBus(device string) (int, error) {
	_, numStr, ok := strings.Cut(device, "i2c-")
	if !ok {
		return 0, fmt.Errorf("poll: unrecognized i2c device path %q", device)
	}
	bus, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("poll: unrecognized i2c device path %q: %w", device, err)
	}
	return bus, nil
}
