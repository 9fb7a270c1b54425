// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"math"
	"testing"
)

func TestSteinhartHartRoomTemperature(t *testing.T) {
	// At room temperature a 10k NTC reads ~10k ohms, which puts the divider
	// midpoint near half of the supply rail.
	midpoint := int16(supplyVolts / 2 / adcVoltsPerCount)

	got := steinhartHart(midpoint)
	if math.Abs(got-25) > 2 {
		t.Fatalf("expected roughly 25C at the divider midpoint, got %v", got)
	}
}

func TestSteinhartHartMonotonicWithVoltage(t *testing.T) {
	low := steinhartHart(5000)
	high := steinhartHart(15000)

	if !(low < high) {
		t.Fatalf("expected temperature to rise as ADC counts rise (fixed resistor on the divider's low side), got low=%v high=%v", low, high)
	}
}
