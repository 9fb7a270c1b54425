// SPDX-License-Identifier: BSD-3-Clause

package poll

import (
	"context"
	"math/rand"
	"time"
)

// MockADCReader returns pseudo-random counts centered on the divider
// midpoint, standing in for real hardware on boards without an ADC
// attached — the role u-bmc's mock mainboard target and the original
// facade sensor readings both play for their domains.
type MockADCReader struct {
	rng *rand.Rand
}

// NewMockADCReader builds a deterministic mock ADC reader from seed.
func NewMockADCReader(seed int64) *MockADCReader {
	return &MockADCReader{rng: rand.New(rand.NewSource(seed))}
}

// ReadChannel ignores channel and returns a jittered count near room temperature.
func (m *MockADCReader) ReadChannel(_ context.Context, _ int) (int16, error) {
	base := int16(supplyVolts / 2 / adcVoltsPerCount)
	jitter := int16(m.rng.Intn(2000) - 1000)
	return base + jitter, nil
}

// MockTachReader returns a plausible fan-speed edge count without touching GPIO.
type MockTachReader struct {
	rng *rand.Rand
}

// NewMockTachReader builds a deterministic mock tachometer reader from seed.
func NewMockTachReader(seed int64) *MockTachReader {
	return &MockTachReader{rng: rand.New(rand.NewSource(seed))}
}

// CountEdges ignores line and edgeWait and reports a full window with a
// plausible sample duration.
func (m *MockTachReader) CountEdges(_ context.Context, _ int, maxEdges int, _ time.Duration) (int, time.Duration, error) {
	elapsed := time.Duration(800+m.rng.Intn(400)) * time.Millisecond
	return maxEdges, elapsed, nil
}
