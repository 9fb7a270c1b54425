// SPDX-License-Identifier: BSD-3-Clause

package actuator

import (
	"context"
	"sync"
)

// MockPWM records applied duty cycles in memory instead of touching
// hardware, for development boards and tests.
type MockPWM struct {
	mu    sync.Mutex
	duty  map[Channel]float32
}

// NewMockPWM builds an in-memory PWM writer.
func NewMockPWM() *MockPWM {
	return &MockPWM{duty: make(map[Channel]float32)}
}

// SetDuty records duty for channel.
func (m *MockPWM) SetDuty(_ context.Context, channel Channel, duty float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duty[channel] = duty
	return nil
}

// Duty returns the last duty cycle recorded for channel.
func (m *MockPWM) Duty(channel Channel) float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duty[channel]
}
