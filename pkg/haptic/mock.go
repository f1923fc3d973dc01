package haptic

import (
	"sync"
	"time"
)

// MockDriver implements Driver for testing.
// Pulses are recorded with timestamps; PulseFunc can override behavior.
type MockDriver struct {
	// PulseFunc is called when Pulse is invoked. If nil, Pulse succeeds.
	PulseFunc func(intensity Intensity, kind Kind) error

	// CloseFunc is called when Close is invoked. If nil, Close returns nil.
	CloseFunc func() error

	mu     sync.Mutex
	pulses []PulseRecord
}

// PulseRecord captures one Pulse invocation.
type PulseRecord struct {
	Intensity Intensity
	Kind      Kind
	Time      time.Time
}

// Pulse records the call and delegates to PulseFunc if set.
func (m *MockDriver) Pulse(intensity Intensity, kind Kind) error {
	m.mu.Lock()
	m.pulses = append(m.pulses, PulseRecord{Intensity: intensity, Kind: kind, Time: time.Now()})
	m.mu.Unlock()

	if m.PulseFunc != nil {
		return m.PulseFunc(intensity, kind)
	}
	return nil
}

// Close delegates to CloseFunc if set.
func (m *MockDriver) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Pulses returns a copy of all recorded pulses.
func (m *MockDriver) Pulses() []PulseRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PulseRecord, len(m.pulses))
	copy(out, m.pulses)
	return out
}

// PulseCount returns the number of recorded pulses.
func (m *MockDriver) PulseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pulses)
}

// Reset clears all recorded pulses.
func (m *MockDriver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pulses = nil
}

// FailingDriver returns a mock whose pulses always fail with err.
func FailingDriver(err error) *MockDriver {
	return &MockDriver{
		PulseFunc: func(Intensity, Kind) error { return err },
	}
}

// Verify MockDriver implements Driver at compile time.
var _ Driver = (*MockDriver)(nil)
