package haptic

import (
	"github.com/seeksense/go-seeksense/internal/log"
)

// Driver is the interface to a physical haptic motor.
// Pulse emits exactly one vibration pulse and returns when the command
// has been handed to the device. Implementations must be safe for use
// from the scheduler's playback goroutine.
type Driver interface {
	Pulse(intensity Intensity, kind Kind) error
	Close() error
}

// ConsoleDriver logs pulses instead of driving hardware.
// Useful for development and replay without a motor attached.
type ConsoleDriver struct{}

// Pulse logs the pulse at info level.
func (ConsoleDriver) Pulse(intensity Intensity, kind Kind) error {
	log.Info("haptic pulse", "intensity", intensity.String(), "kind", kind.String())
	return nil
}

// Close is a no-op.
func (ConsoleDriver) Close() error { return nil }

var _ Driver = ConsoleDriver{}
