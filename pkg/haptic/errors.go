package haptic

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrClosed is returned when using a scheduler or driver after Close.
	ErrClosed = errors.New("haptic: closed")

	// ErrNoPort is returned when the serial driver is given no port name.
	ErrNoPort = errors.New("haptic: serial port required")
)

// DriverError wraps a device-level error with driver context.
type DriverError struct {
	Driver string
	Err    error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	return fmt.Sprintf("haptic [%s]: %v", e.Driver, e.Err)
}

// Unwrap returns the underlying error.
func (e *DriverError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with driver context.
func WrapError(driver string, err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Driver: driver, Err: err}
}
