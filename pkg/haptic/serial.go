package haptic

import (
	"sync"

	"go.bug.st/serial"

	"github.com/seeksense/go-seeksense/internal/log"
)

// Pulse frame bytes understood by the motor controller firmware.
// One frame per pulse: start marker, intensity level, pulse type, end marker.
const (
	frameStart = 0xA5
	frameEnd   = 0x5A

	levelWeak   = 0x01
	levelStrong = 0x02

	typeStandard    = 0x10
	typeCelebratory = 0x20
)

// SerialDriver drives a haptic motor controller over a serial port.
type SerialDriver struct {
	port serial.Port
	name string

	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the motor controller on the given port.
func OpenSerial(portName string, baud int) (*SerialDriver, error) {
	if portName == "" {
		return nil, ErrNoPort
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, WrapError("serial", err)
	}

	log.Info("haptic motor connected", "port", portName, "baud", baud)
	return &SerialDriver{port: port, name: portName}, nil
}

// Pulse writes one pulse frame to the controller.
func (d *SerialDriver) Pulse(intensity Intensity, kind Kind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	level := byte(levelWeak)
	if intensity == Strong {
		level = levelStrong
	}
	pulseType := byte(typeStandard)
	if kind == Celebratory {
		pulseType = typeCelebratory
	}

	frame := []byte{frameStart, level, pulseType, frameEnd}
	if _, err := d.port.Write(frame); err != nil {
		return WrapError("serial", err)
	}
	return nil
}

// Close closes the serial port.
func (d *SerialDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.port.Close(); err != nil {
		return WrapError("serial", err)
	}
	return nil
}

var _ Driver = (*SerialDriver)(nil)
