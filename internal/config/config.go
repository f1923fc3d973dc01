// Package config provides configuration helpers for go-seeksense commands.
package config

import (
	"fmt"
	"os"
)

// Default configuration.
const (
	DefaultDashboardPort = "8090"
	DefaultSerialBaud    = 115200
	DefaultModelPath     = "models/yolov8n.onnx"
)

// LogLevel returns the log level from SEEK_LOG_LEVEL env var.
// Falls back to "info" if not set.
func LogLevel() string {
	if lvl := os.Getenv("SEEK_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// FeedURL returns the detection feed URL. An explicitly passed flag
// value wins; the SEEK_FEED_URL env var is the fallback.
func FeedURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("SEEK_FEED_URL")
}

// SerialPortRequired returns the haptic motor serial port from SEEK_SERIAL_PORT env var.
// Exits with a usage message if not set.
func SerialPortRequired() string {
	port := os.Getenv("SEEK_SERIAL_PORT")
	if port == "" {
		fmt.Fprintln(os.Stderr, "Error: SEEK_SERIAL_PORT environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: SEEK_SERIAL_PORT=/dev/ttyUSB0 go run ./cmd/seek -driver serial")
		os.Exit(1)
	}
	return port
}

// ModelPath returns the detection model path from SEEK_MODEL env var or default.
func ModelPath() string {
	if path := os.Getenv("SEEK_MODEL"); path != "" {
		return path
	}
	return DefaultModelPath
}

// DashboardPort returns the dashboard port from SEEK_DASH_PORT env var or default.
func DashboardPort() string {
	if port := os.Getenv("SEEK_DASH_PORT"); port != "" {
		return port
	}
	return DefaultDashboardPort
}
