package haptic

import "time"

// Config holds all tunable timing parameters for the scheduler.
type Config struct {
	// SeekingInterval is the heartbeat period while no target is detected.
	SeekingInterval time.Duration

	// RepeatInterval is the replay cadence for directional patterns.
	RepeatInterval time.Duration

	// LockoutDuration is how long the scheduler ignores input after success.
	LockoutDuration time.Duration

	// Cooldown is the minimum spacing between playback starts, across all
	// triggers. Protects the motor from overlapping sequences.
	Cooldown time.Duration

	// PulseGap is the spacing between pulses within one playback sequence.
	PulseGap time.Duration
}

// DefaultConfig returns the recommended scheduler timing.
func DefaultConfig() Config {
	return Config{
		SeekingInterval: 2000 * time.Millisecond,
		RepeatInterval:  800 * time.Millisecond,
		LockoutDuration: 3000 * time.Millisecond,
		Cooldown:        400 * time.Millisecond,
		PulseGap:        120 * time.Millisecond,
	}
}

// FastRepeatConfig returns a configuration with a tighter directional
// cadence, for users who prefer denser feedback.
func FastRepeatConfig() Config {
	cfg := DefaultConfig()
	cfg.RepeatInterval = 300 * time.Millisecond
	return cfg
}

// withDefaults fills zero fields from DefaultConfig so a partially
// populated Config cannot produce a zero-period timer.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SeekingInterval <= 0 {
		c.SeekingInterval = def.SeekingInterval
	}
	if c.RepeatInterval <= 0 {
		c.RepeatInterval = def.RepeatInterval
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = def.LockoutDuration
	}
	if c.Cooldown <= 0 {
		c.Cooldown = def.Cooldown
	}
	if c.PulseGap <= 0 {
		c.PulseGap = def.PulseGap
	}
	return c
}
