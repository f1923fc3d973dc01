package guidance

import "time"

// ClassCup is the COCO class id for "cup", the default guidance target.
const ClassCup = 41

// Config holds all tunable parameters for guidance classification and the
// session frame loop.
type Config struct {
	// ScoreThreshold is the minimum detection confidence.
	ScoreThreshold float64

	// NearArea is the box area (fraction of frame) above which the target
	// counts as near. No hysteresis: boundary flicker is absorbed by the
	// scheduler's repeat cadence, not here.
	NearArea float64

	// TargetClass restricts classification to one class id.
	// Negative disables class filtering (single-class oracles).
	TargetClass int

	// FrameInterval is the frame-processing period of the session loop.
	FrameInterval time.Duration
}

// DefaultConfig returns the multi-class oracle configuration: COCO class
// filtering with the lower confidence threshold.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold: 0.4,
		NearArea:       0.15,
		TargetClass:    ClassCup,
		FrameInterval:  100 * time.Millisecond, // 10 Hz
	}
}

// SingleClassConfig returns the configuration for a single-class oracle:
// no class filter, higher confidence threshold.
func SingleClassConfig() Config {
	cfg := DefaultConfig()
	cfg.ScoreThreshold = 0.6
	cfg.TargetClass = -1
	return cfg
}
