// Package guidance converts per-frame detection results into haptic
// guidance patterns and runs the session loop that ties a detection
// oracle to the haptic scheduler.
package guidance

import (
	"github.com/seeksense/go-seeksense/pkg/detect"
	"github.com/seeksense/go-seeksense/pkg/haptic"
)

// Frame thirds for left/center/right classification.
const (
	leftBoundary  = 1.0 / 3.0
	rightBoundary = 2.0 / 3.0
)

// Classifier maps one frame's detections to a single guidance pattern.
// It is pure and stateless: safe to call at the oracle's frame rate from
// any goroutine.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the pattern for the best qualifying candidate.
// ok is false when no candidate clears the threshold; callers normalize
// that to haptic.Seeking.
//
// Position comes from the box center split into horizontal thirds,
// distance from the box area. A centered near target is Success
// regardless of the directional split.
func (c *Classifier) Classify(dets []detect.Detection) (pattern haptic.Pattern, ok bool) {
	best, ok := detect.Best(dets, detect.SelectOptions{
		ScoreThreshold: c.cfg.ScoreThreshold,
		TargetClass:    c.cfg.TargetClass,
	})
	if !ok {
		return haptic.Seeking, false
	}

	// Geometry is untrusted: area clamps at zero and a negative width
	// can never count as near.
	near := best.Box.Width() > 0 && best.Box.Area() > c.cfg.NearArea
	centerX := best.Box.CenterX()

	switch {
	case centerX < leftBoundary:
		if near {
			return haptic.LeftNear, true
		}
		return haptic.LeftFar, true
	case centerX > rightBoundary:
		if near {
			return haptic.RightNear, true
		}
		return haptic.RightFar, true
	default:
		if near {
			// Centered and close: the target is within reach.
			return haptic.Success, true
		}
		return haptic.CenterFar, true
	}
}
