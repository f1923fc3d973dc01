// Package haptic drives directional haptic feedback for object guidance.
// The Scheduler converts a stream of guidance patterns into debounced,
// self-repeating pulse playback on a haptic motor.
package haptic

// Pattern is the closed set of guidance states the scheduler can play.
type Pattern int

const (
	// Seeking means no target is currently detected.
	Seeking Pattern = iota
	// LeftFar through RightNear encode direction and distance to the target.
	LeftFar
	LeftNear
	CenterFar
	CenterNear
	RightFar
	RightNear
	// Success means the target is centered and close enough to reach.
	Success
)

// String returns the pattern name for logs and the dashboard.
func (p Pattern) String() string {
	switch p {
	case Seeking:
		return "seeking"
	case LeftFar:
		return "left_far"
	case LeftNear:
		return "left_near"
	case CenterFar:
		return "center_far"
	case CenterNear:
		return "center_near"
	case RightFar:
		return "right_far"
	case RightNear:
		return "right_near"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Directional returns true for the six left/center/right patterns.
func (p Pattern) Directional() bool {
	return p > Seeking && p < Success
}

// Near returns true when the pattern encodes a close target.
func (p Pattern) Near() bool {
	switch p {
	case LeftNear, CenterNear, RightNear:
		return true
	}
	return false
}
