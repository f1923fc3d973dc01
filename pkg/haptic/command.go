package haptic

// Intensity is the two-level strength contract of the motor driver.
type Intensity int

const (
	Weak Intensity = iota
	Strong
)

// String returns the intensity name.
func (i Intensity) String() string {
	if i == Strong {
		return "strong"
	}
	return "weak"
}

// Kind distinguishes the celebratory success pulse from normal guidance pulses.
type Kind int

const (
	Standard Kind = iota
	Celebratory
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Celebratory {
		return "celebratory"
	}
	return "standard"
}

// Command describes one playback sequence: how many pulses to emit,
// at what intensity, and of what kind. Pulse count encodes direction
// (left=2, center=3, right=4), intensity encodes distance.
type Command struct {
	PulseCount int       `json:"pulse_count"`
	Intensity  Intensity `json:"intensity"`
	Kind       Kind      `json:"kind"`
}

// CommandFor maps a pattern to its playback command.
func CommandFor(p Pattern) Command {
	switch p {
	case LeftFar:
		return Command{PulseCount: 2, Intensity: Weak, Kind: Standard}
	case LeftNear:
		return Command{PulseCount: 2, Intensity: Strong, Kind: Standard}
	case CenterFar:
		return Command{PulseCount: 3, Intensity: Weak, Kind: Standard}
	case CenterNear:
		return Command{PulseCount: 3, Intensity: Strong, Kind: Standard}
	case RightFar:
		return Command{PulseCount: 4, Intensity: Weak, Kind: Standard}
	case RightNear:
		return Command{PulseCount: 4, Intensity: Strong, Kind: Standard}
	case Success:
		return Command{PulseCount: 1, Intensity: Strong, Kind: Celebratory}
	default:
		// Seeking heartbeat: a single weak pulse.
		return Command{PulseCount: 1, Intensity: Weak, Kind: Standard}
	}
}
