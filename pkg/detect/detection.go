// Package detect provides object-detection result types and candidate
// selection shared by all detection oracles.
package detect

// Box is a normalized bounding box. Coordinates are expected in [0,1]
// with YMax >= YMin and XMax >= XMin, but oracles are untrusted: derived
// quantities clamp rather than assume well-formedness.
type Box struct {
	YMin float64 `json:"y_min"`
	XMin float64 `json:"x_min"`
	YMax float64 `json:"y_max"`
	XMax float64 `json:"x_max"`
}

// Width returns XMax-XMin. May be negative for malformed boxes.
func (b Box) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns YMax-YMin. May be negative for malformed boxes.
func (b Box) Height() float64 {
	return b.YMax - b.YMin
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 {
	return b.XMin + b.Width()/2
}

// Area returns width*height clamped to [0, inf). A malformed box with a
// negative product reports zero area.
func (b Box) Area() float64 {
	area := b.Width() * b.Height()
	if area < 0 {
		return 0
	}
	return area
}

// Detection is one candidate from a per-frame detection result.
type Detection struct {
	// ClassID is the category identifier. Single-class oracles report -1.
	ClassID int `json:"class_id"`

	// Score is the detection confidence in [0,1].
	Score float64 `json:"score"`

	// Box is the normalized bounding box.
	Box Box `json:"box"`
}

// SelectOptions controls candidate selection.
type SelectOptions struct {
	// ScoreThreshold is the minimum confidence for a candidate to qualify.
	ScoreThreshold float64

	// TargetClass restricts selection to one class. Negative disables the
	// filter (single-class oracles).
	TargetClass int
}

// Best returns the qualifying candidate with the highest score.
// Candidates of the wrong class or below the threshold are discarded.
// Ties break in first-seen order so selection is deterministic.
// ok is false when no candidate qualifies.
func Best(dets []Detection, opts SelectOptions) (best Detection, ok bool) {
	for _, d := range dets {
		if opts.TargetClass >= 0 && d.ClassID != opts.TargetClass {
			continue
		}
		if d.Score < opts.ScoreThreshold {
			continue
		}
		if !ok || d.Score > best.Score {
			best = d
			ok = true
		}
	}
	return best, ok
}
