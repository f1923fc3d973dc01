package guidance

import (
	"testing"

	"github.com/seeksense/go-seeksense/pkg/detect"
	"github.com/seeksense/go-seeksense/pkg/haptic"
)

func box(yMin, xMin, yMax, xMax float64) detect.Box {
	return detect.Box{YMin: yMin, XMin: xMin, YMax: yMax, XMax: xMax}
}

func TestClassifier_Classify(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetClass = -1 // geometry-focused cases use a single-class oracle

	tests := []struct {
		name     string
		dets     []detect.Detection
		expect   haptic.Pattern
		expectOK bool
	}{
		{
			name:     "no detections",
			dets:     nil,
			expectOK: false,
		},
		{
			name: "small centered box is center far",
			dets: []detect.Detection{
				{Score: 0.8, Box: box(0.4, 0.40, 0.6, 0.60)}, // area 0.04, centerX 0.50
			},
			expect:   haptic.CenterFar,
			expectOK: true,
		},
		{
			name: "tall centered box under the near area is still center far",
			dets: []detect.Detection{
				{Score: 0.8, Box: box(0.2, 0.40, 0.8, 0.60)}, // area 0.12
			},
			expect:   haptic.CenterFar,
			expectOK: true,
		},
		{
			name: "large centered box is success",
			dets: []detect.Detection{
				{Score: 0.8, Box: box(0.1, 0.35, 0.9, 0.65)}, // area 0.24, centerX 0.50
			},
			expect:   haptic.Success,
			expectOK: true,
		},
		{
			name: "left third far",
			dets: []detect.Detection{
				{Score: 0.9, Box: box(0.0, 0.0, 0.5, 0.25)}, // area 0.125, centerX 0.125
			},
			expect:   haptic.LeftFar,
			expectOK: true,
		},
		{
			name: "left third near",
			dets: []detect.Detection{
				{Score: 0.9, Box: box(0.1, 0.0, 0.9, 0.3)}, // area 0.24, centerX 0.15
			},
			expect:   haptic.LeftNear,
			expectOK: true,
		},
		{
			name: "right third far",
			dets: []detect.Detection{
				{Score: 0.9, Box: box(0.4, 0.7, 0.6, 0.9)}, // area 0.04, centerX 0.80
			},
			expect:   haptic.RightFar,
			expectOK: true,
		},
		{
			name: "right third near",
			dets: []detect.Detection{
				{Score: 0.9, Box: box(0.1, 0.7, 0.9, 1.0)}, // area 0.24, centerX 0.85
			},
			expect:   haptic.RightNear,
			expectOK: true,
		},
		{
			name: "success overrides direction for any score above threshold",
			dets: []detect.Detection{
				{Score: 0.41, Box: box(0.1, 0.35, 0.9, 0.65)},
			},
			expect:   haptic.Success,
			expectOK: true,
		},
		{
			name: "inverted box cannot be near",
			dets: []detect.Detection{
				{Score: 0.9, Box: box(0.8, 0.8, 0.2, 0.2)}, // width -0.6, centerX 0.5
			},
			expect:   haptic.CenterFar,
			expectOK: true,
		},
		{
			name: "highest score drives the pattern",
			dets: []detect.Detection{
				{Score: 0.5, Box: box(0.4, 0.0, 0.6, 0.2)},  // left far
				{Score: 0.95, Box: box(0.4, 0.7, 0.6, 0.9)}, // right far
			},
			expect:   haptic.RightFar,
			expectOK: true,
		},
	}

	c := NewClassifier(cfg)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pattern, ok := c.Classify(tc.dets)
			if ok != tc.expectOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.expectOK)
			}
			if ok && pattern != tc.expect {
				t.Errorf("pattern: got %v, want %v", pattern, tc.expect)
			}
		})
	}
}

func TestClassifier_Threshold(t *testing.T) {
	cfg := SingleClassConfig() // threshold 0.6
	c := NewClassifier(cfg)

	dets := []detect.Detection{
		{Score: 0.5, Box: box(0, 0.05, 0.3, 0.25)},
	}
	if _, ok := c.Classify(dets); ok {
		t.Error("candidate below the single-class threshold should not qualify")
	}

	dets[0].Score = 0.6
	if pattern, ok := c.Classify(dets); !ok || pattern != haptic.LeftFar {
		t.Errorf("candidate at threshold: got (%v, %v), want (LeftFar, true)", pattern, ok)
	}
}

func TestClassifier_ClassFilter(t *testing.T) {
	c := NewClassifier(DefaultConfig()) // target class: cup

	dets := []detect.Detection{
		{ClassID: 0, Score: 0.99, Box: box(0.1, 0.35, 0.9, 0.65)}, // person, would be Success
		{ClassID: ClassCup, Score: 0.5, Box: box(0.4, 0.7, 0.6, 0.9)},
	}
	pattern, ok := c.Classify(dets)
	if !ok || pattern != haptic.RightFar {
		t.Errorf("got (%v, %v), want (RightFar, true): non-target classes must be discarded", pattern, ok)
	}
}
