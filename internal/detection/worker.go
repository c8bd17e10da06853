package detection

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GraphicsWorker receives stage-by-stage debug output from a Finder.
//
// The Finder calls it synchronously from within Find, and only at the
// OUTPUT_PASS1 and OUTPUT_PASS2 checkpoints when Options.OutputStages is set.
type GraphicsWorker interface {
	// WriteDebugColor marks pixel (x, y) with c.
	WriteDebugColor(x, y int, c Color)

	// UpdateCallback signals that region r has changed.
	UpdateCallback(r Rect)
}

// Snapshotter is implemented by workers that can persist a finished stage.
// The Finder calls Snapshot after the stage's UpdateCallback.
type Snapshotter interface {
	Snapshot(stage Stage) error
}

// goldenAngle spreads consecutive labels around the hue wheel.
const goldenAngle = 137.50776405003785

// DebugColor returns the visualisation color of label. Label 0 (border
// lines) is black; other labels get well separated, deterministic hues.
func DebugColor(label uint32) Color {
	if label == 0 {
		return Color{}
	}
	h := math.Mod(float64(label)*goldenAngle, 360)
	s := 0.55 + 0.2*float64(label%3)
	v := 0.75 + 0.2*float64(label%2)
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}
