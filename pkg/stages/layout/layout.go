// Package layout implements the layout calculation stage.
package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/user/mirrorbeat/pkg/pipeline"
)

// Stage fits the source image into the output canvas.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	if input.Source.Width <= 0 || input.Source.Height <= 0 {
		return pipeline.LayoutResult{}, fmt.Errorf("invalid source size %dx%d", input.Source.Width, input.Source.Height)
	}
	if input.Canvas.Width <= 0 || input.Canvas.Height <= 0 {
		return pipeline.LayoutResult{}, fmt.Errorf("%w: canvas size %dx%d", pipeline.ErrInvalidSession, input.Canvas.Width, input.Canvas.Height)
	}
	return ComputeLayout(input), nil
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// The image is scaled uniformly by min(W/iw, H/ih), so it touches the canvas
// on one axis and is letterboxed on the other. The scaled size is rounded to
// whole pixels, never below 1, and centered with integer offsets.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	cw, ch := input.Canvas.Width, input.Canvas.Height
	iw, ih := input.Source.Width, input.Source.Height

	scale := math.Min(float64(cw)/float64(iw), float64(ch)/float64(ih))

	w := clamp(int(math.Round(float64(iw)*scale)), 1, cw)
	h := clamp(int(math.Round(float64(ih)*scale)), 1, ch)

	return pipeline.LayoutResult{
		Canvas: input.Canvas,
		Image: pipeline.Rectangle{
			X:      (cw - w) / 2,
			Y:      (ch - h) / 2,
			Width:  w,
			Height: h,
		},
		Scale: scale,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mirror returns the rectangle's position after a horizontal flip of the canvas.
func Mirror(r pipeline.Rectangle, canvasWidth int) pipeline.Rectangle {
	r.X = canvasWidth - r.X - r.Width
	return r
}
