package pipeline

import (
	"fmt"
	"image"
	"math"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains parameters for fitting the source image on the canvas.
type LayoutInput struct {
	Source Dimension // Source image size
	Canvas Dimension // Output frame size
}

// LayoutResult is the uniform fit of the source image inside the canvas.
type LayoutResult struct {
	Canvas Dimension
	Image  Rectangle // Scaled, centered image area
	Scale  float64
}

// =============================================================================
// Session Types
// =============================================================================

// RenderSession holds the parameters of one render run. It carries no state
// beyond that run.
type RenderSession struct {
	ID                    string
	FrameRate             int
	OutputDurationSeconds float64
	Output                Dimension
	SourceImage           image.Image
}

// TotalFrames returns round(duration * frameRate).
func (s RenderSession) TotalFrames() int {
	return int(math.Round(s.OutputDurationSeconds * float64(s.FrameRate)))
}

// Validate checks the session parameters.
func (s RenderSession) Validate() error {
	if s.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidSession, s.FrameRate)
	}
	if !(s.OutputDurationSeconds > 0) || math.IsInf(s.OutputDurationSeconds, 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidSession, s.OutputDurationSeconds)
	}
	if s.Output.Width <= 0 || s.Output.Height <= 0 {
		return fmt.Errorf("%w: output size must be positive, got %dx%d", ErrInvalidSession, s.Output.Width, s.Output.Height)
	}
	return nil
}

// ScaledTimeline holds one rescaled timestamp (seconds) per note, in track order.
type ScaledTimeline []float64

// SessionState is the state of a frame stream driver.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress is reported once per delivered frame.
type Progress struct {
	FrameIndex  int
	TotalFrames int
	FlipCount   int
	Mirrored    bool
}

// Percent returns the completed share in [0, 100].
func (p Progress) Percent() float64 {
	if p.TotalFrames <= 0 {
		return 0
	}
	return float64(p.FrameIndex+1) / float64(p.TotalFrames) * 100
}

// FlipEvent records a frame on which the mirror state toggled.
type FlipEvent struct {
	FrameIndex  int     `json:"frame"`
	NoteIndex   int     `json:"note"`
	Label       string  `json:"label"`
	TimeSeconds float64 `json:"time"`
	Mirrored    bool    `json:"mirrored"`
}

// StreamResult is the outcome of a frame stream run. It is returned for every
// terminal state, including failures.
type StreamResult struct {
	State           SessionState
	FramesDelivered int
	TotalFrames     int
	FlipCount       int
	Flips           []FlipEvent
}

// =============================================================================
// Encode Types
// =============================================================================

// EncodeResult contains the encoded video.
type EncodeResult struct {
	VideoData  []byte
	DurationMs int
	FileSize   int64
	FrameCount int
}
