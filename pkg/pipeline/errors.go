package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTimeline is returned when the selected track has no notes.
	ErrEmptyTimeline = errors.New("empty timeline: track has no notes")

	// ErrUnsupportedFormat is returned when no requested codec can be encoded.
	ErrUnsupportedFormat = errors.New("unsupported format: no usable video codec")

	// ErrInvalidSession is returned for non-positive rates, durations or sizes.
	ErrInvalidSession = errors.New("invalid render session")

	// ErrCancelled is returned by callers that surface a cancelled session as an error.
	ErrCancelled = errors.New("render cancelled")
)

// RenderError reports a frame that failed to rasterize.
type RenderError struct {
	Frame     int // Index of the frame that failed
	Delivered int // Frames handed to the sink before the failure
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame %d (%d frames delivered): %v", e.Frame, e.Delivered, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SinkError reports a frame the encoding sink rejected, or a failed finalize.
type SinkError struct {
	Frame     int // Index of the rejected frame, or -1 for end-of-stream
	Delivered int
	Err       error
}

func (e *SinkError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("finalize stream (%d frames delivered): %v", e.Delivered, e.Err)
	}
	return fmt.Sprintf("sink rejected frame %d (%d frames delivered): %v", e.Frame, e.Delivered, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// FramesDelivered extracts the delivered frame count from a mid-run failure.
func FramesDelivered(err error) (int, bool) {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Delivered, true
	}
	var se *SinkError
	if errors.As(err, &se) {
		return se.Delivered, true
	}
	return 0, false
}
