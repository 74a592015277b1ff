// Package flip decides, frame by frame, whether the output is mirrored.
package flip

import (
	"errors"
	"fmt"
	"math"

	"github.com/user/mirrorbeat/pkg/pipeline"
)

// DefaultStride toggles the mirror on every second note (indices 0, 2, 4, ...).
const DefaultStride = 2

// ErrFrameOrder is returned when frames are not advanced as 0, 1, 2, ...
var ErrFrameOrder = errors.New("frames must be advanced in order")

// NoNote marks that no note has fired yet.
const NoNote = -1

// State is the mirror state of a session.
type State struct {
	Mirrored      bool
	FlipCount     int
	LastFiredNote int
}

// Scheduler walks a scaled timeline one frame at a time. A note matches a
// frame when it lies within half a frame period of the frame's time; when
// several notes match, the lowest index wins. Only matches whose index is a
// multiple of the stride toggle the mirror.
type Scheduler struct {
	timeline  pipeline.ScaledTimeline
	frameRate float64
	stride    int
	window    float64

	state State
	next  int
	match int
	fired bool
}

// New creates a scheduler with DefaultStride.
func New(timeline pipeline.ScaledTimeline, frameRate int) *Scheduler {
	return NewWithStride(timeline, frameRate, DefaultStride)
}

// NewWithStride creates a scheduler that toggles on every stride-th note.
// A stride below 1 is treated as 1.
func NewWithStride(timeline pipeline.ScaledTimeline, frameRate int, stride int) *Scheduler {
	if stride < 1 {
		stride = 1
	}
	rate := float64(frameRate)
	return &Scheduler{
		timeline:  timeline,
		frameRate: rate,
		stride:    stride,
		window:    0.5 / rate,
		state:     State{LastFiredNote: NoNote},
		match:     NoNote,
	}
}

// Advance moves to frameIndex and returns the mirror flag for that frame.
func (s *Scheduler) Advance(frameIndex int) (bool, error) {
	if frameIndex != s.next {
		return s.state.Mirrored, fmt.Errorf("%w: expected frame %d, got %d", ErrFrameOrder, s.next, frameIndex)
	}
	s.next++
	s.fired = false

	current := float64(frameIndex) / s.frameRate
	s.match = s.find(current)
	if s.match != NoNote && s.match%s.stride == 0 {
		s.state.Mirrored = !s.state.Mirrored
		s.state.FlipCount++
		s.state.LastFiredNote = s.match
		s.fired = true
	}
	return s.state.Mirrored, nil
}

func (s *Scheduler) find(current float64) int {
	for i, t := range s.timeline {
		if math.Abs(t-current) < s.window {
			return i
		}
	}
	return NoNote
}

// State returns a snapshot of the mirror state.
func (s *Scheduler) State() State {
	return s.state
}

// Fired reports whether the most recent Advance toggled the mirror.
func (s *Scheduler) Fired() bool {
	return s.fired
}

// Matched returns the note index matched by the most recent Advance, or NoNote.
func (s *Scheduler) Matched() int {
	return s.match
}
