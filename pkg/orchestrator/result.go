package orchestrator

import (
	"fmt"
	"math"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

// RunResult contains the results of a run for status lines and summaries.
type RunResult struct {
	SessionID string
	State     pipeline.SessionState

	// Track information
	TrackName string
	NoteCount int

	// Session parameters
	Width           int
	Height          int
	FrameRate       int
	DurationSeconds float64

	// Stream outcome
	FrameCount  int // Frames delivered to the sink
	TotalFrames int
	FlipCount   int
	Flips       []pipeline.FlipEvent

	// Video information, empty for previews and failed runs
	Codec           ports.Codec
	FallbackUsed    bool
	OutputPath      string
	VideoDurationMs int
	VideoFileSize   int64
}

func newRunResult(session pipeline.RenderSession, track ports.Track) RunResult {
	return RunResult{
		SessionID:       session.ID,
		State:           pipeline.StateIdle,
		TrackName:       track.Name,
		NoteCount:       len(track.Notes),
		Width:           session.Output.Width,
		Height:          session.Output.Height,
		FrameRate:       session.FrameRate,
		DurationSeconds: session.OutputDurationSeconds,
		TotalFrames:     session.TotalFrames(),
	}
}

func (r *RunResult) apply(s pipeline.StreamResult) {
	r.State = s.State
	r.FrameCount = s.FramesDelivered
	r.FlipCount = s.FlipCount
	r.Flips = s.Flips
	if s.TotalFrames > 0 {
		r.TotalFrames = s.TotalFrames
	}
}

// TrackInfo describes one track of a note file.
type TrackInfo struct {
	Index    int
	Name     string
	Notes    int
	Duration float64 // Seconds, 0 when unknown
}

// String formats the track as "name - N notes - D s".
func (t TrackInfo) String() string {
	duration := "unknown"
	if t.Duration > 0 {
		duration = fmt.Sprintf("%d s", int(math.Round(t.Duration)))
	}
	return fmt.Sprintf("%s - %d notes - %s", t.Name, t.Notes, duration)
}
