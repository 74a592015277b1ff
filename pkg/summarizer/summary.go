// Package summarizer provides summary generation for render results.
package summarizer

import "time"

// Summary contains all data collected during a render session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	SessionID   string
	State       string // completed, cancelled, failed

	// Inputs
	Input InputInfo

	// Render settings
	Settings Settings

	// Stream results
	Stream StreamInfo

	// Video output details
	Video VideoInfo
}

// InputInfo describes the note file and image a session was built from.
type InputInfo struct {
	NotesFile string
	ImageFile string
	Track     string
	NoteCount int
}

// Settings contains the render configuration.
type Settings struct {
	Resolution      string
	Quality         string
	Codec           string
	FrameRate       int
	DurationSeconds float64
	Stride          int
	Bitrate         int // bits per second
}

// StreamInfo contains the frame stream outcome.
type StreamInfo struct {
	FramesDelivered int
	TotalFrames     int
	FlipCount       int
	Flips           []Flip
}

// Flip is one mirror toggle of the stream.
type Flip struct {
	Frame       int
	Note        int
	Label       string
	TimeSeconds float64
	Mirrored    bool
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path         string
	DurationMs   int
	FileSize     int64
	Width        int
	Height       int
	FallbackUsed bool // A later codec of the preference list was used
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSession sets the session id and final state.
func (b *Builder) WithSession(id, state string) *Builder {
	b.summary.SessionID = id
	b.summary.State = state
	return b
}

// WithInput sets input information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithSettings sets render settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithStream sets the frame counts and flips.
func (b *Builder) WithStream(delivered, total int, flips []Flip) *Builder {
	b.summary.Stream = StreamInfo{
		FramesDelivered: delivered,
		TotalFrames:     total,
		FlipCount:       len(flips),
		Flips:           flips,
	}
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
