// Package stream drives a render session frame by frame: it advances the flip
// scheduler, renders each frame and hands it to the encoding sink.
package stream

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/user/mirrorbeat/pkg/flip"
	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
	"github.com/user/mirrorbeat/pkg/timeline"
)

// ErrSessionReused is returned when Run is called on a driver that already ran.
var ErrSessionReused = errors.New("stream driver already used")

// Input describes one render session.
type Input struct {
	Session  pipeline.RenderSession
	Track    ports.Track
	Renderer ports.FrameRenderer
	Stride   int // Mirror toggles on every Stride-th note; 0 means flip.DefaultStride
}

// Callbacks connects the driver to its consumers. Only OnFrame is required.
//
// OnFrame and OnEnd are the sink: the image passed to OnFrame is reused for
// the next frame, so OnFrame must be done with it before returning. An error
// from either ends the session as failed. OnProgress, OnFlip and IsCancelled
// are observers; a panic inside them is logged and never stops the stream.
type Callbacks struct {
	OnFrame     func(index int, img image.Image) error
	OnEnd       func() error
	OnProgress  func(p pipeline.Progress)
	OnFlip      func(ev pipeline.FlipEvent, img image.Image)
	IsCancelled func() bool
}

// Driver runs a single render session. It is single-use.
type Driver struct {
	input  Input
	logger ports.Logger

	mu    sync.Mutex
	state pipeline.SessionState
	used  bool
}

// NewDriver creates a driver in the idle state.
func NewDriver(input Input, logger ports.Logger) *Driver {
	return &Driver{
		input:  input,
		logger: logger.WithComponent("stream"),
		state:  pipeline.StateIdle,
	}
}

// State returns the current session state.
func (d *Driver) State() pipeline.SessionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(s pipeline.SessionState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run produces every frame of the session in order.
//
// A driver runs at most once: the first call consumes it even when a
// precondition fails (invalid session, empty track, missing renderer or
// sink). Such failures return an error before any frame is produced and
// leave the state idle.
//
// Once running, the returned result is always populated. A cancelled session
// returns a nil error with StateCancelled. Render and sink failures, panics
// included, return *pipeline.RenderError or *pipeline.SinkError with
// StateFailed. Frames already delivered are reported in both cases.
func (d *Driver) Run(ctx context.Context, cb Callbacks) (pipeline.StreamResult, error) {
	d.mu.Lock()
	if d.used {
		state := d.state
		d.mu.Unlock()
		return pipeline.StreamResult{State: state}, ErrSessionReused
	}
	d.used = true
	d.mu.Unlock()

	in := d.input
	result := pipeline.StreamResult{State: pipeline.StateIdle}

	if err := in.Session.Validate(); err != nil {
		return result, err
	}
	if len(in.Track.Notes) == 0 {
		return result, pipeline.ErrEmptyTimeline
	}
	if in.Renderer == nil {
		return result, errors.New("no frame renderer")
	}
	if cb.OnFrame == nil {
		return result, errors.New("no frame callback")
	}

	scaled, err := timeline.FromTrack(in.Track, in.Session.OutputDurationSeconds)
	if err != nil {
		return result, err
	}

	stride := in.Stride
	if stride <= 0 {
		stride = flip.DefaultStride
	}
	scheduler := flip.NewWithStride(scaled, in.Session.FrameRate, stride)

	d.setState(pipeline.StateRunning)

	total := in.Session.TotalFrames()
	result.TotalFrames = total
	result.State = pipeline.StateRunning

	d.logger.Info("Streaming %d frames at %d fps (%d notes)", total, in.Session.FrameRate, len(scaled))

	finish := func(state pipeline.SessionState) pipeline.StreamResult {
		d.setState(state)
		result.State = state
		result.FlipCount = scheduler.State().FlipCount
		return result
	}

	for i := 0; i < total; i++ {
		if d.cancelled(ctx, cb) {
			d.logger.Info("Cancelled after %d of %d frames", result.FramesDelivered, total)
			return finish(pipeline.StateCancelled), nil
		}

		mirrored, err := scheduler.Advance(i)
		if err != nil {
			return finish(pipeline.StateFailed), &pipeline.RenderError{Frame: i, Delivered: result.FramesDelivered, Err: err}
		}

		img, err := render(in.Renderer, mirrored)
		if err != nil {
			d.logger.Error("Failed to render frame %d: %s", i, err.Error())
			return finish(pipeline.StateFailed), &pipeline.RenderError{Frame: i, Delivered: result.FramesDelivered, Err: err}
		}

		if err := deliver(cb.OnFrame, i, img); err != nil {
			d.logger.Error("Sink rejected frame %d: %s", i, err.Error())
			return finish(pipeline.StateFailed), &pipeline.SinkError{Frame: i, Delivered: result.FramesDelivered, Err: err}
		}
		result.FramesDelivered++

		state := scheduler.State()
		if scheduler.Fired() {
			note := state.LastFiredNote
			ev := pipeline.FlipEvent{
				FrameIndex:  i,
				NoteIndex:   note,
				Label:       in.Track.Notes[note].Label,
				TimeSeconds: scaled[note],
				Mirrored:    mirrored,
			}
			result.Flips = append(result.Flips, ev)
			d.logger.Debug("Frame %d: flip on note %d (%s), mirrored=%t", i, note, ev.Label, mirrored)
			if cb.OnFlip != nil {
				d.observe("flip", func() { cb.OnFlip(ev, img) })
			}
		}

		if cb.OnProgress != nil {
			p := pipeline.Progress{
				FrameIndex:  i,
				TotalFrames: total,
				FlipCount:   state.FlipCount,
				Mirrored:    mirrored,
			}
			d.observe("progress", func() { cb.OnProgress(p) })
		}
	}

	if cb.OnEnd != nil {
		if err := cb.OnEnd(); err != nil {
			d.logger.Error("Failed to finalize stream: %s", err.Error())
			return finish(pipeline.StateFailed), &pipeline.SinkError{Frame: -1, Delivered: result.FramesDelivered, Err: err}
		}
	}

	res := finish(pipeline.StateCompleted)
	d.logger.Info("Stream completed: %d frames, %d flips", res.FramesDelivered, res.FlipCount)
	return res, nil
}

// render calls the renderer, turning a panic into an error.
func render(r ports.FrameRenderer, mirrored bool) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("renderer panicked: %v", p)
		}
	}()
	return r.Render(mirrored)
}

// deliver hands a frame to the sink, turning a panic into an error.
func deliver(onFrame func(int, image.Image) error, index int, img image.Image) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panicked: %v", p)
		}
	}()
	return onFrame(index, img)
}

// cancelled polls the context and the cancel callback. A panicking callback
// counts as not cancelled.
func (d *Driver) cancelled(ctx context.Context, cb Callbacks) (stop bool) {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	if cb.IsCancelled == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("Ignored panic in %s callback: %v", "cancel", r)
			stop = false
		}
	}()
	return cb.IsCancelled()
}

func (d *Driver) observe(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("Ignored panic in %s callback: %v", name, r)
		}
	}()
	fn()
}

// String describes the session for log lines.
func (in Input) String() string {
	name := in.Track.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s: %d notes -> %.2fs @ %d fps, %dx%d", name, len(in.Track.Notes),
		in.Session.OutputDurationSeconds, in.Session.FrameRate, in.Session.Output.Width, in.Session.Output.Height)
}
