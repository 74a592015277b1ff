// Package orchestrator wires note loading, rendering, streaming and encoding
// into complete render and preview runs.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/user/mirrorbeat/pkg/adapters/codecdetect"
	"github.com/user/mirrorbeat/pkg/adapters/smartencoder"
	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
	"github.com/user/mirrorbeat/pkg/stages/encode"
	"github.com/user/mirrorbeat/pkg/stages/stream"
)

// ErrTrackNotFound is returned when the requested track index does not exist.
var ErrTrackNotFound = errors.New("track not found")

const (
	// PreviewFrameRate is the fixed frame rate of preview runs.
	PreviewFrameRate = 30
	// PreviewMaxSeconds caps the length of a preview.
	PreviewMaxSeconds = 10.0
)

// Config contains all configuration for a run.
type Config struct {
	// Input
	NotesPath  string
	ImagePath  string
	TrackIndex int

	// Output
	OutputPath      string // Empty means DefaultOutputName in the working directory
	Width           int
	Height          int
	FrameRate       int
	DurationSeconds float64
	BackgroundColor color.Color

	// Flipping
	Stride int // 0 means every second note

	// Encoding
	Codecs  []ports.Codec // Preference order; empty means vp9, vp8, h264
	Bitrate int           // Bits per second

	// Observers
	OnProgress  func(p pipeline.Progress)
	OnFlip      func(ev pipeline.FlipEvent)
	IsCancelled func() bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Width:           1920,
		Height:          1080,
		FrameRate:       30,
		DurationSeconds: 15,
		BackgroundColor: color.Black,
		Codecs:          smartencoder.DefaultPreference,
		Bitrate:         5_000_000,
	}
}

// Renderers decodes source images and prepares per-session frame renderers.
type Renderers interface {
	ports.ImageCodec
	NewFrameRenderer(src image.Image, canvas pipeline.Dimension, background color.Color) (ports.FrameRenderer, error)
}

// Orchestrator coordinates the execution of a render session.
type Orchestrator struct {
	notes       ports.NoteSource
	renderers   Renderers
	streamStage pipeline.Stage[stream.Request, pipeline.StreamResult]
	encoder     ports.VideoEncoder
	prober      ports.CodecProber
	fs          ports.FileSystem
	logger      ports.Logger
	now         func() time.Time
}

// New creates a new Orchestrator.
func New(
	notes ports.NoteSource,
	renderers Renderers,
	streamStage pipeline.Stage[stream.Request, pipeline.StreamResult],
	encoder ports.VideoEncoder,
	prober ports.CodecProber,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		notes:       notes,
		renderers:   renderers,
		streamStage: streamStage,
		encoder:     encoder,
		prober:      prober,
		fs:          fs,
		logger:      logger,
		now:         time.Now,
	}
}

// Run renders, encodes and writes one video.
//
// A cancelled run writes nothing and returns pipeline.ErrCancelled together
// with the partial result. A render or sink failure mid-stream also aborts
// the encoder and discards the frames encoded so far: no partial file is
// written, and the error wraps *pipeline.RenderError or *pipeline.SinkError
// with the delivered frame count in the result.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Starting render")

	track, err := o.loadTrack(config)
	if err != nil {
		return RunResult{}, err
	}
	src, err := o.loadImage(config.ImagePath)
	if err != nil {
		return RunResult{}, err
	}

	codec, info, err := smartencoder.Select(config.Codecs, o.prober, o.logger)
	if err != nil {
		o.logger.Error("No usable video encoder: %s", err.Error())
		return RunResult{}, fmt.Errorf("select encoder: %w", err)
	}

	session := o.newSession(config, config.FrameRate, config.DurationSeconds, src)
	if err := session.Validate(); err != nil {
		return RunResult{}, err
	}
	renderer, err := o.renderers.NewFrameRenderer(src, session.Output, config.BackgroundColor)
	if err != nil {
		return RunResult{}, fmt.Errorf("prepare renderer: %w", err)
	}

	result := newRunResult(session, track)
	result.Codec = codec
	result.FallbackUsed = info.FallbackUsed

	sink := encode.NewSink(o.encoder, o.logger)
	if err := sink.Begin(session, ports.EncoderOptions{Codec: codec, Bitrate: config.Bitrate}); err != nil {
		o.logger.Error("Failed to start encoder: %s", err.Error())
		return result, err
	}

	var encoded pipeline.EncodeResult
	cb := o.callbacks(config)
	cb.OnFrame = sink.WriteFrame
	cb.OnEnd = func() error {
		var err error
		encoded, err = sink.Finish()
		return err
	}

	streamed, err := o.streamStage.Execute(ctx, stream.Request{
		Input: stream.Input{
			Session:  session,
			Track:    track,
			Renderer: renderer,
			Stride:   config.Stride,
		},
		Callbacks: cb,
	})
	result.apply(streamed)
	if err != nil {
		sink.Abort()
		o.logger.Error("Failed to stream frames: %s", err.Error())
		return result, fmt.Errorf("stream stage: %w", err)
	}
	if streamed.State == pipeline.StateCancelled {
		sink.Abort()
		return result, pipeline.ErrCancelled
	}

	o.verify(encoded.VideoData, codec)

	outputPath := config.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputName(codec, o.now())
	}
	if err := o.fs.WriteFile(outputPath, encoded.VideoData); err != nil {
		o.logger.Error("Failed to write output: %s", err.Error())
		return result, fmt.Errorf("write output: %w", err)
	}

	result.OutputPath = outputPath
	result.VideoDurationMs = encoded.DurationMs
	result.VideoFileSize = encoded.FileSize
	o.logger.Info("Render completed: %d flips", result.FlipCount)
	return result, nil
}

// Preview streams a short session at PreviewFrameRate into frames, writing
// every frame through out. No encoder is involved.
func (o *Orchestrator) Preview(ctx context.Context, config Config, out ports.DebugSink) (RunResult, error) {
	track, err := o.loadTrack(config)
	if err != nil {
		return RunResult{}, err
	}
	src, err := o.loadImage(config.ImagePath)
	if err != nil {
		return RunResult{}, err
	}

	session := o.newSession(config, PreviewFrameRate, PreviewDuration(track), src)
	if err := session.Validate(); err != nil {
		return RunResult{}, err
	}
	renderer, err := o.renderers.NewFrameRenderer(src, session.Output, config.BackgroundColor)
	if err != nil {
		return RunResult{}, fmt.Errorf("prepare renderer: %w", err)
	}

	o.logger.Info("Previewing %s: %d notes", track.Name, len(track.Notes))

	cb := o.callbacks(config)
	cb.OnFrame = out.SaveFrame

	streamed, err := o.streamStage.Execute(ctx, stream.Request{
		Input: stream.Input{
			Session:  session,
			Track:    track,
			Renderer: renderer,
			Stride:   config.Stride,
		},
		Callbacks: cb,
	})
	result := newRunResult(session, track)
	result.apply(streamed)
	if err != nil {
		o.logger.Error("Failed to stream frames: %s", err.Error())
		return result, fmt.Errorf("stream stage: %w", err)
	}
	if streamed.State == pipeline.StateCancelled {
		return result, pipeline.ErrCancelled
	}

	o.logger.Info("Preview completed: %d frames, %d flips", result.FrameCount, result.FlipCount)
	return result, nil
}

// ListTracks returns a summary of every track in the note file.
func (o *Orchestrator) ListTracks(path string) ([]TrackInfo, error) {
	tracks, err := o.notes.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	infos := make([]TrackInfo, len(tracks))
	for i, t := range tracks {
		infos[i] = TrackInfo{
			Index:    i,
			Name:     t.DisplayName(i),
			Notes:    len(t.Notes),
			Duration: t.Duration,
		}
	}
	return infos, nil
}

func (o *Orchestrator) loadTrack(config Config) (ports.Track, error) {
	tracks, err := o.notes.Load(config.NotesPath)
	if err != nil {
		o.logger.Error("Failed to load notes: %s", err.Error())
		return ports.Track{}, fmt.Errorf("load notes: %w", err)
	}
	if config.TrackIndex < 0 || config.TrackIndex >= len(tracks) {
		return ports.Track{}, fmt.Errorf("%w: index %d of %d tracks", ErrTrackNotFound, config.TrackIndex, len(tracks))
	}

	track := tracks[config.TrackIndex]
	track.Name = track.DisplayName(config.TrackIndex)
	if len(track.Notes) == 0 {
		return ports.Track{}, fmt.Errorf("%s: %w", track.Name, pipeline.ErrEmptyTimeline)
	}
	o.logger.Info("Selected %s with %d notes", track.Name, len(track.Notes))
	return track, nil
}

func (o *Orchestrator) loadImage(path string) (image.Image, error) {
	data, err := o.fs.ReadFile(path)
	if err != nil {
		o.logger.Error("Failed to read image: %s", err.Error())
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, err := o.renderers.DecodeImage(data)
	if err != nil {
		o.logger.Error("Failed to decode image: %s", err.Error())
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	o.logger.Debug("Source image: %dx%d", b.Dx(), b.Dy())
	return img, nil
}

func (o *Orchestrator) newSession(config Config, fps int, seconds float64, src image.Image) pipeline.RenderSession {
	return pipeline.RenderSession{
		ID:                    uuid.NewString(),
		FrameRate:             fps,
		OutputDurationSeconds: seconds,
		Output:                pipeline.Dimension{Width: config.Width, Height: config.Height},
		SourceImage:           src,
	}
}

// callbacks builds the observer half of the stream callbacks.
func (o *Orchestrator) callbacks(config Config) stream.Callbacks {
	cb := stream.Callbacks{
		OnProgress:  config.OnProgress,
		IsCancelled: config.IsCancelled,
	}
	if config.OnFlip != nil {
		onFlip := config.OnFlip
		cb.OnFlip = func(ev pipeline.FlipEvent, _ image.Image) { onFlip(ev) }
	}
	return cb
}

// verify checks the artifact's container and codec. A mismatch is only logged.
func (o *Orchestrator) verify(data []byte, codec ports.Codec) {
	detected, err := codecdetect.Detect(data)
	if err != nil {
		o.logger.Debug("Could not verify output: %s", err.Error())
		return
	}
	if !detected.Matches(codec) {
		o.logger.Warn("Output codec %s does not match %s", string(detected.Container)+"/"+string(detected.Codec), string(codec))
	}
}

// PreviewDuration returns the preview length for track: its native
// duration capped at PreviewMaxSeconds, or PreviewMaxSeconds when unknown.
func PreviewDuration(track ports.Track) float64 {
	if track.Duration > 0 {
		return math.Min(PreviewMaxSeconds, track.Duration)
	}
	return PreviewMaxSeconds
}

// DefaultOutputName returns "midi-mirror-video-<unix ms><ext>".
func DefaultOutputName(codec ports.Codec, at time.Time) string {
	return fmt.Sprintf("midi-mirror-video-%d%s", at.UnixMilli(), codec.Extension())
}
