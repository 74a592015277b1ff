// Package encode binds a video encoder to the frame stream.
package encode

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

// ErrNotStarted is returned when frames arrive before Begin.
var ErrNotStarted = errors.New("encoding sink not started")

// Sink accepts rendered frames in order and hands them to a VideoEncoder.
type Sink struct {
	encoder ports.VideoEncoder
	logger  ports.Logger

	fps     int
	width   int
	height  int
	frames  int
	started bool
	closed  bool
}

// NewSink creates a new encoding sink.
func NewSink(encoder ports.VideoEncoder, logger ports.Logger) *Sink {
	return &Sink{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Begin initializes the encoder for the session's frame size and rate.
func (s *Sink) Begin(session pipeline.RenderSession, opts ports.EncoderOptions) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if s.started {
		return errors.New("encoding sink already started")
	}

	s.fps = session.FrameRate
	s.width = session.Output.Width
	s.height = session.Output.Height

	s.logger.Info("Encoding %s at %d bps", string(opts.Codec), opts.Bitrate)
	if err := s.encoder.Begin(s.width, s.height, float64(s.fps), opts); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	s.started = true
	return nil
}

// WriteFrame encodes frame index. Frames must arrive as 0, 1, 2, ...
// The encoder is done with img when WriteFrame returns.
func (s *Sink) WriteFrame(index int, img image.Image) error {
	if !s.started || s.closed {
		return ErrNotStarted
	}
	if index != s.frames {
		return fmt.Errorf("frame %d out of order, expected %d", index, s.frames)
	}
	if b := img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("frame %d is %dx%d, expected %dx%d", index, b.Dx(), b.Dy(), s.width, s.height)
	}

	if err := s.encoder.EncodeFrame(img, Timestamp(index, s.fps)); err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	s.frames++
	return nil
}

// Finish signals end-of-stream and returns the encoded artifact.
func (s *Sink) Finish() (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{FrameCount: s.frames}
	if !s.started || s.closed {
		return result, ErrNotStarted
	}
	s.closed = true

	data, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("end encoding: %w", err)
	}

	result.VideoData = data
	result.DurationMs = Timestamp(s.frames, s.fps)
	result.FileSize = int64(len(data))

	s.logger.Info("Video encoded: %d bytes", len(data))
	return result, nil
}

// Abort discards the partial output.
func (s *Sink) Abort() {
	if !s.started || s.closed {
		return
	}
	s.closed = true
	s.encoder.Abort()
	s.logger.Debug("Encoding aborted after %d frames", s.frames)
}

// Frames returns the number of frames accepted so far.
func (s *Sink) Frames() int {
	return s.frames
}

// Timestamp returns the presentation time of frame index in milliseconds.
func Timestamp(index, fps int) int {
	return int(math.Round(float64(index) * 1000 / float64(fps)))
}
