package stream

import (
	"context"
	"encoding/json"
	"image"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
	"github.com/user/mirrorbeat/pkg/timeline"
)

// Request is the input of the stream stage.
type Request struct {
	Input
	Callbacks Callbacks
}

// Stage runs a fresh Driver per Execute and records debug output.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new stream stage.
func NewStage(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger,
	}
}

// Execute streams all frames of the requested session.
func (s *Stage) Execute(ctx context.Context, req Request) (pipeline.StreamResult, error) {
	s.logger.WithComponent("stream").Debug("Session %s", req.Input.String())

	cb := req.Callbacks
	if s.sink.Enabled() {
		s.saveTimeline(req.Input)

		onFlip := cb.OnFlip
		cb.OnFlip = func(ev pipeline.FlipEvent, img image.Image) {
			if err := s.sink.SaveFrame(ev.FrameIndex, img); err != nil {
				s.logger.Warn("Failed to save debug frame %d: %s", ev.FrameIndex, err.Error())
			}
			if onFlip != nil {
				onFlip(ev, img)
			}
		}
	}

	driver := NewDriver(req.Input, s.logger)
	result, err := driver.Run(ctx, cb)

	if s.sink.Enabled() && result.State.Terminal() {
		s.saveFlips(result)
	}
	return result, err
}

type timelineDump struct {
	Track    string    `json:"track"`
	Duration float64   `json:"duration"`
	Native   []float64 `json:"native"`
	Scaled   []float64 `json:"scaled"`
	Labels   []string  `json:"labels"`
}

func (s *Stage) saveTimeline(in Input) {
	scaled, err := timeline.FromTrack(in.Track, in.Session.OutputDurationSeconds)
	if err != nil {
		return
	}
	labels := make([]string, len(in.Track.Notes))
	for i, n := range in.Track.Notes {
		labels[i] = n.Label
	}
	data, err := json.MarshalIndent(timelineDump{
		Track:    in.Track.Name,
		Duration: in.Session.OutputDurationSeconds,
		Native:   in.Track.Timestamps(),
		Scaled:   scaled,
		Labels:   labels,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := s.sink.SaveTimelineJSON(data); err != nil {
		s.logger.Warn("Failed to save debug timeline: %s", err.Error())
	}
}

type flipsDump struct {
	State       string               `json:"state"`
	TotalFrames int                  `json:"totalFrames"`
	Delivered   int                  `json:"delivered"`
	FlipCount   int                  `json:"flipCount"`
	Flips       []pipeline.FlipEvent `json:"flips"`
}

func (s *Stage) saveFlips(result pipeline.StreamResult) {
	flips := result.Flips
	if flips == nil {
		flips = []pipeline.FlipEvent{}
	}
	data, err := json.MarshalIndent(flipsDump{
		State:       result.State.String(),
		TotalFrames: result.TotalFrames,
		Delivered:   result.FramesDelivered,
		FlipCount:   result.FlipCount,
		Flips:       flips,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := s.sink.SaveFlipsJSON(data); err != nil {
		s.logger.Warn("Failed to save debug flips: %s", err.Error())
	}
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[Request, pipeline.StreamResult] = (*Stage)(nil)
