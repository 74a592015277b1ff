// Package nullsink discards debug output for runs without --debug.
package nullsink

import (
	"image"

	"github.com/user/mirrorbeat/pkg/ports"
)

// Sink drops timelines, flip dumps and frames. Enabled reports false so the
// stream stage skips building them at all.
type Sink struct{}

func New() *Sink {
	return &Sink{}
}

func (s *Sink) Enabled() bool                    { return false }
func (s *Sink) SaveTimelineJSON([]byte) error    { return nil }
func (s *Sink) SaveFlipsJSON([]byte) error       { return nil }
func (s *Sink) SaveFrame(int, image.Image) error { return nil }

var _ ports.DebugSink = (*Sink)(nil)
