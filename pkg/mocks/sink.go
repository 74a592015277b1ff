package mocks

import (
	"image"
	"sync"

	"github.com/user/mirrorbeat/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	TimelineJSON []byte
	FlipsJSON    []byte
	Frames       map[int]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveTimelineJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimelineJSON = data
	return nil
}

func (m *DebugSink) SaveFlipsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlipsJSON = data
	return nil
}

// SaveFrame keeps a copy, as the caller reuses the frame buffer.
func (m *DebugSink) SaveFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := image.NewRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			cp.Set(x, y, img.At(x, y))
		}
	}
	m.Frames[index] = cp
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                              { return false }
func (m *NullSink) SaveTimelineJSON(data []byte) error         { return nil }
func (m *NullSink) SaveFlipsJSON(data []byte) error            { return nil }
func (m *NullSink) SaveFrame(index int, img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
