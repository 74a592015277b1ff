package mocks

import (
	"image"

	"github.com/user/mirrorbeat/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image, timestampMs int) error
	EndFunc         func() ([]byte, error)

	// Recorded calls for verification
	BeginCalled      bool
	BeginOptions     ports.EncoderOptions
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
	AbortCalled      bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	TimestampMs int
	// Pixel at (0,0) when the frame was handed over, since the buffer is reused.
	FirstPixel [4]uint8
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	m.BeginCalled = true
	m.BeginOptions = opts
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	call := EncodeFrameCall{TimestampMs: timestampMs}
	if img != nil && !img.Bounds().Empty() {
		r, g, b, a := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
		call.FirstPixel = [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, call)
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, timestampMs)
	}
	return nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	m.EndCalled = true
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	// Return minimal WebM header
	return []byte{0x1A, 0x45, 0xDF, 0xA3}, nil
}

func (m *VideoEncoder) Abort() {
	m.AbortCalled = true
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)

// CodecProber is a mock implementation of ports.CodecProber.
type CodecProber struct {
	Supported map[ports.Codec]bool

	// Recorded queries in order
	Queries []ports.Codec
}

// NewCodecProber creates a prober supporting the given codecs.
func NewCodecProber(codecs ...ports.Codec) *CodecProber {
	p := &CodecProber{Supported: make(map[ports.Codec]bool)}
	for _, c := range codecs {
		p.Supported[c] = true
	}
	return p
}

func (m *CodecProber) Supports(codec ports.Codec) bool {
	m.Queries = append(m.Queries, codec)
	return m.Supported[codec]
}

var _ ports.CodecProber = (*CodecProber)(nil)
