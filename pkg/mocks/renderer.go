package mocks

import (
	"image"
	"image/color"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

// FrameRenderer is a mock implementation of ports.FrameRenderer.
// By default it fills a small reused buffer white when mirrored and black otherwise.
type FrameRenderer struct {
	RenderFunc func(mirrored bool) (image.Image, error)

	// Recorded calls for verification
	Calls []bool

	buf *image.RGBA
}

func (m *FrameRenderer) Render(mirrored bool) (image.Image, error) {
	m.Calls = append(m.Calls, mirrored)
	if m.RenderFunc != nil {
		return m.RenderFunc(mirrored)
	}
	if m.buf == nil {
		m.buf = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	c := color.RGBA{A: 255}
	if mirrored {
		c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.buf.SetRGBA(x, y, c)
		}
	}
	return m.buf, nil
}

var _ ports.FrameRenderer = (*FrameRenderer)(nil)

// ImageCodec is a mock implementation of ports.ImageCodec.
type ImageCodec struct {
	DecodeImageFunc func(data []byte) (image.Image, error)
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
}

func (m *ImageCodec) DecodeImage(data []byte) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *ImageCodec) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

var _ ports.ImageCodec = (*ImageCodec)(nil)

// Renderers is a mock image codec that also hands out FrameRenderer mocks.
type Renderers struct {
	ImageCodec
	NewFrameRendererFunc func(src image.Image, canvas pipeline.Dimension, background color.Color) (ports.FrameRenderer, error)

	// Recorded calls for verification
	Canvases    []pipeline.Dimension
	Backgrounds []color.Color
	Created     []*FrameRenderer
}

func (m *Renderers) NewFrameRenderer(src image.Image, canvas pipeline.Dimension, background color.Color) (ports.FrameRenderer, error) {
	m.Canvases = append(m.Canvases, canvas)
	m.Backgrounds = append(m.Backgrounds, background)
	if m.NewFrameRendererFunc != nil {
		return m.NewFrameRendererFunc(src, canvas, background)
	}
	r := &FrameRenderer{}
	m.Created = append(m.Created, r)
	return r, nil
}
