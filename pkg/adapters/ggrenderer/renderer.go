// Package ggrenderer provides a frame renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	// Source image formats beyond the standard library.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
	"github.com/user/mirrorbeat/pkg/stages/layout"
)

// ErrNoImage is returned when a session is created without a usable source image.
var ErrNoImage = errors.New("no source image")

// Renderer implements ports.ImageCodec and creates per-session frame renderers.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// DecodeImage decodes image data, detecting JPEG, PNG, GIF, WebP, BMP or TIFF.
func (r *Renderer) DecodeImage(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s image: %w", format, ErrNoImage)
	}
	return img, nil
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// NewSession prepares a frame renderer for one render session. The source is
// resampled once to its fitted size; every frame reuses the same canvas.
func (r *Renderer) NewSession(src image.Image, canvas pipeline.Dimension, background color.Color) (*FrameRenderer, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoImage
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas size %dx%d", pipeline.ErrInvalidSession, canvas.Width, canvas.Height)
	}

	b := src.Bounds()
	fit := layout.ComputeLayout(pipeline.LayoutInput{
		Source: pipeline.Dimension{Width: b.Dx(), Height: b.Dy()},
		Canvas: canvas,
	})

	return &FrameRenderer{
		dc:     gg.NewContext(canvas.Width, canvas.Height),
		scaled: r.ResizeImage(src, fit.Image.Width, fit.Image.Height),
		layout: fit,
		bg:     ports.Opaque(background),
	}, nil
}

// NewFrameRenderer is NewSession returning the ports.FrameRenderer interface.
func (r *Renderer) NewFrameRenderer(src image.Image, canvas pipeline.Dimension, background color.Color) (ports.FrameRenderer, error) {
	f, err := r.NewSession(src, canvas, background)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Ensure Renderer implements ports.ImageCodec
var _ ports.ImageCodec = (*Renderer)(nil)

// FrameRenderer implements ports.FrameRenderer using a gg.Context.
// It is not safe for concurrent use.
type FrameRenderer struct {
	dc     *gg.Context
	scaled *image.RGBA
	layout pipeline.LayoutResult
	bg     color.RGBA
}

// Render draws the letterboxed image, flipped horizontally when mirrored.
// The returned image is the renderer's canvas and is overwritten by the next call.
func (f *FrameRenderer) Render(mirrored bool) (image.Image, error) {
	if f.scaled == nil {
		return nil, ErrNoImage
	}

	dc := f.dc
	dc.SetColor(f.bg)
	dc.Clear()

	rect := f.layout.Image
	if mirrored {
		dc.Push()
		dc.Translate(float64(f.layout.Canvas.Width), 0)
		dc.Scale(-1, 1)
		mirroredRect := layout.Mirror(rect, f.layout.Canvas.Width)
		dc.DrawImage(f.scaled, mirroredRect.X, mirroredRect.Y)
		dc.Pop()
	} else {
		dc.DrawImage(f.scaled, rect.X, rect.Y)
	}

	return dc.Image(), nil
}

// Layout returns the fitted geometry of the session.
func (f *FrameRenderer) Layout() pipeline.LayoutResult {
	return f.layout
}

// Ensure FrameRenderer implements ports.FrameRenderer
var _ ports.FrameRenderer = (*FrameRenderer)(nil)
