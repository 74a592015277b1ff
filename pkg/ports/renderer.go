package ports

import (
	"image"
	"image/color"
)

// FrameRenderer draws one output frame of a render session.
//
// The returned image may be a buffer owned by the renderer that is
// overwritten by the next call.
type FrameRenderer interface {
	Render(mirrored bool) (image.Image, error)
}

// ImageCodec decodes source images and encodes frame snapshots.
type ImageCodec interface {
	// DecodeImage decodes image data, detecting the format from its content.
	DecodeImage(data []byte) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}

// Opaque returns c with its alpha channel forced to fully opaque.
func Opaque(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{A: 255}
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return color.RGBA{A: 255}
	}
	// Un-premultiply before dropping the alpha channel.
	return color.RGBA{
		R: uint8((r * 0xffff / a) >> 8),
		G: uint8((g * 0xffff / a) >> 8),
		B: uint8((b * 0xffff / a) >> 8),
		A: 255,
	}
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
