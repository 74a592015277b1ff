package ports

import (
	"image"
)

// Codec identifies a video codec an encoder can produce.
type Codec string

const (
	CodecVP9  Codec = "vp9"
	CodecVP8  Codec = "vp8"
	CodecH264 Codec = "h264"
)

// Extension returns the container file extension used for the codec.
func (c Codec) Extension() string {
	switch c {
	case CodecVP9, CodecVP8:
		return ".webm"
	default:
		return ".mp4"
	}
}

// MimeType returns the MIME type of the container carrying the codec.
func (c Codec) MimeType() string {
	switch c {
	case CodecVP9:
		return "video/webm;codecs=vp9"
	case CodecVP8:
		return "video/webm;codecs=vp8"
	default:
		return "video/mp4"
	}
}

// VideoEncoder abstracts video encoding operations.
//
// Frames are handed over strictly in order. EncodeFrame must be done reading
// img before it returns: the caller reuses the same buffer for the next frame.
type VideoEncoder interface {
	// Begin initializes the encoder with the specified dimensions and frame rate.
	Begin(width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame encodes a single frame at the specified timestamp.
	EncodeFrame(img image.Image, timestampMs int) error

	// End signals end-of-stream, finalizes encoding and returns the video data.
	End() ([]byte, error)

	// Abort releases encoder resources without producing output.
	Abort()
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Codec   Codec // Requested codec
	Bitrate int   // Target bitrate in bits per second (0 = encoder default)
}

// CodecProber reports whether a codec can be encoded on this system.
type CodecProber interface {
	Supports(codec Codec) bool
}
