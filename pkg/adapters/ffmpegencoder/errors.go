package ffmpegencoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegencoder: ffmpeg not found")

	// ErrCodecUnavailable is returned when ffmpeg has no encoder for the codec.
	ErrCodecUnavailable = errors.New("ffmpegencoder: codec not available")
)
