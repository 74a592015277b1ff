package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveTimelineJSON saves the native and scaled note timeline as JSON.
	SaveTimelineJSON(data []byte) error

	// SaveFlipsJSON saves the flip events of a session as JSON.
	SaveFlipsJSON(data []byte) error

	// SaveFrame saves a rendered frame.
	SaveFrame(index int, img image.Image) error
}
