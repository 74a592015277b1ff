// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/mirrorbeat/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	codec   ports.ImageCodec
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, codec ports.ImageCodec) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
		codec:   codec,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveTimelineJSON saves the native and scaled note timeline.
func (s *Sink) SaveTimelineJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "timeline.json")
	return s.fs.WriteFile(path, data)
}

// SaveFlipsJSON saves the flip events of the session.
func (s *Sink) SaveFlipsJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "flips.json")
	return s.fs.WriteFile(path, data)
}

// SaveFrame saves a rendered frame as PNG.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.codec.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	path := filepath.Join(dir, FrameName(index))
	return s.fs.WriteFile(path, data)
}

// FrameName returns the file name used for frame index.
func FrameName(index int) string {
	return fmt.Sprintf("frame-%05d.png", index)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
