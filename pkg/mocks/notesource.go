package mocks

import (
	"fmt"

	"github.com/user/mirrorbeat/pkg/ports"
)

// NoteSource is a mock implementation of ports.NoteSource.
type NoteSource struct {
	Tracks   []ports.Track
	LoadFunc func(path string) ([]ports.Track, error)

	// Recorded calls for verification
	LoadedPaths []string
}

func (m *NoteSource) Load(path string) ([]ports.Track, error) {
	m.LoadedPaths = append(m.LoadedPaths, path)
	if m.LoadFunc != nil {
		return m.LoadFunc(path)
	}
	if m.Tracks == nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return m.Tracks, nil
}

var _ ports.NoteSource = (*NoteSource)(nil)

// EvenTrack returns a track of n notes spaced one second apart, starting at 0.
func EvenTrack(name string, n int) ports.Track {
	notes := make([]ports.NoteEvent, n)
	for i := range notes {
		notes[i] = ports.NoteEvent{Time: float64(i), Label: fmt.Sprintf("N%d", i)}
	}
	return ports.Track{Name: name, Notes: notes, Duration: float64(n)}
}
