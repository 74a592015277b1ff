package ports

import "fmt"

// NoteEvent is a single note onset on a track's native timeline.
type NoteEvent struct {
	Time  float64 // Seconds from the start of the file
	Label string  // Note name, e.g. "C4"
}

// Track is an ordered sequence of note events decoded from a note source.
// The order of Notes is the source order; it is never re-sorted.
type Track struct {
	Name     string
	Notes    []NoteEvent
	Duration float64 // Native duration in seconds, 0 when unknown
}

// Timestamps returns the native onset times in track order.
func (t Track) Timestamps() []float64 {
	times := make([]float64, len(t.Notes))
	for i, n := range t.Notes {
		times[i] = n.Time
	}
	return times
}

// DisplayName returns the track name, or "Track <n>" (1-based) when unnamed.
func (t Track) DisplayName(index int) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Track %d", index+1)
}

// NoteSource decodes a note-event container into tracks.
type NoteSource interface {
	// Load reads the file at path and returns its tracks in file order.
	Load(path string) ([]Track, error)
}
