// Package midisource decodes Standard MIDI Files into note tracks.
package midisource

import (
	"bytes"
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/user/mirrorbeat/pkg/ports"
)

// ErrInvalidMIDI is returned when the data is not a readable SMF.
var ErrInvalidMIDI = errors.New("invalid MIDI file")

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the scientific pitch name of a MIDI key, e.g. 60 -> "C4".
func NoteName(key uint8) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], int(key)/12-1)
}

// Source implements ports.NoteSource for SMF files.
type Source struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a MIDI note source reading through fs.
func New(fs ports.FileSystem, logger ports.Logger) *Source {
	return &Source{
		fs:     fs,
		logger: logger.WithComponent("midi"),
	}
}

// Load reads the SMF at path and returns its tracks.
func (s *Source) Load(path string) ([]ports.Track, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MIDI file: %w", err)
	}
	tracks, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded %d tracks from %s", len(tracks), path)
	return tracks, nil
}

// Decode parses SMF bytes into tracks in file order.
//
// Note times come from the file's tempo map. A track's notes keep the order
// of their note-on events. In multi-track files a leading track without any
// notes holds only tempo and meta events and is dropped.
func Decode(data []byte) (tracks []ports.Track, err error) {
	// smf.ReadFrom can panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			tracks = nil
			err = fmt.Errorf("%w: %v", ErrInvalidMIDI, r)
		}
	}()

	file, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMIDI, err)
	}

	for _, tr := range file.Tracks {
		tracks = append(tracks, decodeTrack(file, tr))
	}
	if len(tracks) > 1 && len(tracks[0].Notes) == 0 {
		tracks = tracks[1:]
	}
	return tracks, nil
}

func decodeTrack(file *smf.SMF, tr smf.Track) ports.Track {
	track := ports.Track{Notes: []ports.NoteEvent{}}

	var absTicks int64
	var end float64
	var ch, key, vel uint8
	for _, ev := range tr {
		absTicks += int64(ev.Delta)

		var name string
		switch {
		case ev.Message.GetMetaTrackName(&name):
			if track.Name == "" {
				track.Name = name
			}
		case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
			t := seconds(file.TimeAt(absTicks))
			track.Notes = append(track.Notes, ports.NoteEvent{Time: t, Label: NoteName(key)})
			if t > end {
				end = t
			}
		case ev.Message.GetNoteOff(&ch, &key, &vel), ev.Message.GetNoteOn(&ch, &key, &vel):
			// note-on with velocity 0 is a note-off
			if t := seconds(file.TimeAt(absTicks)); t > end {
				end = t
			}
		}
	}

	if len(track.Notes) > 0 {
		track.Duration = end
	}
	return track
}

func seconds(micros int64) float64 {
	return float64(micros) / 1e6
}

// Ensure Source implements ports.NoteSource
var _ ports.NoteSource = (*Source)(nil)
