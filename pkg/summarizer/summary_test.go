package summarizer

import (
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSession(t *testing.T) {
	summary := NewBuilder().
		WithSession("abc", "completed").
		Build()

	if summary.SessionID != "abc" || summary.State != "completed" {
		t.Errorf("unexpected session: %s %s", summary.SessionID, summary.State)
	}
}

func TestBuilder_WithStream(t *testing.T) {
	flips := []Flip{
		{Frame: 0, Note: 0, Label: "C4", Mirrored: true},
		{Frame: 30, Note: 2, Label: "E4", Mirrored: false},
	}

	summary := NewBuilder().
		WithStream(60, 90, flips).
		Build()

	if summary.Stream.FramesDelivered != 60 || summary.Stream.TotalFrames != 90 {
		t.Errorf("unexpected frames %d/%d", summary.Stream.FramesDelivered, summary.Stream.TotalFrames)
	}
	if summary.Stream.FlipCount != 2 {
		t.Errorf("expected FlipCount 2, got %d", summary.Stream.FlipCount)
	}
}

func TestBuilder_FullChain(t *testing.T) {
	summary := NewBuilder().
		WithInput(InputInfo{NotesFile: "song.mid", Track: "Piano", NoteCount: 12}).
		WithSettings(Settings{Resolution: "1080p", Codec: "vp9", FrameRate: 30}).
		WithStream(450, 450, nil).
		WithVideo(VideoInfo{Path: "out.webm", FileSize: 2048}).
		Build()

	if summary.Input.Track != "Piano" {
		t.Error("Input.Track not set correctly")
	}
	if summary.Settings.FrameRate != 30 {
		t.Error("Settings.FrameRate not set correctly")
	}
	if summary.Stream.TotalFrames != 450 {
		t.Error("Stream.TotalFrames not set correctly")
	}
	if summary.Video.FileSize != 2048 {
		t.Error("Video.FileSize not set correctly")
	}
}
