package summarizer

import (
	"strings"
	"testing"
	"time"

	"github.com/user/mirrorbeat/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		SessionID:   "session-1",
		State:       "completed",
		Input: InputInfo{
			NotesFile: "song.mid",
			ImageFile: "cover.png",
			Track:     "Piano",
			NoteCount: 12,
		},
		Settings: Settings{
			Resolution:      "1080p",
			Quality:         "high",
			Codec:           "vp8",
			FrameRate:       30,
			DurationSeconds: 15,
			Stride:          2,
			Bitrate:         7_500_000,
		},
		Stream: StreamInfo{
			FramesDelivered: 450,
			TotalFrames:     450,
			FlipCount:       2,
			Flips: []Flip{
				{Frame: 0, Note: 0, Label: "C4", TimeSeconds: 0, Mirrored: true},
				{Frame: 75, Note: 2, Label: "E4", TimeSeconds: 2.5, Mirrored: false},
			},
		},
		Video: VideoInfo{
			Path:         "out.webm",
			DurationMs:   15000,
			FileSize:     1024 * 1024,
			Width:        1920,
			Height:       1080,
			FallbackUsed: true,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Render Summary",
		"song.mid",
		"cover.png",
		"Piano (12 notes)",
		"1080p (1920x1080)",
		"vp8 (fallback)",
		"30 fps",
		"15.00 s",
		"7.50 Mbps",
		"450 / 450",
		"out.webm",
		"1.00 MB",
		"15000 ms",
		"| 2 | 75 | 2.500 s | E4 | false |",
		"2024-01-15 10:30:00 UTC",
		"session-1",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_NoVideo(t *testing.T) {
	s := sampleSummary()
	s.State = "cancelled"
	s.Video.Path = ""
	s.Stream.Flips = nil

	result := NewMarkdownFormatter().Format(s)

	if strings.Contains(result, "File Size") {
		t.Error("output should not contain video details without an output file")
	}
	if strings.Contains(result, "## Flips") {
		t.Error("output should not contain a flip table without flips")
	}
	if !strings.Contains(result, "cancelled") {
		t.Error("expected the final state in the output")
	}
}

func TestMarkdownFormatter_ManyFlips(t *testing.T) {
	s := sampleSummary()
	s.Stream.Flips = make([]Flip, maxFlipRows+7)

	result := NewMarkdownFormatter().Format(s)

	if !strings.Contains(result, "... and 7 more") {
		t.Error("expected truncated flip table")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Render Summary": "渲染摘要",
			"Track":          "音轨",
			"fallback":       "回退",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	for _, want := range []string{"渲染摘要", "音轨", "vp8 (回退)"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected translated %q", want)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "mirrorbeat v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBitrate(t *testing.T) {
	if got := formatBitrate(2_000_000); got != "2.00 Mbps" {
		t.Errorf("unexpected %s", got)
	}
	if got := formatBitrate(800_000); got != "800 kbps" {
		t.Errorf("unexpected %s", got)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "summary " + s.SessionID }), fs)

	if err := w.Write("out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, ok := fs.GetFile("out/summary.md")
	if !ok || string(data) != "summary session-1" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestStatusLine(t *testing.T) {
	s := sampleSummary()
	if got := StatusLine.Format(s); got != "out.webm: 450 frames, 2 flips, 1.00 MB" {
		t.Errorf("unexpected status %q", got)
	}

	s.State = "cancelled"
	s.Stream.FramesDelivered = 10
	if got := StatusLine.Format(s); got != "cancelled after 10 of 450 frames, 2 flips" {
		t.Errorf("unexpected status %q", got)
	}

	s.State = "completed"
	s.Video.Path = ""
	if got := StatusLine.Format(s); got != "10 frames, 2 flips" {
		t.Errorf("unexpected status %q", got)
	}
}
