package ports

import (
	"image/color"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"quiet":   LevelQuiet,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}

	for l := LevelDebug; l <= LevelQuiet; l++ {
		if ParseLogLevel(l.String()) != l {
			t.Errorf("%v does not round-trip", l)
		}
	}
	if LogLevel(42).String() != "unknown" {
		t.Errorf("expected unknown for an out-of-range level")
	}
}

func TestCodec_Container(t *testing.T) {
	tests := []struct {
		codec Codec
		ext   string
		mime  string
	}{
		{CodecVP9, ".webm", "video/webm;codecs=vp9"},
		{CodecVP8, ".webm", "video/webm;codecs=vp8"},
		{CodecH264, ".mp4", "video/mp4"},
	}
	for _, tt := range tests {
		if got := tt.codec.Extension(); got != tt.ext {
			t.Errorf("%s.Extension() = %s, want %s", tt.codec, got, tt.ext)
		}
		if got := tt.codec.MimeType(); got != tt.mime {
			t.Errorf("%s.MimeType() = %s, want %s", tt.codec, got, tt.mime)
		}
	}
}

func TestTrack_DisplayName(t *testing.T) {
	if got := (Track{Name: "Piano"}).DisplayName(3); got != "Piano" {
		t.Errorf("expected the track name, got %q", got)
	}
	if got := (Track{}).DisplayName(0); got != "Track 1" {
		t.Errorf("expected a 1-based fallback name, got %q", got)
	}
}

func TestTrack_Timestamps(t *testing.T) {
	tr := Track{Notes: []NoteEvent{{Time: 1.5}, {Time: 0.5}, {Time: 2}}}
	got := tr.Timestamps()
	want := []float64{1.5, 0.5, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected source order %v, got %v", want, got)
		}
	}
}

func TestOpaque(t *testing.T) {
	if got := Opaque(nil); got != (color.RGBA{A: 255}) {
		t.Errorf("expected opaque black for nil, got %v", got)
	}
	if got := Opaque(color.RGBA{R: 10, G: 20, B: 30, A: 255}); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("opaque color changed: %v", got)
	}
	// Half-transparent premultiplied red becomes full red.
	if got := Opaque(color.RGBA{R: 128, A: 128}); got.R != 255 || got.A != 255 {
		t.Errorf("expected un-premultiplied red, got %v", got)
	}
}
