package smartencoder

import (
	"errors"
	"testing"

	"github.com/user/mirrorbeat/pkg/adapters/ffmpegencoder"
	"github.com/user/mirrorbeat/pkg/adapters/logger"
	"github.com/user/mirrorbeat/pkg/mocks"
	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

func TestSelect_FirstSupported(t *testing.T) {
	prober := mocks.NewCodecProber(ports.CodecVP9, ports.CodecH264)
	codec, info, err := Select(nil, prober, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if codec != ports.CodecVP9 || info.Codec != ports.CodecVP9 {
		t.Errorf("expected vp9, got %s", codec)
	}
	if info.FallbackUsed {
		t.Error("fallback should not be used when the first codec works")
	}
	if len(prober.Queries) != 1 {
		t.Errorf("expected a single query, got %v", prober.Queries)
	}
}

func TestSelect_Fallback(t *testing.T) {
	prober := mocks.NewCodecProber(ports.CodecH264)
	log := mocks.NewLogger()

	codec, info, err := Select(DefaultPreference, prober, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if codec != ports.CodecH264 {
		t.Errorf("expected h264, got %s", codec)
	}
	if !info.FallbackUsed || info.RequestedCodec != ports.CodecVP9 {
		t.Errorf("unexpected info: %+v", info)
	}
	want := []ports.Codec{ports.CodecVP9, ports.CodecVP8, ports.CodecH264}
	for i, c := range want {
		if prober.Queries[i] != c {
			t.Errorf("query %d: expected %s, got %s", i, c, prober.Queries[i])
		}
	}
	if log.Count(ports.LevelWarn) != 1 {
		t.Errorf("expected one fallback warning, got %d", log.Count(ports.LevelWarn))
	}
}

func TestSelect_NoneSupported(t *testing.T) {
	_, _, err := Select([]ports.Codec{ports.CodecVP8}, mocks.NewCodecProber(), nil)
	if !errors.Is(err, pipeline.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseCodecs(t *testing.T) {
	tests := []struct {
		in   string
		want []ports.Codec
	}{
		{"vp9,vp8,h264", []ports.Codec{ports.CodecVP9, ports.CodecVP8, ports.CodecH264}},
		{"vp9, vp8, webm, mp4", []ports.Codec{ports.CodecVP9, ports.CodecVP8, ports.CodecH264}},
		{"MP4", []ports.Codec{ports.CodecH264}},
		{"h264,vp9", []ports.Codec{ports.CodecH264, ports.CodecVP9}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := ParseCodecs(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
				break
			}
		}
	}

	if _, err := ParseCodecs("vp9,theora"); !errors.Is(err, pipeline.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for unknown codec, got %v", err)
	}
}

func TestSelect_MissingFFmpeg(t *testing.T) {
	enc := ffmpegencoder.New("/nonexistent/ffmpeg", logger.NewNoop())
	_, _, err := Select(nil, enc, nil)
	if !errors.Is(err, pipeline.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat without ffmpeg, got %v", err)
	}
}
