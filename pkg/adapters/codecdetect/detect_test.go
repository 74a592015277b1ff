package codecdetect

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/aac"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/mirrorbeat/pkg/ports"
)

// webmHeader builds the leading bytes of a WebM file: EBML header with
// DocType "webm" followed by a track entry carrying codecID.
func webmHeader(codecID string) []byte {
	data := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F}
	data = append(data, 0x42, 0x82, 0x84)
	data = append(data, []byte("webm")...)
	data = append(data, 0x18, 0x53, 0x80, 0x67, 0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	data = append(data, 0x86, byte(0x80|len(codecID)))
	data = append(data, []byte(codecID)...)
	return data
}

func TestDetect_WebM(t *testing.T) {
	tests := []struct {
		codecID string
		want    Codec
	}{
		{"V_VP9", CodecVP9},
		{"V_VP8", CodecVP8},
		{"V_AV1", CodecAV1},
	}
	for _, tt := range tests {
		t.Run(tt.codecID, func(t *testing.T) {
			result, err := Detect(webmHeader(tt.codecID))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Container != ContainerWebM {
				t.Errorf("expected webm container, got %s", result.Container)
			}
			if result.Codec != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Codec)
			}
		})
	}
}

func TestDetect_WebMWithoutVideo(t *testing.T) {
	result, err := Detect(webmHeader("A_OPUS"))
	if err == nil {
		t.Error("expected error for audio-only webm")
	}
	if result.Container != ContainerWebM || result.Codec != CodecUnknown {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDetect_EBMLWithoutDocType(t *testing.T) {
	if _, err := Detect([]byte{0x1A, 0x45, 0xDF, 0xA3, 0x80}); err == nil {
		t.Error("expected error for EBML data without a doctype")
	}
}

// mp4Init encodes an init segment with one track per entry. "mp4a" adds an
// audio track; any other value adds a video track with that sample entry.
func mp4Init(t *testing.T, entries ...string) []byte {
	t.Helper()
	seg := mp4.CreateEmptyInit()
	for _, entry := range entries {
		if entry == "mp4a" {
			seg.AddEmptyTrack(48000, "audio", "und")
			if err := seg.Moov.Traks[len(seg.Moov.Traks)-1].SetAACDescriptor(aac.AAClc, 48000); err != nil {
				t.Fatalf("aac descriptor: %v", err)
			}
			continue
		}
		seg.AddEmptyTrack(90000, "video", "und")
		trak := seg.Moov.Traks[len(seg.Moov.Traks)-1]
		trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox(entry, 64, 48, nil))
	}
	var buf bytes.Buffer
	if err := seg.Encode(&buf); err != nil {
		t.Fatalf("encode init: %v", err)
	}
	return buf.Bytes()
}

func TestDetect_MP4(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    Codec
	}{
		{"avc1", []string{"avc1"}, CodecH264},
		{"avc3", []string{"avc3"}, CodecH264},
		{"vp09", []string{"vp09"}, CodecVP9},
		{"av01", []string{"av01"}, CodecAV1},
		{"audio first", []string{"mp4a", "avc1"}, CodecH264},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Detect(mp4Init(t, tt.entries...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != (Result{Container: ContainerMP4, Codec: tt.want}) {
				t.Errorf("expected mp4/%s, got %+v", tt.want, result)
			}
		})
	}
}

func TestDetect_MP4WithoutVideo(t *testing.T) {
	result, err := Detect(mp4Init(t, "mp4a"))
	if err == nil {
		t.Error("expected error for audio-only mp4")
	}
	if result.Codec != CodecUnknown {
		t.Errorf("expected unknown codec, got %s", result.Codec)
	}
}

func TestSampleEntryCodec_IgnoresNonVideoHandler(t *testing.T) {
	trak := mp4.CreateEmptyTrak(1, 48000, "audio", "und")
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("avc1", 64, 48, nil))
	if got := sampleEntryCodec(trak); got != CodecUnknown {
		t.Errorf("expected unknown for a sound handler, got %s", got)
	}

	trak = mp4.CreateEmptyTrak(1, 90000, "video", "und")
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("avc1", 64, 48, nil))
	if got := sampleEntryCodec(trak); got != CodecH264 {
		t.Errorf("expected h264 for a video handler, got %s", got)
	}
}

func TestDetect_Garbage(t *testing.T) {
	result, err := Detect([]byte{0, 0, 0, 16, 'j', 'u', 'n', 'k', 1, 2, 3})
	if err == nil {
		t.Error("expected error for garbage input")
	}
	if result.Codec != CodecUnknown {
		t.Errorf("expected unknown codec, got %s", result.Codec)
	}
}

func TestResult_Matches(t *testing.T) {
	tests := []struct {
		result Result
		codec  ports.Codec
		want   bool
	}{
		{Result{ContainerWebM, CodecVP9}, ports.CodecVP9, true},
		{Result{ContainerWebM, CodecVP8}, ports.CodecVP8, true},
		{Result{ContainerMP4, CodecH264}, ports.CodecH264, true},
		{Result{ContainerWebM, CodecVP8}, ports.CodecVP9, false},
		{Result{ContainerMP4, CodecVP9}, ports.CodecVP9, false},
		{Result{ContainerUnknown, CodecUnknown}, ports.CodecH264, false},
	}
	for _, tt := range tests {
		if got := tt.result.Matches(tt.codec); got != tt.want {
			t.Errorf("%+v.Matches(%s) = %t, want %t", tt.result, tt.codec, got, tt.want)
		}
	}
}
