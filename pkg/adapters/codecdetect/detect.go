// Package codecdetect detects the video codec of an encoded artifact, from
// MP4 sample entries or WebM track codec ids.
package codecdetect

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/mirrorbeat/pkg/ports"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecVP9     Codec = "vp9"
	CodecVP8     Codec = "vp8"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// Container is the file format wrapping the video stream.
type Container string

const (
	ContainerMP4     Container = "mp4"
	ContainerWebM    Container = "webm"
	ContainerUnknown Container = "unknown"
)

// Result describes a detected artifact.
type Result struct {
	Container Container
	Codec     Codec
}

// Matches reports whether r is a stream of codec in the container its file
// extension promises.
func (r Result) Matches(codec ports.Codec) bool {
	want := ContainerMP4
	if codec.Extension() == ".webm" {
		want = ContainerWebM
	}
	return r.Container == want && string(r.Codec) == string(codec)
}

// ebmlMagic starts every Matroska/WebM file.
var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// webmProbeSize bounds how much of a WebM file is searched for track headers.
const webmProbeSize = 64 * 1024

// Detect identifies the container and video codec of an encoded file.
func Detect(data []byte) (Result, error) {
	if bytes.HasPrefix(data, ebmlMagic) {
		codec, err := detectWebM(data)
		return Result{Container: ContainerWebM, Codec: codec}, err
	}
	codec, err := detectMP4(data)
	if err != nil {
		return Result{Container: ContainerUnknown, Codec: CodecUnknown}, err
	}
	return Result{Container: ContainerMP4, Codec: codec}, nil
}

// detectWebM checks the EBML DocType and looks for a known CodecID string in
// the header region. Matroska CodecIDs are stored as plain ASCII.
func detectWebM(data []byte) (Codec, error) {
	head := data
	if len(head) > webmProbeSize {
		head = head[:webmProbeSize]
	}
	if !bytes.Contains(head, []byte("webm")) && !bytes.Contains(head, []byte("matroska")) {
		return CodecUnknown, fmt.Errorf("EBML file without webm doctype")
	}
	switch {
	case bytes.Contains(head, []byte("V_VP9")):
		return CodecVP9, nil
	case bytes.Contains(head, []byte("V_VP8")):
		return CodecVP8, nil
	case bytes.Contains(head, []byte("V_AV1")):
		return CodecAV1, nil
	case bytes.Contains(head, []byte("V_MPEG4/ISO/AVC")):
		return CodecH264, nil
	}
	return CodecUnknown, fmt.Errorf("no video track found")
}

// detectMP4 reads the sample entry of the first video track.
func detectMP4(data []byte) (Codec, error) {
	file, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return CodecUnknown, fmt.Errorf("decode mp4: %w", err)
	}

	moov := file.Moov
	if moov == nil && file.Init != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return CodecUnknown, fmt.Errorf("mp4 without moov box")
	}
	for _, trak := range moov.Traks {
		if codec := sampleEntryCodec(trak); codec != CodecUnknown {
			return codec, nil
		}
	}
	return CodecUnknown, fmt.Errorf("no video track found")
}

var sampleEntries = map[string]Codec{
	"avc1": CodecH264,
	"avc3": CodecH264,
	"vp09": CodecVP9,
	"vp08": CodecVP8,
	"av01": CodecAV1,
}

func sampleEntryCodec(trak *mp4.TrakBox) Codec {
	mdia := trak.Mdia
	if mdia == nil || mdia.Hdlr == nil || mdia.Hdlr.HandlerType != "vide" {
		return CodecUnknown
	}
	if mdia.Minf == nil || mdia.Minf.Stbl == nil || mdia.Minf.Stbl.Stsd == nil {
		return CodecUnknown
	}
	for _, entry := range mdia.Minf.Stbl.Stsd.Children {
		if codec, ok := sampleEntries[entry.Type()]; ok {
			return codec
		}
	}
	return CodecUnknown
}
