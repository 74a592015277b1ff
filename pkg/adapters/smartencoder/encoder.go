// Package smartencoder selects the first usable codec from a preference list.
package smartencoder

import (
	"fmt"
	"strings"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

// DefaultPreference is tried in order when no preference is given.
var DefaultPreference = []ports.Codec{ports.CodecVP9, ports.CodecVP8, ports.CodecH264}

// Backend represents the encoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based encoding.
	BackendFFmpeg Backend = "ffmpeg"
)

// Info contains information about the selected encoder.
type Info struct {
	// Codec is the actual codec being used.
	Codec ports.Codec
	// Backend is the encoding backend being used.
	Backend Backend
	// RequestedCodec is the first codec of the preference list.
	RequestedCodec ports.Codec
	// FallbackUsed indicates whether a later codec of the list was chosen.
	FallbackUsed bool
}

// Select walks preference and returns the first codec prober supports.
// It returns pipeline.ErrUnsupportedFormat when none is usable.
func Select(preference []ports.Codec, prober ports.CodecProber, log ports.Logger) (ports.Codec, Info, error) {
	if len(preference) == 0 {
		preference = DefaultPreference
	}
	info := Info{RequestedCodec: preference[0], Backend: BackendFFmpeg}

	for i, codec := range preference {
		if !prober.Supports(codec) {
			if log != nil {
				log.Debug("Codec %s not available", string(codec))
			}
			continue
		}
		info.Codec = codec
		info.FallbackUsed = i > 0
		if info.FallbackUsed && log != nil {
			log.Warn("%s encoder not available, falling back to %s", string(info.RequestedCodec), string(codec))
		}
		return codec, info, nil
	}

	return "", info, fmt.Errorf("%w: tried %s", pipeline.ErrUnsupportedFormat, join(preference))
}

// ParseCodecs parses a comma-separated codec list such as "vp9,vp8,h264".
// "webm" expands to vp9 then vp8 and "mp4" to h264; duplicates are dropped.
func ParseCodecs(s string) ([]ports.Codec, error) {
	var out []ports.Codec
	seen := map[ports.Codec]bool{}
	add := func(c ports.Codec) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "vp9":
			add(ports.CodecVP9)
		case "vp8":
			add(ports.CodecVP8)
		case "webm":
			add(ports.CodecVP9)
			add(ports.CodecVP8)
		case "h264", "avc", "mp4":
			add(ports.CodecH264)
		default:
			return nil, fmt.Errorf("%w: unknown codec %q", pipeline.ErrUnsupportedFormat, part)
		}
	}
	return out, nil
}

func join(codecs []ports.Codec) string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
