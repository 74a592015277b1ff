package ffmpegencoder

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/user/mirrorbeat/pkg/adapters/codecdetect"
	"github.com/user/mirrorbeat/pkg/adapters/logger"
	"github.com/user/mirrorbeat/pkg/ports"
)

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D libvpx               libvpx VP8 (codec vp8)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D libopus              libopus Opus (codec opus)
 S..... srt                  SubRip subtitle
`

func TestParseEncoders(t *testing.T) {
	got := parseEncoders([]byte(encodersOutput))

	for _, name := range []string{"libx264", "libvpx", "libvpx-vp9"} {
		if !got[name] {
			t.Errorf("expected %s to be listed", name)
		}
	}
	for _, name := range []string{"libopus", "srt", "V.....", "="} {
		if got[name] {
			t.Errorf("%s must not be listed as a video encoder", name)
		}
	}
}

func TestParseEncoders_NoSeparator(t *testing.T) {
	if got := parseEncoders([]byte(" V....D libx264 libx264\n")); len(got) != 0 {
		t.Errorf("expected nothing before the separator, got %v", got)
	}
}

func TestSupports_FromProbe(t *testing.T) {
	e := New("", logger.NewNoop())
	e.probeOnce.Do(func() {})
	e.available = map[string]bool{"libvpx": true, "h264_videotoolbox": true}

	if e.Supports(ports.CodecVP9) {
		t.Error("vp9 must be unsupported without libvpx-vp9")
	}
	if !e.Supports(ports.CodecVP8) {
		t.Error("vp8 should be supported via libvpx")
	}
	if got := e.encoderFor(ports.CodecH264); got != "h264_videotoolbox" {
		t.Errorf("expected h264_videotoolbox fallback, got %q", got)
	}
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildArgs_VP9(t *testing.T) {
	args := buildArgs("libvpx-vp9", 1920, 1080, 30, ports.EncoderOptions{Codec: ports.CodecVP9, Bitrate: 5_000_000}, "/tmp/out.webm")

	checks := map[string]string{
		"-s":   "1920x1080",
		"-r":   "30",
		"-c:v": "libvpx-vp9",
		"-b:v": "5000000",
		"-f":   "rawvideo",
	}
	for flag, want := range checks {
		if got := argValue(args, flag); got != want {
			t.Errorf("%s: expected %q, got %q", flag, want, got)
		}
	}
	if args[len(args)-1] != "/tmp/out.webm" || args[len(args)-2] != "webm" {
		t.Errorf("expected webm output last, got %v", args[len(args)-3:])
	}
	if strings.Contains(strings.Join(args, " "), "faststart") {
		t.Error("webm output must not use faststart")
	}
}

func TestBuildArgs_H264(t *testing.T) {
	args := buildArgs("libx264", 1280, 720, 23.976, ports.EncoderOptions{Codec: ports.CodecH264, Bitrate: 2_000_000}, "out.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{"-c:v libx264", "-preset fast", "-pix_fmt yuv420p", "-b:v 2000000", "-movflags +faststart", "-r 23.976"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("expected output path last, got %q", args[len(args)-1])
	}
}

func TestBuildArgs_NoBitrate(t *testing.T) {
	args := buildArgs("libvpx", 64, 64, 30, ports.EncoderOptions{Codec: ports.CodecVP8}, "out.webm")
	if argValue(args, "-b:v") != "" {
		t.Error("bitrate must be omitted when zero")
	}
}

func TestFindFFmpeg_CustomMissing(t *testing.T) {
	_, err := FindFFmpeg("/nonexistent/ffmpeg")
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestEncoder_NotInitialized(t *testing.T) {
	e := New("", logger.NewNoop())
	if err := e.EncodeFrame(image.NewRGBA(image.Rect(0, 0, 2, 2)), 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := e.End(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	e.Abort()
}

func TestEncoder_UnavailableCodec(t *testing.T) {
	e := New("", logger.NewNoop())
	e.probeOnce.Do(func() {})
	e.available = map[string]bool{}
	err := e.Begin(64, 64, 30, ports.EncoderOptions{Codec: ports.CodecVP9})
	if !errors.Is(err, ErrCodecUnavailable) {
		t.Errorf("expected ErrCodecUnavailable, got %v", err)
	}
}

func TestLockedBuffer_ConcurrentAccess(t *testing.T) {
	var b lockedBuffer
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Write([]byte("x"))
			}
		}()
	}
	for i := 0; i < 100; i++ {
		_ = b.String()
	}
	wg.Wait()

	if got := len(b.String()); got != 400 {
		t.Errorf("expected 400 bytes, got %d", got)
	}
	b.Reset()
	if b.String() != "" {
		t.Error("expected empty buffer after Reset")
	}
}

func TestRawPixels(t *testing.T) {
	e := &Encoder{width: 4, height: 2}

	direct := image.NewRGBA(image.Rect(0, 0, 4, 2))
	if got := e.rawPixels(direct); &got[0] != &direct.Pix[0] {
		t.Error("expected packed RGBA frames to be written without copying")
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	nrgba.Set(1, 0, color.NRGBA{R: 200, A: 255})
	got := e.rawPixels(nrgba)
	if len(got) != 4*4*2 || got[4] != 200 || got[7] != 255 {
		t.Errorf("unexpected converted pixels: %v", got[:8])
	}
}

func createTestImage(width, height, frameNum int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*255/width + frameNum*10) % 256),
				G: uint8((y*255/height + frameNum*5) % 256),
				B: uint8((x + y + frameNum*3) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestEncoder_RoundTrip(t *testing.T) {
	if !IsAvailable("") {
		t.Skip("ffmpeg not available")
	}

	tests := []struct {
		codec     ports.Codec
		container codecdetect.Container
		want      codecdetect.Codec
	}{
		{ports.CodecVP9, codecdetect.ContainerWebM, codecdetect.CodecVP9},
		{ports.CodecVP8, codecdetect.ContainerWebM, codecdetect.CodecVP8},
		{ports.CodecH264, codecdetect.ContainerMP4, codecdetect.CodecH264},
	}

	for _, tt := range tests {
		t.Run(string(tt.codec), func(t *testing.T) {
			enc := New("", logger.NewNoop())
			if !enc.Supports(tt.codec) {
				t.Skipf("ffmpeg cannot encode %s", tt.codec)
			}
			if err := enc.Begin(64, 48, 10, ports.EncoderOptions{Codec: tt.codec, Bitrate: 200_000}); err != nil {
				t.Fatalf("Begin failed: %v", err)
			}
			for i := 0; i < 10; i++ {
				if err := enc.EncodeFrame(createTestImage(64, 48, i), i*100); err != nil {
					t.Fatalf("EncodeFrame(%d) failed: %v", i, err)
				}
			}
			data, err := enc.End()
			if err != nil {
				t.Fatalf("End failed: %v", err)
			}

			result, err := codecdetect.Detect(data)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if result.Container != tt.container || result.Codec != tt.want {
				t.Errorf("expected %s/%s, got %s/%s", tt.container, tt.want, result.Container, result.Codec)
			}
		})
	}
}

func TestEncoder_Abort(t *testing.T) {
	if !IsAvailable("") {
		t.Skip("ffmpeg not available")
	}
	enc := New("", logger.NewNoop())
	if !enc.Supports(ports.CodecVP8) {
		t.Skip("ffmpeg cannot encode vp8")
	}
	if err := enc.Begin(32, 32, 10, ports.EncoderOptions{Codec: ports.CodecVP8}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestImage(32, 32, 0), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	enc.Abort()
	if _, err := enc.End(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("End after Abort: expected ErrNotInitialized, got %v", err)
	}
}
