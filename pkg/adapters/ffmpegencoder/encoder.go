// Package ffmpegencoder encodes raw frames to WebM (VP9/VP8) or MP4 (H.264)
// by piping them into an external ffmpeg process.
package ffmpegencoder

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/user/mirrorbeat/pkg/ports"
)

// encoderNames lists ffmpeg encoders per codec, in order of preference.
var encoderNames = map[ports.Codec][]string{
	ports.CodecVP9:  {"libvpx-vp9"},
	ports.CodecVP8:  {"libvpx"},
	ports.CodecH264: {"libx264", "libopenh264", "h264_videotoolbox", "h264_mf"},
}

// Encoder implements ports.VideoEncoder and ports.CodecProber using ffmpeg.
type Encoder struct {
	customPath string
	logger     ports.Logger

	probeOnce sync.Once
	available map[string]bool

	mu         sync.Mutex
	width      int
	height     int
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     lockedBuffer
	tempPath   string
	buf        *image.RGBA
	frameCount int
	closed     bool
}

// lockedBuffer collects ffmpeg's stderr. exec copies into it from its own
// goroutine, so reads while the process runs must hold mu.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	b.buf.Reset()
	b.mu.Unlock()
}

// New creates an encoder. ffmpegPath may be empty to search the system.
func New(ffmpegPath string, logger ports.Logger) *Encoder {
	return &Encoder{
		customPath: ffmpegPath,
		logger:     logger.WithComponent("ffmpeg"),
	}
}

// Supports reports whether the local ffmpeg build can encode codec.
// The encoder list is queried once per Encoder.
func (e *Encoder) Supports(codec ports.Codec) bool {
	return e.encoderFor(codec) != ""
}

func (e *Encoder) encoderFor(codec ports.Codec) string {
	e.probeOnce.Do(func() {
		e.available = map[string]bool{}
		path, err := FindFFmpeg(e.customPath)
		if err != nil {
			e.logger.Debug("ffmpeg not found: %s", err.Error())
			return
		}
		out, err := exec.Command(path, "-hide_banner", "-encoders").Output()
		if err != nil {
			e.logger.Warn("Failed to list ffmpeg encoders: %s", err.Error())
			return
		}
		e.available = parseEncoders(out)
	})
	for _, name := range encoderNames[codec] {
		if e.available[name] {
			return name
		}
	}
	return ""
}

// parseEncoders extracts video encoder names from `ffmpeg -encoders` output.
// Entries follow a dashed separator line and start with a flags column
// whose first letter is V for video.
func parseEncoders(out []byte) map[string]bool {
	names := map[string]bool{}
	inList := false
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inList {
			inList = strings.HasPrefix(line, "---")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		names[fields[1]] = true
	}
	return names
}

// buildArgs returns the ffmpeg command line for a raw RGBA stdin stream.
func buildArgs(encoder string, width, height int, fps float64, opts ports.EncoderOptions, output string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "pipe:0",
		"-an",
		"-c:v", encoder,
		"-pix_fmt", "yuv420p",
	}

	switch encoder {
	case "libvpx-vp9":
		args = append(args, "-deadline", "good", "-cpu-used", "4", "-row-mt", "1")
	case "libvpx":
		args = append(args, "-deadline", "good", "-cpu-used", "4", "-auto-alt-ref", "0")
	case "libx264":
		args = append(args, "-preset", "fast")
	}

	if opts.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(opts.Bitrate))
	}

	switch opts.Codec {
	case ports.CodecVP9, ports.CodecVP8:
		args = append(args, "-f", "webm")
	default:
		args = append(args, "-movflags", "+faststart", "-f", "mp4")
	}

	return append(args, output)
}

// Begin starts ffmpeg for the requested codec.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	name := e.encoderFor(opts.Codec)
	if name == "" {
		return fmt.Errorf("%w: %s", ErrCodecUnavailable, opts.Codec)
	}
	ffmpegPath, err := FindFFmpeg(e.customPath)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.width = width
	e.height = height
	e.frameCount = 0
	e.closed = false
	e.stderr.Reset()

	// MP4 with faststart needs a seekable output, so ffmpeg writes to a file.
	tmpFile, err := os.CreateTemp("", "mirrorbeat_*"+opts.Codec.Extension())
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	e.tempPath = tmpFile.Name()
	tmpFile.Close()

	args := buildArgs(name, width, height, fps, opts, e.tempPath)
	e.logger.Debug("Starting %s with %s", ffmpegPath, strings.Join(args, " "))

	e.cmd = exec.Command(ffmpegPath, args...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		e.removeTemp()
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		e.removeTemp()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return nil
}

// EncodeFrame writes one frame to ffmpeg. The write is synchronous, so img
// is no longer referenced when EncodeFrame returns.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return ErrNotInitialized
	}

	pix := e.rawPixels(img)
	if _, err := e.stdin.Write(pix); err != nil {
		return fmt.Errorf("failed to write frame: %w: %s", err, strings.TrimSpace(e.stderr.String()))
	}

	e.frameCount++
	return nil
}

// rawPixels returns tightly packed RGBA bytes for img, converting into a
// reused buffer when img is not already in that layout.
func (e *Encoder) rawPixels(img image.Image) []byte {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) &&
		bounds.Dx() == e.width && bounds.Dy() == e.height && rgba.Stride == 4*e.width {
		return rgba.Pix[:4*e.width*e.height]
	}
	if e.buf == nil {
		e.buf = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	}
	draw.Draw(e.buf, e.buf.Bounds(), img, bounds.Min, draw.Src)
	return e.buf.Pix
}

// End closes the stream, waits for ffmpeg and returns the container bytes.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return nil, ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	e.closed = true
	defer e.removeTemp()

	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	data, err := os.ReadFile(e.tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}
	e.logger.Debug("Encoded %d frames to %d bytes", e.frameCount, len(data))
	return data, nil
}

// Abort kills ffmpeg and discards partial output.
func (e *Encoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	if e.stdin != nil {
		e.stdin.Close()
		e.stdin = nil
	}
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
		e.cmd.Wait()
	}
	e.removeTemp()
}

func (e *Encoder) removeTemp() {
	if e.tempPath != "" {
		os.Remove(e.tempPath)
		e.tempPath = ""
	}
}

// Ensure Encoder implements the encoder ports
var (
	_ ports.VideoEncoder = (*Encoder)(nil)
	_ ports.CodecProber  = (*Encoder)(nil)
)
