// Package mirrorbeat provides a high-level API for rendering beat-mirrored videos.
package mirrorbeat

import (
	"image/color"
	"math"

	"github.com/user/mirrorbeat/pkg/adapters/smartencoder"
	"github.com/user/mirrorbeat/pkg/orchestrator"
	"github.com/user/mirrorbeat/pkg/ports"
)

// Resolution names an output size preset.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution2K    Resolution = "2k"
	Resolution4K    Resolution = "4k"
)

// QualityPreset scales the base bitrate of a resolution.
type QualityPreset string

const (
	QualityBalanced QualityPreset = "balanced"
	QualityHigh     QualityPreset = "high"
	QualityUltra    QualityPreset = "ultra"
)

type resolutionPreset struct {
	width, height int
	bitrate       int
}

var resolutions = map[Resolution]resolutionPreset{
	Resolution720p:  {1280, 720, 2_000_000},
	Resolution1080p: {1920, 1080, 5_000_000},
	Resolution2K:    {2560, 1440, 10_000_000},
	Resolution4K:    {3840, 2160, 20_000_000},
}

// Resolutions lists the presets from smallest to largest.
var Resolutions = []Resolution{Resolution720p, Resolution1080p, Resolution2K, Resolution4K}

// Size returns the pixel size of r; unknown names fall back to 1080p.
func (r Resolution) Size() (width, height int) {
	p, ok := resolutions[r]
	if !ok {
		p = resolutions[Resolution1080p]
	}
	return p.width, p.height
}

// BaseBitrate returns the bitrate of r at balanced quality.
// Unknown names use 5 Mbps.
func (r Resolution) BaseBitrate() int {
	if p, ok := resolutions[r]; ok {
		return p.bitrate
	}
	return 5_000_000
}

// Multiplier returns the bitrate factor of q; unknown presets use 1.
func (q QualityPreset) Multiplier() float64 {
	switch q {
	case QualityHigh:
		return 1.5
	case QualityUltra:
		return 2.0
	default:
		return 1.0
	}
}

// Bitrate returns round(base(res) * multiplier(quality)) in bits per second.
func Bitrate(res Resolution, quality QualityPreset) int {
	return int(math.Round(float64(res.BaseBitrate()) * quality.Multiplier()))
}

// ResolutionFor returns the smallest preset covering width x height pixels.
func ResolutionFor(width, height int) Resolution {
	pixels := width * height
	for _, r := range Resolutions {
		w, h := r.Size()
		if pixels <= w*h {
			return r
		}
	}
	return Resolution4K
}

// Config represents the configuration for a render.
type Config struct {
	// Video size
	Width      int
	Height     int
	Resolution Resolution // Preset the size came from, used for the bitrate

	// Timing
	FrameRate       int     // Frames per second (1-120)
	DurationSeconds float64 // Output duration the notes are stretched to

	// Style
	BackgroundColor color.Color

	// Flipping
	TrackIndex int // Zero-based track of the note file
	Stride     int // Mirror toggles on every Stride-th note

	// Encoding
	Quality QualityPreset
	Codecs  []ports.Codec // Preference order
	Bitrate int           // Bits per second; 0 derives it from Resolution and Quality
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with 1080p balanced defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: defaults()}
}

func defaults() Config {
	w, h := Resolution1080p.Size()
	return Config{
		Width:           w,
		Height:          h,
		Resolution:      Resolution1080p,
		FrameRate:       30,
		DurationSeconds: 15,
		BackgroundColor: color.RGBA{A: 255},
		TrackIndex:      0,
		Stride:          2,
		Quality:         QualityBalanced,
		Codecs:          append([]ports.Codec(nil), smartencoder.DefaultPreference...),
	}
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config
	cfg.Codecs = append([]ports.Codec(nil), cfg.Codecs...)

	// yuv420p needs even dimensions
	cfg.Width = evenAtLeast2(cfg.Width)
	cfg.Height = evenAtLeast2(cfg.Height)

	if cfg.FrameRate < 1 {
		cfg.FrameRate = 1
	}
	if cfg.FrameRate > 120 {
		cfg.FrameRate = 120
	}
	if !(cfg.DurationSeconds > 0) || math.IsInf(cfg.DurationSeconds, 0) {
		cfg.DurationSeconds = 15
	}
	if cfg.TrackIndex < 0 {
		cfg.TrackIndex = 0
	}
	if cfg.Stride < 1 {
		cfg.Stride = 1
	}
	if cfg.BackgroundColor == nil {
		cfg.BackgroundColor = color.RGBA{A: 255}
	}
	if len(cfg.Codecs) == 0 {
		cfg.Codecs = append(cfg.Codecs, smartencoder.DefaultPreference...)
	}
	if cfg.Bitrate <= 0 {
		cfg.Bitrate = Bitrate(cfg.Resolution, cfg.Quality)
	}

	return cfg
}

func evenAtLeast2(v int) int {
	if v < 2 {
		return 2
	}
	return v + v%2
}

// WithResolution sets the output size from a preset.
func (b *ConfigBuilder) WithResolution(r Resolution) *ConfigBuilder {
	if _, ok := resolutions[r]; !ok {
		r = Resolution1080p
	}
	b.config.Resolution = r
	b.config.Width, b.config.Height = r.Size()
	return b
}

// WithSize sets a custom output size. Odd values are rounded up to even.
func (b *ConfigBuilder) WithSize(width, height int) *ConfigBuilder {
	b.config.Width = width
	b.config.Height = height
	b.config.Resolution = ResolutionFor(width, height)
	return b
}

// WithFrameRate sets the frames per second.
// Values are clamped to 1-120.
func (b *ConfigBuilder) WithFrameRate(fps int) *ConfigBuilder {
	b.config.FrameRate = fps
	return b
}

// WithDuration sets the output duration in seconds.
func (b *ConfigBuilder) WithDuration(seconds float64) *ConfigBuilder {
	b.config.DurationSeconds = seconds
	return b
}

// WithBackgroundColor sets the canvas background color.
func (b *ConfigBuilder) WithBackgroundColor(c color.Color) *ConfigBuilder {
	b.config.BackgroundColor = c
	return b
}

// WithTrack selects the zero-based track that drives the flips.
func (b *ConfigBuilder) WithTrack(index int) *ConfigBuilder {
	b.config.TrackIndex = index
	return b
}

// WithStride sets how many notes make one mirror toggle.
func (b *ConfigBuilder) WithStride(stride int) *ConfigBuilder {
	b.config.Stride = stride
	return b
}

// WithQualityPreset applies a quality preset (balanced, high, ultra).
func (b *ConfigBuilder) WithQualityPreset(q QualityPreset) *ConfigBuilder {
	b.config.Quality = q
	return b
}

// WithCodecs sets the codec preference order.
func (b *ConfigBuilder) WithCodecs(codecs ...ports.Codec) *ConfigBuilder {
	b.config.Codecs = codecs
	return b
}

// WithBitrate overrides the preset bitrate in bits per second.
// Use 0 to derive it from the resolution and quality.
func (b *ConfigBuilder) WithBitrate(bps int) *ConfigBuilder {
	b.config.Bitrate = bps
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(notesPath, imagePath, outputPath string) orchestrator.Config {
	return orchestrator.Config{
		NotesPath:  notesPath,
		ImagePath:  imagePath,
		TrackIndex: c.TrackIndex,

		OutputPath:      outputPath,
		Width:           c.Width,
		Height:          c.Height,
		FrameRate:       c.FrameRate,
		DurationSeconds: c.DurationSeconds,
		BackgroundColor: c.BackgroundColor,

		Stride: c.Stride,

		Codecs:  c.Codecs,
		Bitrate: c.Bitrate,
	}
}
