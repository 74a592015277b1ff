// Package config loads render settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/user/mirrorbeat/pkg/adapters/smartencoder"
	"github.com/user/mirrorbeat/pkg/mirrorbeat"
	"gopkg.in/yaml.v3"
)

// Config represents a mirrorbeat YAML file. Zero values mean "not set".
type Config struct {
	// Inputs
	MIDI  string `yaml:"midi"`
	Image string `yaml:"image"`
	Track int    `yaml:"track"`

	// Output
	Output     string  `yaml:"output"`
	Resolution string  `yaml:"resolution"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FPS        int     `yaml:"fps"`
	Duration   float64 `yaml:"duration"`
	Background string  `yaml:"background"`
	Stride     int     `yaml:"stride"`

	// Encoding
	Quality string `yaml:"quality"`
	Codecs  string `yaml:"codecs"`
	Bitrate int    `yaml:"bitrate"`
	FFmpeg  string `yaml:"ffmpeg"`

	// Diagnostics
	LogLevel string `yaml:"log_level"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Resolution: string(mirrorbeat.Resolution1080p),
		FPS:        30,
		Duration:   15,
		Background: "#000000",
		Stride:     2,
		Quality:    string(mirrorbeat.QualityBalanced),
		Codecs:     "vp9,vp8,h264",
		LogLevel:   "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg, keeping fields the data does not set.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ParseColor parses "#rrggbb", "rrggbb" or "#rgb" into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{A: 255}, fmt.Errorf("invalid color %q", hex)
	}

	var v [3]uint8
	for i := range v {
		hi, ok1 := hexValue(s[2*i])
		lo, ok2 := hexValue(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{A: 255}, fmt.Errorf("invalid color %q", hex)
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 255}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ToBuilder converts the file settings into a ConfigBuilder.
func (c Config) ToBuilder() (*mirrorbeat.ConfigBuilder, error) {
	b := mirrorbeat.NewConfigBuilder()

	if c.Resolution != "" {
		b.WithResolution(mirrorbeat.Resolution(strings.ToLower(c.Resolution)))
	}
	if c.Width > 0 && c.Height > 0 {
		b.WithSize(c.Width, c.Height)
	}
	if c.FPS != 0 {
		b.WithFrameRate(c.FPS)
	}
	if c.Duration != 0 {
		b.WithDuration(c.Duration)
	}
	if c.Background != "" {
		bg, err := ParseColor(c.Background)
		if err != nil {
			return nil, err
		}
		b.WithBackgroundColor(bg)
	}
	if c.Stride != 0 {
		b.WithStride(c.Stride)
	}
	if c.Quality != "" {
		b.WithQualityPreset(mirrorbeat.QualityPreset(strings.ToLower(c.Quality)))
	}
	if c.Codecs != "" {
		codecs, err := smartencoder.ParseCodecs(c.Codecs)
		if err != nil {
			return nil, err
		}
		b.WithCodecs(codecs...)
	}
	if c.Bitrate > 0 {
		b.WithBitrate(c.Bitrate)
	}
	b.WithTrack(c.Track)

	return b, nil
}
