// Package main provides the CLI entry point for mirrorbeat.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/user/mirrorbeat/pkg/adapters/ffmpegencoder"
	"github.com/user/mirrorbeat/pkg/adapters/filesink"
	"github.com/user/mirrorbeat/pkg/adapters/ggrenderer"
	"github.com/user/mirrorbeat/pkg/adapters/logger"
	"github.com/user/mirrorbeat/pkg/adapters/midisource"
	"github.com/user/mirrorbeat/pkg/adapters/nullsink"
	"github.com/user/mirrorbeat/pkg/adapters/osfilesystem"
	"github.com/user/mirrorbeat/pkg/adapters/progress"
	"github.com/user/mirrorbeat/pkg/adapters/smartencoder"
	"github.com/user/mirrorbeat/pkg/config"
	"github.com/user/mirrorbeat/pkg/mirrorbeat"
	"github.com/user/mirrorbeat/pkg/orchestrator"
	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
	"github.com/user/mirrorbeat/pkg/stages/stream"
	"github.com/user/mirrorbeat/pkg/summarizer"
)

var version = "dev"

// Flag categories, translated when the flags are built
const (
	catInput   = "Input"
	catOutput  = "Output"
	catVideo   = "Video and Quality"
	catFlip    = "Flipping"
	catDebug   = "Debug"
	catLogging = "Logging"
)

func main() {
	app := &cli.App{
		Name:    "mirrorbeat",
		Usage:   l10n.T("Render an image into a video that mirrors on the beat of a MIDI track"),
		Version: version,
		Description: l10n.T("mirrorbeat stretches the notes of one MIDI track over the video length " +
			"and flips the image horizontally on every second note."),
		Commands: []*cli.Command{
			renderCommand(),
			previewCommand(),
			tracksCommand(),
			codecsCommand(),
		},
	}

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println(l10n.F("mirrorbeat version %s", c.App.Version))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, pipeline.ErrCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// sessionFlags are shared by render and preview.
func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T(catInput), Usage: l10n.T("YAML configuration file")},
		&cli.IntFlag{Name: "track", Aliases: []string{"t"}, Category: l10n.T(catInput), Usage: l10n.T("Zero-based track index (see the tracks command)")},

		&cli.StringFlag{Name: "resolution", Aliases: []string{"r"}, Category: l10n.T(catVideo), Usage: l10n.T("Resolution preset (720p, 1080p, 2k, 4k)")},
		&cli.IntFlag{Name: "width", Category: l10n.T(catVideo), Usage: l10n.T("Custom output width (overrides resolution)")},
		&cli.IntFlag{Name: "height", Category: l10n.T(catVideo), Usage: l10n.T("Custom output height (overrides resolution)")},
		&cli.StringFlag{Name: "background", Aliases: []string{"bg"}, Category: l10n.T(catVideo), Usage: l10n.T("Background color (hex, e.g., #000000)")},

		&cli.IntFlag{Name: "stride", Category: l10n.T(catFlip), Usage: l10n.T("Notes per mirror toggle (default: 2)")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T(catLogging), Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T(catLogging), Usage: l10n.T("Suppress all log output")},
	}
}

func renderCommand() *cli.Command {
	flags := append(sessionFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T(catOutput), Usage: l10n.T("Output video path (default: midi-mirror-video-<time>.<ext>)")},
		&cli.StringFlag{Name: "summary", Category: l10n.T(catOutput), Usage: l10n.T("Write a Markdown summary of the run to this file")},

		&cli.IntFlag{Name: "fps", Category: l10n.T(catVideo), Usage: l10n.T("Frames per second (default: 30)")},
		&cli.Float64Flag{Name: "duration", Aliases: []string{"d"}, Category: l10n.T(catVideo), Usage: l10n.T("Video duration in seconds (default: 15)")},
		&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Category: l10n.T(catVideo), Usage: l10n.T("Quality preset (balanced, high, ultra)")},
		&cli.StringFlag{Name: "codecs", Category: l10n.T(catVideo), Usage: l10n.T("Codec preference, comma separated (default: vp9,vp8,h264)")},
		&cli.IntFlag{Name: "bitrate", Category: l10n.T(catVideo), Usage: l10n.T("Bitrate in bits per second (overrides quality preset)")},
		&cli.StringFlag{Name: "ffmpeg", Category: l10n.T(catVideo), Usage: l10n.T("Path to the ffmpeg executable")},

		&cli.BoolFlag{Name: "debug", Category: l10n.T(catDebug), Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Value: "./debug", Category: l10n.T(catDebug), Usage: l10n.T("Directory for debug output")},
		&cli.BoolFlag{Name: "no-progress", Category: l10n.T(catLogging), Usage: l10n.T("Hide the progress bar")},
	)

	return &cli.Command{
		Name:      "render",
		Usage:     l10n.T("Render and encode a mirrored video"),
		ArgsUsage: "<midi> <image>",
		Flags:     flags,
		Action:    runRender,
	}
}

func previewCommand() *cli.Command {
	flags := append(sessionFlags(),
		&cli.StringFlag{Name: "out-dir", Value: "./preview", Category: l10n.T(catOutput), Usage: l10n.T("Directory for preview frames")},
	)
	return &cli.Command{
		Name:      "preview",
		Usage:     l10n.T("Write up to 10 seconds of preview frames as PNG images"),
		ArgsUsage: "<midi> <image>",
		Flags:     flags,
		Action:    runPreview,
	}
}

func tracksCommand() *cli.Command {
	return &cli.Command{
		Name:      "tracks",
		Usage:     l10n.T("List the tracks of a MIDI file"),
		ArgsUsage: "<midi>",
		Action:    runTracks,
	}
}

func codecsCommand() *cli.Command {
	return &cli.Command{
		Name:  "codecs",
		Usage: l10n.T("Show which video codecs ffmpeg can encode"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to the ffmpeg executable")},
			&cli.StringFlag{Name: "codecs", Usage: l10n.T("Codec preference, comma separated (default: vp9,vp8,h264)")},
		},
		Action: runCodecs,
	}
}

// settings merges defaults, the config file and the flags that were set.
type settings struct {
	file      config.Config
	cfg       mirrorbeat.Config
	notesPath string
	imagePath string
}

func loadSettings(c *cli.Context) (settings, error) {
	file := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if file, err = config.LoadFromFile(path); err != nil {
			return settings{}, err
		}
	}
	applyFlags(c, &file)

	notesPath, imagePath := file.MIDI, file.Image
	if c.NArg() > 0 {
		notesPath = c.Args().Get(0)
	}
	if c.NArg() > 1 {
		imagePath = c.Args().Get(1)
	}
	if notesPath == "" || imagePath == "" {
		return settings{}, errors.New(l10n.T("MIDI and image arguments are required"))
	}

	builder, err := file.ToBuilder()
	if err != nil {
		return settings{}, err
	}
	return settings{
		file:      file,
		cfg:       builder.Build(),
		notesPath: notesPath,
		imagePath: imagePath,
	}, nil
}

// applyFlags overrides file values with flags given on the command line.
func applyFlags(c *cli.Context, f *config.Config) {
	if c.IsSet("track") {
		f.Track = c.Int("track")
	}
	if c.IsSet("resolution") {
		f.Resolution = c.String("resolution")
		f.Width, f.Height = 0, 0
	}
	if c.IsSet("width") {
		f.Width = c.Int("width")
	}
	if c.IsSet("height") {
		f.Height = c.Int("height")
	}
	if c.IsSet("background") {
		f.Background = c.String("background")
	}
	if c.IsSet("stride") {
		f.Stride = c.Int("stride")
	}
	if c.IsSet("fps") {
		f.FPS = c.Int("fps")
	}
	if c.IsSet("duration") {
		f.Duration = c.Float64("duration")
	}
	if c.IsSet("quality") {
		f.Quality = c.String("quality")
	}
	if c.IsSet("codecs") {
		f.Codecs = c.String("codecs")
	}
	if c.IsSet("bitrate") {
		f.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("ffmpeg") {
		f.FFmpeg = c.String("ffmpeg")
	}
	if c.IsSet("output") {
		f.Output = c.String("output")
	}
	if c.IsSet("debug-dir") || (c.Bool("debug") && f.DebugDir == "") {
		f.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		f.LogLevel = c.String("log-level")
	}
}

func newLogger(c *cli.Context, level string) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// watchSignals marks the session cancelled on SIGINT or SIGTERM.
func watchSignals(log ports.Logger) (cancelled func() bool, stop func()) {
	var flag atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			flag.Store(true)
		case <-done:
		}
	}()
	return flag.Load, func() {
		signal.Stop(sigCh)
		close(done)
	}
}

func newOrchestrator(log ports.Logger, ffmpegPath string, sink ports.DebugSink) (*orchestrator.Orchestrator, ports.FileSystem) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	encoder := ffmpegencoder.New(ffmpegPath, log)
	orch := orchestrator.New(
		midisource.New(fs, log),
		renderer,
		stream.NewStage(sink, log),
		encoder,
		encoder,
		fs,
		log,
	)
	return orch, fs
}

func runRender(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	log := newLogger(c, s.file.LogLevel)

	var sink ports.DebugSink = nullsink.New()
	if c.Bool("debug") {
		fs := osfilesystem.New()
		if err := fs.MkdirAll(s.file.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(s.file.DebugDir, fs, ggrenderer.New())
	}

	orch, fs := newOrchestrator(log, s.file.FFmpeg, sink)
	orchConfig := s.cfg.ToOrchestratorConfig(s.notesPath, s.imagePath, s.file.Output)

	isCancelled, stop := watchSignals(log)
	defer stop()
	orchConfig.IsCancelled = isCancelled

	var bar *progress.Reporter
	if showProgress(c) {
		total := pipeline.RenderSession{FrameRate: s.cfg.FrameRate, OutputDurationSeconds: s.cfg.DurationSeconds}.TotalFrames()
		bar = progress.New(os.Stderr, total, l10n.T("Rendering"))
		orchConfig.OnProgress = bar.Update
	}

	log.Info("Rendering %s with %s (%d fps, %.1f s)", filepath.Base(s.imagePath), filepath.Base(s.notesPath), s.cfg.FrameRate, s.cfg.DurationSeconds)
	result, runErr := orch.Run(c.Context, orchConfig)
	if bar != nil {
		if runErr == nil {
			bar.Finish()
		} else {
			bar.Abandon()
		}
	}

	summary := buildSummary(result, s)
	if path := c.String("summary"); path != "" && result.SessionID != "" {
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		), fs)
		if err := w.Write(path, summary); err != nil {
			log.Warn("Failed to write summary: %s", err.Error())
		} else {
			log.Info("Summary written to %s", path)
		}
	}

	if runErr != nil {
		if result.SessionID != "" {
			fmt.Fprintln(os.Stderr, summarizer.StatusLine.Format(summary))
		}
		return runErr
	}

	log.Info("Output saved to %s", result.OutputPath)
	fmt.Println(summarizer.StatusLine.Format(summary))
	return nil
}

func runPreview(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	log := newLogger(c, s.file.LogLevel)

	orch, fs := newOrchestrator(log, "", nullsink.New())
	outDir := c.String("out-dir")
	if err := fs.MkdirAll(outDir); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}
	frames := filesink.New(outDir, fs, ggrenderer.New())

	orchConfig := s.cfg.ToOrchestratorConfig(s.notesPath, s.imagePath, "")
	isCancelled, stop := watchSignals(log)
	defer stop()
	orchConfig.IsCancelled = isCancelled

	result, err := orch.Preview(c.Context, orchConfig, frames)
	if err != nil {
		return err
	}
	log.Info("Preview frames written to %s", outDir)
	fmt.Println(summarizer.StatusLine.Format(buildSummary(result, s)))
	return nil
}

func runTracks(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New(l10n.T("MIDI argument is required"))
	}
	fs := osfilesystem.New()
	orch := orchestrator.New(midisource.New(fs, logger.NewNoop()), nil, nil, nil, nil, fs, logger.NewNoop())

	tracks, err := orch.ListTracks(c.Args().First())
	if err != nil {
		return err
	}
	for _, t := range tracks {
		fmt.Printf("%d: %s\n", t.Index, t)
	}
	return nil
}

func runCodecs(c *cli.Context) error {
	preference := smartencoder.DefaultPreference
	if c.IsSet("codecs") {
		var err error
		if preference, err = smartencoder.ParseCodecs(c.String("codecs")); err != nil {
			return err
		}
	}

	enc := ffmpegencoder.New(c.String("ffmpeg"), logger.NewNoop())
	for _, codec := range preference {
		mark := "-"
		if enc.Supports(codec) {
			mark = "+"
		}
		fmt.Printf("%s %s (%s)\n", mark, codec, codec.MimeType())
	}

	codec, _, err := smartencoder.Select(preference, enc, nil)
	if err != nil {
		return err
	}
	fmt.Println(l10n.F("Selected: %s", string(codec)))
	return nil
}

func showProgress(c *cli.Context) bool {
	if c.Bool("quiet") || c.Bool("no-progress") {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func buildSummary(r orchestrator.RunResult, s settings) *summarizer.Summary {
	flips := make([]summarizer.Flip, len(r.Flips))
	for i, f := range r.Flips {
		flips[i] = summarizer.Flip{
			Frame:       f.FrameIndex,
			Note:        f.NoteIndex,
			Label:       f.Label,
			TimeSeconds: f.TimeSeconds,
			Mirrored:    f.Mirrored,
		}
	}

	return summarizer.NewBuilder().
		WithSession(r.SessionID, r.State.String()).
		WithInput(summarizer.InputInfo{
			NotesFile: s.notesPath,
			ImageFile: s.imagePath,
			Track:     r.TrackName,
			NoteCount: r.NoteCount,
		}).
		WithSettings(summarizer.Settings{
			Resolution:      string(s.cfg.Resolution),
			Quality:         string(s.cfg.Quality),
			Codec:           string(r.Codec),
			FrameRate:       r.FrameRate,
			DurationSeconds: r.DurationSeconds,
			Stride:          s.cfg.Stride,
			Bitrate:         s.cfg.Bitrate,
		}).
		WithStream(r.FrameCount, r.TotalFrames, flips).
		WithVideo(summarizer.VideoInfo{
			Path:         r.OutputPath,
			DurationMs:   r.VideoDurationMs,
			FileSize:     r.VideoFileSize,
			Width:        r.Width,
			Height:       r.Height,
			FallbackUsed: r.FallbackUsed,
		}).
		Build()
}
