package summarizer

import (
	"fmt"
	"strings"
)

// maxFlipRows caps the flip table of a summary.
const maxFlipRows = 50

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Render Summary"))

	b.WriteString("## " + t("Input") + "\n\n")
	f.tableHeader(&b)
	f.row(&b, "Note File", s.Input.NotesFile)
	f.row(&b, "Image", s.Input.ImageFile)
	f.row(&b, "Track", fmt.Sprintf("%s (%d %s)", s.Input.Track, s.Input.NoteCount, t("notes")))
	b.WriteString("\n")

	b.WriteString("## " + t("Settings") + "\n\n")
	f.tableHeader(&b)
	f.row(&b, "Resolution", fmt.Sprintf("%s (%dx%d)", s.Settings.Resolution, s.Video.Width, s.Video.Height))
	f.row(&b, "Quality", s.Settings.Quality)
	codec := s.Settings.Codec
	if s.Video.FallbackUsed {
		codec += " (" + t("fallback") + ")"
	}
	f.row(&b, "Codec", codec)
	f.row(&b, "Frame Rate", fmt.Sprintf("%d fps", s.Settings.FrameRate))
	f.row(&b, "Duration", fmt.Sprintf("%.2f s", s.Settings.DurationSeconds))
	f.row(&b, "Stride", fmt.Sprintf("%d", s.Settings.Stride))
	if s.Settings.Bitrate > 0 {
		f.row(&b, "Bitrate", formatBitrate(s.Settings.Bitrate))
	}
	b.WriteString("\n")

	b.WriteString("## " + t("Result") + "\n\n")
	f.tableHeader(&b)
	if s.State != "" {
		f.row(&b, "Status", t(s.State))
	}
	f.row(&b, "Frames", fmt.Sprintf("%d / %d", s.Stream.FramesDelivered, s.Stream.TotalFrames))
	f.row(&b, "Flips", fmt.Sprintf("%d", s.Stream.FlipCount))
	if s.Video.Path != "" {
		f.row(&b, "Output", s.Video.Path)
		f.row(&b, "File Size", formatBytes(s.Video.FileSize))
		f.row(&b, "Video Duration", fmt.Sprintf("%d ms", s.Video.DurationMs))
	}
	b.WriteString("\n")

	if len(s.Stream.Flips) > 0 {
		b.WriteString("## " + t("Flips") + "\n\n")
		fmt.Fprintf(&b, "| # | %s | %s | %s | %s |\n", t("Frame"), t("Time"), t("Note"), t("Mirrored"))
		b.WriteString("|---|---|---|---|---|\n")
		for i, fl := range s.Stream.Flips {
			if i == maxFlipRows {
				fmt.Fprintf(&b, "\n%s\n", fmt.Sprintf(t("... and %d more"), len(s.Stream.Flips)-maxFlipRows))
				break
			}
			fmt.Fprintf(&b, "| %d | %d | %.3f s | %s | %t |\n", i+1, fl.Frame, fl.TimeSeconds, fl.Label, fl.Mirrored)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if s.SessionID != "" {
		footer += " · " + s.SessionID
	}
	if f.version != "" {
		footer += " · mirrorbeat " + f.version
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func (f *MarkdownFormatter) tableHeader(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", f.translate("Item"), f.translate("Value"))
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

// formatBitrate formats bits per second as Mbps or kbps.
func formatBitrate(bps int) string {
	if bps >= 1_000_000 {
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1_000_000)
	}
	return fmt.Sprintf("%d kbps", bps/1000)
}

var _ Formatter = (*MarkdownFormatter)(nil)
