// Package progress renders stream progress as a terminal progress bar.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/user/mirrorbeat/pkg/pipeline"
)

// Reporter draws a frame counter bar and the running flip count.
type Reporter struct {
	bar   *progressbar.ProgressBar
	label string
	flips int
}

// New creates a reporter for total frames writing to w.
func New(w io.Writer, total int, label string) *Reporter {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(describe(label, 0)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &Reporter{bar: bar, label: label}
}

// Update is an OnProgress callback.
func (r *Reporter) Update(p pipeline.Progress) {
	if p.FlipCount != r.flips {
		r.flips = p.FlipCount
		r.bar.Describe(describe(r.label, r.flips))
	}
	r.bar.Set(p.FrameIndex + 1)
}

// Finish completes the bar.
func (r *Reporter) Finish() {
	r.bar.Finish()
}

// Abandon leaves the bar where it stopped, e.g. after cancellation.
func (r *Reporter) Abandon() {
	r.bar.Exit()
}

func describe(label string, flips int) string {
	return fmt.Sprintf("%s (%d flips)", label, flips)
}
