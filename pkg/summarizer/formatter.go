package summarizer

import "fmt"

// Formatter converts a Summary to text.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// StatusLine formats the one-line result printed after a run.
var StatusLine = FormatFunc(func(s *Summary) string {
	switch s.State {
	case "cancelled":
		return fmt.Sprintf("cancelled after %d of %d frames, %d flips",
			s.Stream.FramesDelivered, s.Stream.TotalFrames, s.Stream.FlipCount)
	case "failed":
		return fmt.Sprintf("failed after %d of %d frames", s.Stream.FramesDelivered, s.Stream.TotalFrames)
	}
	if s.Video.Path == "" {
		return fmt.Sprintf("%d frames, %d flips", s.Stream.FramesDelivered, s.Stream.FlipCount)
	}
	return fmt.Sprintf("%s: %d frames, %d flips, %s",
		s.Video.Path, s.Stream.FramesDelivered, s.Stream.FlipCount, formatBytes(s.Video.FileSize))
})
