// Package timeline rescales a track's native note times onto the output
// duration.
package timeline

import (
	"fmt"
	"math"

	"github.com/user/mirrorbeat/pkg/pipeline"
	"github.com/user/mirrorbeat/pkg/ports"
)

// Scale maps native timestamps onto [0, targetDuration] by a single factor.
//
// The factor is targetDuration / max(native). A one-note timeline, or one
// whose largest timestamp is not positive, is passed through with factor 1.
// Input order is kept as given; the result is never re-sorted.
func Scale(native []float64, targetDuration float64) (pipeline.ScaledTimeline, error) {
	if len(native) == 0 {
		return nil, pipeline.ErrEmptyTimeline
	}
	if !(targetDuration > 0) || math.IsInf(targetDuration, 0) {
		return nil, fmt.Errorf("%w: target duration must be positive, got %v", pipeline.ErrInvalidSession, targetDuration)
	}

	factor := Factor(native, targetDuration)
	out := make(pipeline.ScaledTimeline, len(native))
	for i, t := range native {
		out[i] = t * factor
	}
	return out, nil
}

// Factor returns the multiplier Scale applies to every timestamp.
func Factor(native []float64, targetDuration float64) float64 {
	if len(native) <= 1 {
		return 1
	}
	maxTime := native[0]
	for _, t := range native[1:] {
		if t > maxTime {
			maxTime = t
		}
	}
	if maxTime <= 0 {
		return 1
	}
	return targetDuration / maxTime
}

// FromTrack scales the onset times of track.
func FromTrack(track ports.Track, targetDuration float64) (pipeline.ScaledTimeline, error) {
	return Scale(track.Timestamps(), targetDuration)
}
