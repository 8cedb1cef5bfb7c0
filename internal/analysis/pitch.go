// SPDX-License-Identifier: MIT
package analysis

import (
	"gonum.org/v1/gonum/floats"
)

// Pitch search limits and the voicing threshold relative to r[0].
const (
	MinPitch           = 50.0
	MaxPitch           = 500.0
	PitchPeakThreshold = 0.3
)

// EstimatePitch returns the fundamental frequency of frame from the lag of
// the largest autocorrelation in [⌊sr/MaxPitch⌋, ⌊sr/MinPitch⌋], capped at
// len(frame)−1. It returns nil when the frame has no energy, no lag fits,
// or the peak is below PitchPeakThreshold·r[0].
func EstimatePitch(frame []float64, sampleRate float64) *float64 {
	n := len(frame)
	minLag := int(sampleRate / MaxPitch)
	maxLag := int(sampleRate / MinPitch)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	if minLag > maxLag {
		return nil
	}

	r0 := floats.Dot(frame, frame)
	if r0 == 0 {
		return nil
	}

	bestLag := minLag
	best := floats.Dot(frame[:n-minLag], frame[minLag:])
	for lag := minLag + 1; lag <= maxLag; lag++ {
		if r := floats.Dot(frame[:n-lag], frame[lag:]); r > best {
			best, bestLag = r, lag
		}
	}

	if best < PitchPeakThreshold*r0 {
		return nil
	}
	f0 := sampleRate / float64(bestLag)
	return &f0
}
