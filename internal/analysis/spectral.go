// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RolloffFraction is the share of total power below the spectral rolloff.
const RolloffFraction = 0.85

// RMS returns the root mean square of frame, 0 for an empty frame.
func RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
}

// ZeroCrossingRate returns the fraction of adjacent sample pairs whose sign
// classes differ, where a sample is non-negative (x ≥ 0) or negative. An
// exact zero therefore sits on the positive side.
func ZeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i] >= 0) != (frame[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}

// SpectralCentroid returns Σ f·p / Σ p, or 0 when the spectrum has no power.
func SpectralCentroid(power, freqs []float64) float64 {
	total := floats.Sum(power)
	if total == 0 {
		return 0
	}
	return floats.Dot(freqs, power) / total
}

// SpectralSpread returns the power-weighted standard deviation of frequency
// around centroid.
func SpectralSpread(power, freqs []float64, centroid float64) float64 {
	total := floats.Sum(power)
	if total == 0 {
		return 0
	}
	var acc float64
	for i, p := range power {
		d := freqs[i] - centroid
		acc += d * d * p
	}
	return math.Sqrt(acc / total)
}

// SpectralRolloff returns the lowest bin frequency at which cumulative power
// reaches RolloffFraction of the total. If the threshold is never reached,
// including when the spectrum has no power, it returns the highest bin.
func SpectralRolloff(power, freqs []float64) float64 {
	if len(freqs) == 0 {
		return 0
	}
	highest := freqs[len(freqs)-1]
	total := floats.Sum(power)
	if total == 0 {
		return highest
	}
	threshold := RolloffFraction * total
	var cumulative float64
	for i, p := range power {
		cumulative += p
		if cumulative >= threshold {
			return freqs[i]
		}
	}
	return highest
}

// SpectralFlux returns Σ max(0, power[i] − previous[i]).
func SpectralFlux(power, previous []float64) float64 {
	var flux float64
	for i, p := range power {
		if d := p - previous[i]; d > 0 {
			flux += d
		}
	}
	return flux
}
