// SPDX-License-Identifier: MIT
package fft

import (
	"math"

	applog "vocaltract/internal/log"
	"vocaltract/pkg/bitint"
)

// STFT frames a signal at multiples of the hop size, windows each frame and
// keeps the non-negative frequency bins of its transform.
//
// The window coefficients are computed once at construction; an STFT value
// is read-only afterwards and may be shared between goroutines.
type STFT struct {
	windowSize int
	hopSize    int
	fftSize    int // windowSize rounded up to a power of two
	window     WindowFunc
	coeffs     []float64
}

// NewSTFT creates a short-time transform. Non-positive sizes are clamped to
// one rather than rejected.
func NewSTFT(windowSize, hopSize int, w WindowFunc) *STFT {
	if windowSize < 1 {
		applog.Warnf("fft: STFT window size %d clamped to 1", windowSize)
		windowSize = 1
	}
	if hopSize < 1 {
		applog.Warnf("fft: STFT hop size %d clamped to 1", hopSize)
		hopSize = 1
	}

	return &STFT{
		windowSize: windowSize,
		hopSize:    hopSize,
		fftSize:    bitint.NextPowerOfTwo(windowSize),
		window:     w,
		coeffs:     Window(windowSize, w),
	}
}

// FFTSize returns the transform length used per frame.
func (s *STFT) FFTSize() int { return s.fftSize }

// FrameCount returns ⌊(n−windowSize)/hopSize⌋+1, or 0 when n < windowSize.
func (s *STFT) FrameCount(n int) int {
	if n < s.windowSize {
		return 0
	}
	return (n-s.windowSize)/s.hopSize + 1
}

// Process returns one half spectrum (fftSize/2+1 bins) per frame. Signals
// shorter than the window yield no frames.
func (s *STFT) Process(signal []float64) [][]complex128 {
	count := s.FrameCount(len(signal))
	if count == 0 {
		return nil
	}

	bins := s.fftSize/2 + 1
	frames := make([][]complex128, count)
	for f := range count {
		start := f * s.hopSize
		x := make([]complex128, s.fftSize)
		for j := range s.windowSize {
			x[j] = complex(signal[start+j]*s.coeffs[j], 0)
		}
		// fftSize is a power of two by construction.
		_ = Transform(x)
		frames[f] = x[:bins:bins]
	}
	return frames
}

// MagnitudeSpectrogram maps every frame to per-bin magnitudes.
func MagnitudeSpectrogram(frames [][]complex128) [][]float64 {
	out := make([][]float64, len(frames))
	for i, frame := range frames {
		out[i] = Magnitudes(frame)
	}
	return out
}

// PowerSpectrogramDB maps every frame to 10·log10(|X|² + 1e-12).
func PowerSpectrogramDB(frames [][]complex128) [][]float64 {
	out := make([][]float64, len(frames))
	for i, frame := range frames {
		row := make([]float64, len(frame))
		for k, c := range frame {
			row[k] = 10 * math.Log10(real(c)*real(c)+imag(c)*imag(c)+dBFloor)
		}
		out[i] = row
	}
	return out
}
