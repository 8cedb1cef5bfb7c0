// SPDX-License-Identifier: MIT
/*
Package fft implements the spectral side of the analysis core:

- In-place iterative radix-2 Cooley-Tukey transform and its inverse
- Real-input helpers (half spectrum, power, dB magnitude)
- Analytic window functions and frequency-bin mapping
- Short-time Fourier transform over hopped, windowed frames

Complex values are Go's built-in complex128; magnitude and phase come
from math/cmplx.

All functions are pure and safe for concurrent use; none of them keep
state between calls.
*/
package fft

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"vocaltract/pkg/bitint"
)

// ErrInvalidSize is returned when a transform is requested on a sequence
// whose length is not a power of two.
var ErrInvalidSize = errors.New("fft: length must be a power of two")

// dBFloor is added before taking a logarithm so exact zeros map to -120 dB
// instead of -Inf.
const dBFloor = 1e-12

// Transform performs an in-place forward DFT of x. The input is reordered
// by bit reversal and then combined by log2(N) butterfly stages, each using
// twiddle factors e^{-iθk} with θ = 2π/2^stage.
func Transform(x []complex128) error {
	n := len(x)
	if !bitint.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}

	width := bitint.Log2(n)
	for i := range x {
		if j := bitint.Reverse(i, width); j > i {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		theta := -2 * math.Pi / float64(size)
		for k := range half {
			w := cmplx.Rect(1, theta*float64(k))
			for start := 0; start < n; start += size {
				u := x[start+k]
				t := w * x[start+k+half]
				x[start+k] = u + t
				x[start+k+half] = u - t
			}
		}
	}

	return nil
}

// FFT returns the full complex spectrum of a real signal.
func FFT(signal []float64) ([]complex128, error) {
	if !bitint.IsPowerOfTwo(len(signal)) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, len(signal))
	}

	x := make([]complex128, len(signal))
	for i, v := range signal {
		x[i] = complex(v, 0)
	}
	if err := Transform(x); err != nil {
		return nil, err
	}
	return x, nil
}

// IFFT inverts a spectrum by conjugating, running the forward transform and
// rescaling by 1/N. Only the real part is returned; callers pass Hermitian
// spectra, and no symmetry is enforced.
func IFFT(spectrum []complex128) ([]float64, error) {
	n := len(spectrum)
	if !bitint.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}

	x := make([]complex128, n)
	for i, c := range spectrum {
		x[i] = cmplx.Conj(c)
	}
	if err := Transform(x); err != nil {
		return nil, err
	}

	// real(conj(z)) == real(z), so the second conjugation is skipped.
	out := make([]float64, n)
	scale := 1 / float64(n)
	for i, c := range x {
		out[i] = real(c) * scale
	}
	return out, nil
}

// RFFT returns bins [0, N/2] of the spectrum of a real signal. The negative
// frequencies are the complex conjugates of these and are discarded.
func RFFT(signal []float64) ([]complex128, error) {
	x, err := FFT(signal)
	if err != nil {
		return nil, err
	}
	bins := len(x)/2 + 1
	return x[:bins:bins], nil
}

// PowerSpectrum returns |X[k]|² for the non-negative frequency bins.
func PowerSpectrum(signal []float64) ([]float64, error) {
	x, err := RFFT(signal)
	if err != nil {
		return nil, err
	}
	power := make([]float64, len(x))
	for i, c := range x {
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return power, nil
}

// MagnitudeSpectrumDB returns 10·log10(power/reference² + 1e-12) per bin.
// A non-positive reference is treated as 1.
func MagnitudeSpectrumDB(signal []float64, reference float64) ([]float64, error) {
	power, err := PowerSpectrum(signal)
	if err != nil {
		return nil, err
	}
	if reference <= 0 {
		reference = 1
	}
	ref2 := reference * reference
	for i, p := range power {
		power[i] = 10 * math.Log10(p/ref2+dBFloor)
	}
	return power, nil
}

// ZeroPad extends signal with trailing zeros up to the next power of two.
// A signal that is already a power of two (or empty) is returned as is.
func ZeroPad(signal []float64) []float64 {
	n := len(signal)
	if n == 0 || bitint.IsPowerOfTwo(n) {
		return signal
	}
	padded := make([]float64, bitint.NextPowerOfTwo(n))
	copy(padded, signal)
	return padded
}

// FrequencyBins returns the center frequency of bins 0..fftSize/2.
func FrequencyBins(fftSize int, sampleRate float64) []float64 {
	if fftSize <= 0 {
		return nil
	}
	bins := make([]float64, fftSize/2+1)
	resolution := sampleRate / float64(fftSize)
	for i := range bins {
		bins[i] = float64(i) * resolution
	}
	return bins
}

// Magnitudes maps a complex spectrum to |X[k]|.
func Magnitudes(spectrum []complex128) []float64 {
	out := make([]float64, len(spectrum))
	for i, c := range spectrum {
		out[i] = cmplx.Abs(c)
	}
	return out
}

// Phases maps a complex spectrum to arg(X[k]) in radians.
func Phases(spectrum []complex128) []float64 {
	out := make([]float64, len(spectrum))
	for i, c := range spectrum {
		out[i] = cmplx.Phase(c)
	}
	return out
}
