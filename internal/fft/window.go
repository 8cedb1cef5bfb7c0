// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math"
	"strings"

	applog "vocaltract/internal/log"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects an analysis window.
type WindowFunc int

// Enum for available window functions. Hamming, Hann and Blackman use the
// closed forms over i ∈ [0, N−1] with denominator N−1; the remaining
// windows come from gonum.
const (
	Rectangular WindowFunc = iota
	Hamming
	Hann
	Blackman
	BartlettHann
	BlackmanNuttall
	Lanczos
	Nuttall
)

var windowNames = map[WindowFunc]string{
	Rectangular:     "rectangular",
	Hamming:         "hamming",
	Hann:            "hann",
	Blackman:        "blackman",
	BartlettHann:    "bartletthann",
	BlackmanNuttall: "blackmannuttall",
	Lanczos:         "lanczos",
	Nuttall:         "nuttall",
}

func (w WindowFunc) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("window(%d)", int(w))
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc.
// Unknown names return Hann and an error.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "rect", "none":
		return Rectangular, nil
	case "hamming":
		return Hamming, nil
	case "hann", "hanning":
		return Hann, nil
	case "blackman":
		return Blackman, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown window function name: '%s'", name)
	}
}

// Window returns n coefficients of the selected window. Windows of length
// one or less are all ones since N−1 would be zero.
func Window(n int, w WindowFunc) []float64 {
	if n <= 0 {
		return nil
	}
	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	if n == 1 {
		return coeffs
	}

	denom := float64(n - 1)
	switch w {
	case Rectangular:
	case Hamming:
		for i := range coeffs {
			coeffs[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case Hann:
		for i := range coeffs {
			coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/denom))
		}
	case Blackman:
		for i := range coeffs {
			x := 2 * math.Pi * float64(i) / denom
			coeffs[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}
	case BartlettHann:
		window.BartlettHann(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		applog.Warnf("fft: unknown window function %d, defaulting to Hann", int(w))
		return Window(n, Hann)
	}
	return coeffs
}

// ApplyWindow returns a new slice holding signal multiplied element-wise by
// the selected window.
func ApplyWindow(signal []float64, w WindowFunc) []float64 {
	coeffs := Window(len(signal), w)
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v * coeffs[i]
	}
	return out
}
