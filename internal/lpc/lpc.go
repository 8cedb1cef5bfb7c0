// SPDX-License-Identifier: MIT
/*
Package lpc implements linear predictive analysis of speech frames:

- Biased autocorrelation and the Levinson-Durbin recursion
- Pre-emphasis, synthesis and residual filters
- Reflection coefficient to acoustic tube area transform
- All-pole frequency response and peak-picking formant estimation

Coefficient convention: Result.Coefficients hold a₁..a_p of the inverse
filter A(z) = 1 + Σ aᵢ z⁻ⁱ, with a₀ = 1 implicit. FrequencyResponse,
Synthesize and Residual all use that same model.

Degenerate frames (silence, perfectly periodic input) are not errors: the
recursion stops at the stage where the prediction error reaches zero and
reports how many stages it completed.
*/
package lpc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// ReflectionLimit bounds |k| before the area transform so the ratio
	// (1−k)/(1+k) stays finite and positive.
	ReflectionLimit = 0.99

	// AreaFloor is the smallest area passed to the logarithm.
	AreaFloor = 1e-6

	// FormantResponseSize is the transform length sampled by EstimateFormants.
	FormantResponseSize = 4096

	// MinFormantFrequency rejects peaks at or below this frequency (Hz).
	MinFormantFrequency = 90.0

	responseFloor = 1e-12
)

// Result holds the output of one Levinson-Durbin solve.
//
// Coefficients are the negated predictor coefficients, so that
// x[n] ≈ −Σ aᵢ·x[n−i]. ReflectionCoefficients keep the predictor sign:
// for r = [1, 0.9] the solve gives k₁ = 0.9 and a₁ = −0.9.
type Result struct {
	Coefficients           []float64 `json:"coefficients"`           // a₁..a_p of A(z) = 1 + Σ aᵢ z⁻ⁱ
	ReflectionCoefficients []float64 `json:"reflectionCoefficients"` // k₁..k_p (PARCOR)
	PredictionError        float64   `json:"predictionError"`        // final error energy, never negative
	Gain                   float64   `json:"gain"`                   // sqrt(PredictionError)
	Order                  int       `json:"order"`                  // requested order
	Stages                 int       `json:"stages"`                 // completed stages, < Order on early exit
}

// Degenerate reports whether the recursion stopped before reaching Order.
func (r Result) Degenerate() bool {
	return r.Stages < r.Order
}

// Autocorrelation returns r[ℓ] = Σ x[n]·x[n+ℓ] for ℓ ∈ [0, maxLag). The
// estimator is biased (no 1/(N−ℓ) normalization). Lags at or beyond the
// signal length are zero.
func Autocorrelation(signal []float64, maxLag int) []float64 {
	if maxLag <= 0 {
		return nil
	}
	r := make([]float64, maxLag)
	n := len(signal)
	for lag := range maxLag {
		if lag >= n {
			break
		}
		r[lag] = floats.Dot(signal[:n-lag], signal[lag:])
	}
	return r
}

// LevinsonDurbin solves the normal equations for an order-p predictor
// from autocorrelation values r[0..p]. Missing values are taken as zero.
//
// Stage i computes k = (r[i+1] − Σ_{j<i} pⱼ·r[i−j]) / E, updates the
// predictor pⱼ ← pⱼ − k·p_{i−1−j}, sets pᵢ = k and shrinks E ← E(1−k²).
// The recursion halts as soon as E ≤ 0; coefficients of stages not reached
// stay zero. The predictor is negated on output to match A(z).
func LevinsonDurbin(r []float64, order int) Result {
	if order < 0 {
		order = 0
	}

	at := func(i int) float64 {
		if i < len(r) {
			return r[i]
		}
		return 0
	}

	pred := make([]float64, order)
	prev := make([]float64, order)
	refl := make([]float64, order)

	e := at(0)
	stages := 0
	for i := range order {
		if e <= 0 {
			break
		}

		acc := at(i + 1)
		for j := range i {
			acc -= pred[j] * at(i-j)
		}
		k := acc / e

		copy(prev[:i], pred[:i])
		for j := range i {
			pred[j] = prev[j] - k*prev[i-1-j]
		}
		pred[i] = k
		refl[i] = k

		e *= 1 - k*k
		stages = i + 1
	}

	if e < 0 {
		e = 0
	}

	coeffs := make([]float64, order)
	for j, p := range pred {
		if p != 0 {
			coeffs[j] = -p
		}
	}

	return Result{
		Coefficients:           coeffs,
		ReflectionCoefficients: refl,
		PredictionError:        e,
		Gain:                   math.Sqrt(e),
		Order:                  order,
		Stages:                 stages,
	}
}

// PreEmphasis applies y[0] = x[0], y[n] = x[n] − α·x[n−1].
func PreEmphasis(signal []float64, alpha float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}
	out[0] = signal[0]
	for n := 1; n < len(signal); n++ {
		out[n] = signal[n] - alpha*signal[n-1]
	}
	return out
}

// Analyze pre-emphasizes the signal, takes order+1 autocorrelation lags and
// runs the Levinson-Durbin recursion.
func Analyze(signal []float64, order int, preEmphasis float64) Result {
	emphasized := PreEmphasis(signal, preEmphasis)
	r := Autocorrelation(emphasized, order+1)
	return LevinsonDurbin(r, order)
}

// ReflectionToArea maps reflection coefficients to the cross-sectional
// areas of a lossless tube: area[0] = 1 at the glottis and
// area[i+1] = area[i]·(1−k)/(1+k) with k clipped to ±ReflectionLimit.
func ReflectionToArea(reflection []float64) []float64 {
	area := make([]float64, len(reflection)+1)
	area[0] = 1.0
	for i, k := range reflection {
		k = math.Max(-ReflectionLimit, math.Min(ReflectionLimit, k))
		area[i+1] = area[i] * (1 - k) / (1 + k)
	}
	return area
}

// AreaToLogArea returns ln(max(area, AreaFloor)) element-wise.
func AreaToLogArea(area []float64) []float64 {
	out := make([]float64, len(area))
	for i, a := range area {
		out[i] = math.Log(math.Max(a, AreaFloor))
	}
	return out
}

// FrequencyResponse evaluates 20·log10(1/|A(e^{jω})| + 1e-12) at nfft/2+1
// equally spaced frequencies ω = 2πk/nfft.
func FrequencyResponse(coeffs []float64, nfft int) []float64 {
	if nfft <= 0 {
		return nil
	}
	points := nfft/2 + 1
	out := make([]float64, points)
	for k := range points {
		omega := 2 * math.Pi * float64(k) / float64(nfft)
		re, im := 1.0, 0.0
		for i, a := range coeffs {
			phi := omega * float64(i+1)
			re += a * math.Cos(phi)
			im -= a * math.Sin(phi)
		}
		mag := 1 / math.Hypot(re, im)
		out[k] = 20 * math.Log10(mag+responseFloor)
	}
	return out
}

// EstimateFormants picks local maxima of a FormantResponseSize-point
// frequency response in ascending order, skipping peaks at or below
// MinFormantFrequency, until numFormants are found. This is peak picking
// on the envelope, not pole extraction, so close formants can merge and
// noisy envelopes can yield spurious peaks.
func EstimateFormants(coeffs []float64, sampleRate float64, numFormants int) []float64 {
	if numFormants <= 0 {
		return []float64{}
	}
	response := FrequencyResponse(coeffs, FormantResponseSize)
	resolution := sampleRate / FormantResponseSize

	formants := make([]float64, 0, numFormants)
	for i := 1; i < len(response)-1 && len(formants) < numFormants; i++ {
		if response[i] > response[i-1] && response[i] > response[i+1] {
			if f := float64(i) * resolution; f > MinFormantFrequency {
				formants = append(formants, f)
			}
		}
	}
	return formants
}

// Synthesize runs the all-pole filter y[n] = gain·x[n] − Σ aᵢ·y[n−i−1],
// skipping terms before the start of the output.
func Synthesize(excitation, coeffs []float64, gain float64) []float64 {
	y := make([]float64, len(excitation))
	for n, x := range excitation {
		acc := gain * x
		for i, a := range coeffs {
			if n-i-1 < 0 {
				break
			}
			acc -= a * y[n-i-1]
		}
		y[n] = acc
	}
	return y
}

// Residual runs the inverse filter e[n] = x[n] + Σ aᵢ·x[n−i−1]. It undoes
// Synthesize with unit gain.
func Residual(signal, coeffs []float64) []float64 {
	e := make([]float64, len(signal))
	for n, x := range signal {
		acc := x
		for i, a := range coeffs {
			if n-i-1 < 0 {
				break
			}
			acc += a * signal[n-i-1]
		}
		e[n] = acc
	}
	return e
}
