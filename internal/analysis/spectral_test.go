// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"

	"vocaltract/pkg/utils"
)

func TestZeroCrossingRate(t *testing.T) {
	tests := []struct {
		name  string
		frame []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1}, 0},
		{"zero counts as positive", []float64{1, 0}, 0},
		{"negative to zero", []float64{-1, 0}, 1},
		{"mixed", []float64{0, -1, 0, 1}, 2.0 / 3.0},
		{"alternating", []float64{1, -1, 1, -1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZeroCrossingRate(tt.frame); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ZeroCrossingRate(%v) = %f, want %f", tt.frame, got, tt.want)
			}
		})
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(utils.Constant(64, -0.25)); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("RMS = %f, want 0.25", got)
	}
	if RMS(nil) != 0 {
		t.Error("RMS of empty frame should be 0")
	}
}

func TestSpectralMoments(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}

	power := []float64{0, 2, 0, 0}
	if c := SpectralCentroid(power, freqs); c != 100 {
		t.Errorf("centroid = %f, want 100", c)
	}
	if s := SpectralSpread(power, freqs, 100); s != 0 {
		t.Errorf("spread = %f, want 0", s)
	}

	power = []float64{0, 1, 0, 1}
	if c := SpectralCentroid(power, freqs); c != 200 {
		t.Errorf("centroid = %f, want 200", c)
	}
	if s := SpectralSpread(power, freqs, 200); s != 100 {
		t.Errorf("spread = %f, want 100", s)
	}

	zero := make([]float64, 4)
	if SpectralCentroid(zero, freqs) != 0 || SpectralSpread(zero, freqs, 0) != 0 {
		t.Error("moments of a powerless spectrum should be 0")
	}
}

func TestSpectralRolloff(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}
	tests := []struct {
		name  string
		power []float64
		want  float64
	}{
		{"flat", []float64{1, 1, 1, 1}, 300},
		{"dc", []float64{10, 0, 0, 0}, 0},
		{"exact threshold", []float64{0.85, 0.15, 0, 0}, 0},
		{"mid", []float64{1, 1, 8, 0}, 200},
		{"no power", []float64{0, 0, 0, 0}, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpectralRolloff(tt.power, freqs); got != tt.want {
				t.Errorf("rolloff = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSpectralFlux(t *testing.T) {
	if got := SpectralFlux([]float64{1, 3, 0}, []float64{2, 1, 0}); got != 2 {
		t.Errorf("flux = %f, want 2", got)
	}
}

func TestEstimatePitch(t *testing.T) {
	const sr = 8000.0
	tests := []struct {
		name string
		freq float64
	}{
		{"low", 100},
		{"mid", 200},
		{"high", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f0 := EstimatePitch(utils.GenerateSineWave(1024, sr, tt.freq, 0.5), sr)
			if f0 == nil {
				t.Fatal("expected a pitch estimate")
			}
			if math.Abs(*f0-tt.freq) > 0.03*tt.freq {
				t.Errorf("f0 = %.2f Hz, want ≈ %.0f Hz", *f0, tt.freq)
			}
		})
	}
}

func TestEstimatePitchUnvoiced(t *testing.T) {
	if EstimatePitch(make([]float64, 1024), 8000) != nil {
		t.Error("silence should have no pitch")
	}
	if EstimatePitch(utils.GenerateNoise(2048, 0.5, 1), testSampleRate) != nil {
		t.Error("white noise should have no pitch")
	}
	if EstimatePitch(utils.GenerateSineWave(50, testSampleRate, 150, 0.5), testSampleRate) != nil {
		t.Error("frame shorter than the minimum lag should have no pitch")
	}
}
