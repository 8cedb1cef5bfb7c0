// SPDX-License-Identifier: MIT
package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"vocaltract/pkg/utils"

	"gonum.org/v1/gonum/dsp/window"
)

func TestWindowEndpoints(t *testing.T) {
	const n = 65 // odd length puts a sample at the exact center
	tests := []struct {
		w      WindowFunc
		edge   float64
		center float64
	}{
		{Hamming, 0.08, 1.0},
		{Hann, 0.0, 1.0},
		{Blackman, 0.0, 1.0},
		{Rectangular, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.w.String(), func(t *testing.T) {
			c := Window(n, tt.w)
			if math.Abs(c[0]-tt.edge) > tolerance || math.Abs(c[n-1]-tt.edge) > tolerance {
				t.Errorf("edges = (%f, %f), want %f", c[0], c[n-1], tt.edge)
			}
			if math.Abs(c[n/2]-tt.center) > tolerance {
				t.Errorf("center = %f, want %f", c[n/2], tt.center)
			}
			for i := range n / 2 {
				if math.Abs(c[i]-c[n-1-i]) > tolerance {
					t.Fatalf("window not symmetric at %d", i)
				}
			}
		})
	}
}

func TestHannMatchesGonum(t *testing.T) {
	const n = 512
	ref := window.Hann(utils.Constant(n, 1))
	got := Window(n, Hann)
	for i := range got {
		if math.Abs(got[i]-ref[i]) > tolerance {
			t.Fatalf("coefficient %d: got %f, gonum %f", i, got[i], ref[i])
		}
	}
}

func TestWindowDegenerateLengths(t *testing.T) {
	if Window(0, Hann) != nil {
		t.Error("expected nil coefficients for length 0")
	}
	for _, w := range []WindowFunc{Hamming, Hann, Blackman, Nuttall} {
		c := Window(1, w)
		if len(c) != 1 || c[0] != 1 {
			t.Errorf("%s: length-1 window = %v, want [1]", w, c)
		}
	}
}

func TestApplyWindowDoesNotMutateInput(t *testing.T) {
	signal := utils.Constant(16, 2)
	out := ApplyWindow(signal, Hann)
	for i, v := range signal {
		if v != 2 {
			t.Fatalf("input modified at %d", i)
		}
	}
	coeffs := Window(16, Hann)
	for i := range out {
		if math.Abs(out[i]-2*coeffs[i]) > tolerance {
			t.Errorf("out[%d] = %f, want %f", i, out[i], 2*coeffs[i])
		}
	}
}

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		name    string
		want    WindowFunc
		wantErr bool
	}{
		{"Hamming", Hamming, false},
		{"hanning", Hann, false},
		{"  BLACKMAN ", Blackman, false},
		{"nuttall", Nuttall, false},
		{"none", Rectangular, false},
		{"kaiser", Hann, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindowFunc(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindowFunc(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWindowFunc(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestSTFTFrameCount(t *testing.T) {
	s := NewSTFT(256, 128, Hann)
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{255, 0},
		{256, 1},
		{383, 1},
		{384, 2},
		{1024, 7},
	}
	for _, tt := range tests {
		if got := s.FrameCount(tt.n); got != tt.want {
			t.Errorf("FrameCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
		if got := len(s.Process(make([]float64, tt.n))); got != tt.want {
			t.Errorf("len(Process(%d)) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSTFTNonPowerOfTwoWindow(t *testing.T) {
	s := NewSTFT(300, 100, Hamming)
	if s.FFTSize() != 512 {
		t.Fatalf("FFTSize = %d, want 512", s.FFTSize())
	}
	frames := s.Process(make([]float64, 600))
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	for i, f := range frames {
		if len(f) != 257 {
			t.Errorf("frame %d has %d bins, want 257", i, len(f))
		}
	}
}

func TestSTFTMatchesDirectTransform(t *testing.T) {
	signal := utils.GenerateSineWave(2048, 8000, 1000, 0.5)
	s := NewSTFT(512, 256, Blackman)
	frames := s.Process(signal)

	// Frame 2 starts at sample 512.
	direct, err := RFFT(ApplyWindow(signal[512:1024], Blackman))
	if err != nil {
		t.Fatalf("RFFT error: %v", err)
	}
	for k := range direct {
		if cmplx.Abs(frames[2][k]-direct[k]) > 1e-9 {
			t.Fatalf("bin %d: stft %v, direct %v", k, frames[2][k], direct[k])
		}
	}

	mags := MagnitudeSpectrogram(frames)
	// 1000 Hz at 8000 Hz / 512 points sits in bin 64.
	for i, row := range mags {
		if peak := utils.FindPeakBin(row, 0, len(row)-1); peak != 64 {
			t.Errorf("frame %d peak bin = %d, want 64", i, peak)
		}
	}

	db := PowerSpectrogramDB(frames)
	for i := range db {
		for k := range db[i] {
			want := 10 * math.Log10(mags[i][k]*mags[i][k]+1e-12)
			if math.Abs(db[i][k]-want) > 1e-9 {
				t.Fatalf("db[%d][%d] = %f, want %f", i, k, db[i][k], want)
			}
		}
	}
}

func TestSTFTClampsSizes(t *testing.T) {
	s := NewSTFT(0, -4, Hann)
	if got := s.FrameCount(3); got != 3 {
		t.Errorf("clamped STFT FrameCount(3) = %d, want 3", got)
	}
}
