// SPDX-License-Identifier: MIT
package lpc

import (
	"math"
	"testing"

	"vocaltract/pkg/utils"
)

func TestNewAnalyzerSanitizesParams(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{
			"zero value",
			Params{},
			Params{Order: DefaultOrder, FrameSize: DefaultFrameSize, SampleRate: DefaultSampleRate, NumFormants: DefaultNumFormants},
		},
		{
			"order clamped",
			Params{Order: 200, PreEmphasis: 0.9, FrameSize: 256, SampleRate: 16000, NumFormants: 3},
			Params{Order: MaxOrder, PreEmphasis: 0.9, FrameSize: 256, SampleRate: 16000, NumFormants: 3},
		},
		{
			"negative sizes",
			Params{Order: -1, PreEmphasis: 0, FrameSize: -5, SampleRate: -8000, NumFormants: -2},
			Params{Order: DefaultOrder, PreEmphasis: 0, FrameSize: DefaultFrameSize, SampleRate: DefaultSampleRate, NumFormants: DefaultNumFormants},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAnalyzer(tt.in).Params(); got != tt.want {
				t.Errorf("Params() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUpdateParametersPartial(t *testing.T) {
	a := NewAnalyzer(DefaultParams())

	order := 10
	a.UpdateParameters(Update{Order: &order})
	p := a.Params()
	if p.Order != 10 {
		t.Errorf("Order = %d, want 10", p.Order)
	}
	if p.PreEmphasis != DefaultPreEmphasis || p.SampleRate != DefaultSampleRate || p.NumFormants != DefaultNumFormants {
		t.Errorf("untouched fields changed: %+v", p)
	}

	alpha := 0.0
	rate := 16000.0
	a.UpdateParameters(Update{PreEmphasis: &alpha, SampleRate: &rate})
	p = a.Params()
	if p.Order != 10 || p.PreEmphasis != 0 || p.SampleRate != 16000 {
		t.Errorf("after second update: %+v", p)
	}

	a.UpdateParameters(Update{})
	if a.Params() != p {
		t.Errorf("empty update changed params: %+v", a.Params())
	}
}

func TestAnalyzeFrameShapes(t *testing.T) {
	a := NewAnalyzer(DefaultParams())
	frame := utils.Add(
		utils.GenerateTones(DefaultFrameSize, DefaultSampleRate, []float64{700, 1220, 2600}, []float64{1, 0.6, 0.3}),
		utils.GenerateNoise(DefaultFrameSize, 0.01, 7),
	)

	out := a.AnalyzeFrame(frame)
	if len(out.LPC.Coefficients) != DefaultOrder {
		t.Errorf("coefficients = %d, want %d", len(out.LPC.Coefficients), DefaultOrder)
	}
	if len(out.Areas) != DefaultOrder+1 || len(out.LogAreas) != DefaultOrder+1 {
		t.Errorf("areas = %d, log areas = %d, want %d", len(out.Areas), len(out.LogAreas), DefaultOrder+1)
	}
	if out.Areas[0] != 1 {
		t.Errorf("glottis area = %f, want 1", out.Areas[0])
	}
	for i, la := range out.LogAreas {
		if math.Abs(la-math.Log(math.Max(out.Areas[i], AreaFloor))) > tolerance {
			t.Errorf("logArea[%d] inconsistent with area", i)
		}
	}
	if len(out.Formants) == 0 || len(out.Formants) > DefaultNumFormants {
		t.Fatalf("formants = %v, want 1..%d values", out.Formants, DefaultNumFormants)
	}
	for i := 1; i < len(out.Formants); i++ {
		if out.Formants[i] <= out.Formants[i-1] {
			t.Errorf("formants not ascending: %v", out.Formants)
		}
	}
	if out.Formants[0] <= MinFormantFrequency {
		t.Errorf("F1 = %f, want > %f", out.Formants[0], MinFormantFrequency)
	}
}

func TestAnalyzeFrameSilence(t *testing.T) {
	out := NewAnalyzer(DefaultParams()).AnalyzeFrame(make([]float64, DefaultFrameSize))
	if !out.LPC.Degenerate() {
		t.Error("silent frame should be degenerate")
	}
	for i, a := range out.Areas {
		if a != 1 {
			t.Errorf("area[%d] = %f, want 1 for silence", i, a)
		}
	}
}
