// SPDX-License-Identifier: MIT
package lpc

import applog "vocaltract/internal/log"

// Default analysis parameters for speech at telephone bandwidth.
const (
	DefaultOrder       = 14
	DefaultPreEmphasis = 0.97
	DefaultFrameSize   = 512
	DefaultSampleRate  = 8000.0
	DefaultNumFormants = 4

	MaxOrder = 64
)

// Params configures an Analyzer.
type Params struct {
	Order       int     // Predictor order p
	PreEmphasis float64 // α of the pre-emphasis filter
	FrameSize   int     // Expected frame length in samples
	SampleRate  float64 // Sample rate of the frames (Hz)
	NumFormants int     // Formants to report per frame
}

// Update carries a partial parameter change. Nil fields are left as they are.
type Update struct {
	Order       *int
	PreEmphasis *float64
	FrameSize   *int
	SampleRate  *float64
	NumFormants *int
}

// DefaultParams returns the parameters used when none are given.
func DefaultParams() Params {
	return Params{
		Order:       DefaultOrder,
		PreEmphasis: DefaultPreEmphasis,
		FrameSize:   DefaultFrameSize,
		SampleRate:  DefaultSampleRate,
		NumFormants: DefaultNumFormants,
	}
}

// Frame is the per-frame vocal tract bundle.
type Frame struct {
	LPC      Result    `json:"lpc"`
	Areas    []float64 `json:"areas"`    // Order+1 tube sections, glottis first
	LogAreas []float64 `json:"logAreas"` // ln of Areas, floored at AreaFloor
	Formants []float64 `json:"formants"` // ascending (Hz)
}

// Analyzer applies the LPC pipeline with a fixed set of parameters. It has
// no history between frames, but its parameters are mutable: give every
// analysis stream its own Analyzer.
type Analyzer struct {
	params Params
}

// NewAnalyzer creates an analyzer. Out-of-range values are replaced by the
// defaults or clamped and logged, never rejected.
func NewAnalyzer(params Params) *Analyzer {
	return &Analyzer{params: sanitize(params)}
}

// Params returns a copy of the current parameters.
func (a *Analyzer) Params() Params {
	return a.params
}

// UpdateParameters applies the non-nil fields of u.
func (a *Analyzer) UpdateParameters(u Update) {
	p := a.params
	if u.Order != nil {
		p.Order = *u.Order
	}
	if u.PreEmphasis != nil {
		p.PreEmphasis = *u.PreEmphasis
	}
	if u.FrameSize != nil {
		p.FrameSize = *u.FrameSize
	}
	if u.SampleRate != nil {
		p.SampleRate = *u.SampleRate
	}
	if u.NumFormants != nil {
		p.NumFormants = *u.NumFormants
	}
	a.params = sanitize(p)
}

// AnalyzeFrame runs Analyze on frame and derives areas, log areas and
// formants from the result.
func (a *Analyzer) AnalyzeFrame(frame []float64) Frame {
	p := a.params
	result := Analyze(frame, p.Order, p.PreEmphasis)
	areas := ReflectionToArea(result.ReflectionCoefficients)

	if result.Degenerate() {
		applog.Debugf("lpc: degenerate frame, %d of %d stages", result.Stages, result.Order)
	}

	return Frame{
		LPC:      result,
		Areas:    areas,
		LogAreas: AreaToLogArea(areas),
		Formants: EstimateFormants(result.Coefficients, p.SampleRate, p.NumFormants),
	}
}

func sanitize(p Params) Params {
	d := DefaultParams()
	if p.Order <= 0 {
		p.Order = d.Order
	}
	if p.Order > MaxOrder {
		applog.Warnf("lpc: order %d clamped to %d", p.Order, MaxOrder)
		p.Order = MaxOrder
	}
	if p.FrameSize <= 0 {
		p.FrameSize = d.FrameSize
	}
	if p.SampleRate <= 0 {
		p.SampleRate = d.SampleRate
	}
	if p.NumFormants <= 0 {
		p.NumFormants = d.NumFormants
	}
	return p
}
