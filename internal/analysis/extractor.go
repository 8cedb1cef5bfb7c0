// SPDX-License-Identifier: MIT
/*
Package analysis turns signal frames into feature records.

The Extractor combines time-domain measures (RMS intensity, zero-crossing
rate, autocorrelation pitch), FFT spectral descriptors and the LPC vocal
tract estimate of a frame. It carries two pieces of state: the previous
power spectrum for spectral flux and the parameters of its LPC analyzer.
Use one Extractor per analysis stream.
*/
package analysis

import (
	"vocaltract/internal/buffer"
	"vocaltract/internal/fft"
	applog "vocaltract/internal/log"
	"vocaltract/internal/lpc"
)

// Voicing thresholds.
const (
	SilenceIntensity = 0.02
	VoicedIntensity  = 0.03
	VoicedMaxZCR     = 0.3
)

// LPCSampleRate is the rate frames are resampled to before LPC analysis.
const LPCSampleRate = 8000.0

// Params configures an Extractor.
type Params struct {
	SampleRate  float64 // Hz
	FrameSize   int     // default window for ExtractBatch
	LPCOrder    int
	PreEmphasis float64 // α applied before LPC analysis, 0 disables
}

// Update carries a partial parameter change; nil fields are kept.
type Update struct {
	SampleRate  *float64
	FrameSize   *int
	LPCOrder    *int
	PreEmphasis *float64
}

// DefaultParams returns 44.1 kHz, 2048-sample frames, order 14 and a 0.97
// pre-emphasis.
func DefaultParams() Params {
	return Params{
		SampleRate:  44100,
		FrameSize:   2048,
		LPCOrder:    lpc.DefaultOrder,
		PreEmphasis: lpc.DefaultPreEmphasis,
	}
}

// Extractor computes Features frame by frame.
type Extractor struct {
	params    Params
	analyzer  *lpc.Analyzer
	prevPower []float64 // nil until the first spectrum is seen
}

// NewExtractor creates an extractor. A non-positive sample rate, frame size
// or order falls back to DefaultParams.
func NewExtractor(params Params) *Extractor {
	e := &Extractor{params: sanitize(params)}
	e.analyzer = lpc.NewAnalyzer(e.lpcParams())
	return e
}

// Params returns the current parameters.
func (e *Extractor) Params() Params {
	return e.params
}

// UpdateParameters applies the non-nil fields of u. Flux history is kept.
func (e *Extractor) UpdateParameters(u Update) {
	p := e.params
	if u.SampleRate != nil {
		p.SampleRate = *u.SampleRate
	}
	if u.FrameSize != nil {
		p.FrameSize = *u.FrameSize
	}
	if u.LPCOrder != nil {
		p.LPCOrder = *u.LPCOrder
	}
	if u.PreEmphasis != nil {
		p.PreEmphasis = *u.PreEmphasis
	}
	e.params = sanitize(p)

	lp := e.lpcParams()
	e.analyzer.UpdateParameters(lpc.Update{Order: &lp.Order, FrameSize: &lp.FrameSize, PreEmphasis: &lp.PreEmphasis})
}

// Reset clears the spectral flux history.
func (e *Extractor) Reset() {
	e.prevPower = nil
}

// Extract computes the feature record of frame.
func (e *Extractor) Extract(frame []float64) Features {
	f := Features{
		Intensity:        RMS(frame),
		ZeroCrossingRate: ZeroCrossingRate(frame),
	}

	e.spectral(frame, &f)

	f.FundamentalFrequency = EstimatePitch(frame, e.params.SampleRate)
	f.VoiceQuality = classify(f)

	tract := e.analyzer.AnalyzeFrame(buffer.Resample(frame, e.params.SampleRate, LPCSampleRate))
	f.LPC = tract.LPC
	f.Areas = tract.Areas
	f.LogAreas = tract.LogAreas
	f.Formants = tract.Formants

	return f
}

// ExtractBatch slides a windowSize window by hopSize over signal and
// extracts one record per frame. A non-positive windowSize means FrameSize
// and a non-positive hopSize means half the window.
func (e *Extractor) ExtractBatch(signal []float64, windowSize, hopSize int) []Features {
	if windowSize <= 0 {
		windowSize = e.params.FrameSize
	}
	if hopSize <= 0 {
		hopSize = max(windowSize/2, 1)
	}
	if len(signal) < windowSize {
		return []Features{}
	}

	count := (len(signal)-windowSize)/hopSize + 1
	out := make([]Features, 0, count)
	for i := range count {
		start := i * hopSize
		f := e.Extract(signal[start : start+windowSize])
		f.Time = float64(start) / e.params.SampleRate
		out = append(out, f)
	}
	return out
}

func (e *Extractor) spectral(frame []float64, f *Features) {
	windowed := fft.ZeroPad(fft.ApplyWindow(frame, fft.Hamming))
	power, err := fft.PowerSpectrum(windowed)
	if err != nil {
		applog.Debugf("analysis: spectral features skipped: %v", err)
		return
	}
	freqs := fft.FrequencyBins(len(windowed), e.params.SampleRate)

	f.SpectralCentroid = SpectralCentroid(power, freqs)
	f.SpectralSpread = SpectralSpread(power, freqs, f.SpectralCentroid)
	f.SpectralRolloff = SpectralRolloff(power, freqs)

	if e.prevPower != nil && len(e.prevPower) == len(power) {
		f.SpectralFlux = SpectralFlux(power, e.prevPower)
	}
	e.prevPower = power
}

func classify(f Features) VoiceQuality {
	if f.Intensity < SilenceIntensity {
		return Silent
	}
	if p := f.FundamentalFrequency; p != nil && *p > MinPitch && *p < MaxPitch &&
		f.ZeroCrossingRate < VoicedMaxZCR && f.Intensity > VoicedIntensity {
		return Voiced
	}
	return Unvoiced
}

func (e *Extractor) lpcParams() lpc.Params {
	frameSize := int(float64(e.params.FrameSize) * LPCSampleRate / e.params.SampleRate)
	return lpc.Params{
		Order:       e.params.LPCOrder,
		PreEmphasis: e.params.PreEmphasis,
		FrameSize:   frameSize,
		SampleRate:  LPCSampleRate,
		NumFormants: lpc.DefaultNumFormants,
	}
}

func sanitize(p Params) Params {
	d := DefaultParams()
	if p.SampleRate <= 0 {
		p.SampleRate = d.SampleRate
	}
	if p.FrameSize <= 0 {
		p.FrameSize = d.FrameSize
	}
	if p.LPCOrder <= 0 {
		p.LPCOrder = d.LPCOrder
	}
	return p
}
