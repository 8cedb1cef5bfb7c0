// SPDX-License-Identifier: MIT
package buffer

import (
	"math"

	"vocaltract/internal/fft"
	applog "vocaltract/internal/log"
	"vocaltract/internal/lpc"
)

// Valid processor ranges. Out-of-range values are clamped, not rejected.
const (
	MinBufferSize = 2048
	MaxBufferSize = 65536
	MinFrameSize  = 256
	MaxFrameSize  = 4096
	MinHopSize    = 128
)

// Params configures a Processor.
type Params struct {
	BufferSize int
	FrameSize  int
	HopSize    int
	Window     fft.WindowFunc
}

// DefaultParams returns a 16384-sample ring with 2048-sample frames, a
// 512-sample hop and a Blackman window.
func DefaultParams() Params {
	return Params{
		BufferSize: 16384,
		FrameSize:  2048,
		HopSize:    512,
		Window:     fft.Blackman,
	}
}

// Processor frames the contents of a Circular for analysis.
type Processor struct {
	ring    *Circular
	params  Params
	window  []float64
	scratch []float32
}

// NewProcessor clamps params into the valid ranges and allocates the ring.
func NewProcessor(params Params) *Processor {
	params.BufferSize = clampInt("buffer size", params.BufferSize, MinBufferSize, MaxBufferSize)
	params.FrameSize = clampInt("frame size", params.FrameSize, MinFrameSize, MaxFrameSize)
	params.HopSize = clampInt("hop size", params.HopSize, MinHopSize, params.FrameSize)

	ring := NewCircular(params.BufferSize)
	params.BufferSize = ring.Capacity()

	return &Processor{
		ring:    ring,
		params:  params,
		window:  fft.Window(params.FrameSize, params.Window),
		scratch: make([]float32, params.FrameSize),
	}
}

// Params returns the effective (clamped) parameters.
func (p *Processor) Params() Params {
	return p.params
}

// Buffer exposes the underlying ring.
func (p *Processor) Buffer() *Circular {
	return p.ring
}

// SetWindow replaces the window used by GetWindowedFrames.
func (p *Processor) SetWindow(w fft.WindowFunc) {
	p.params.Window = w
	p.window = fft.Window(p.params.FrameSize, w)
}

// Write appends captured samples to the ring.
func (p *Processor) Write(samples []float32) {
	p.ring.Write(samples)
}

// Clear empties the ring.
func (p *Processor) Clear() {
	p.ring.Clear()
}

// GetFrames returns the most recent FrameSize samples as a single raw
// frame, or nothing if fewer than FrameSize samples have been written since
// the last Clear. Samples already consumed by GetWindowedFrames still count,
// so polling faster than capture repeats the latest frame. The read cursor
// does not move.
func (p *Processor) GetFrames() [][]float64 {
	if p.ring.Written() < p.params.FrameSize {
		return nil
	}
	p.ring.PeekInto(p.scratch, 0)
	return [][]float64{toFloat64(p.scratch)}
}

// GetWindowedFrames drains the ring: while at least FrameSize samples are
// unread it emits the windowed frame starting at the read cursor and then
// advances the cursor by HopSize.
func (p *Processor) GetWindowedFrames() [][]float64 {
	var frames [][]float64
	for {
		avail := p.ring.Available()
		if avail < p.params.FrameSize {
			return frames
		}
		p.ring.PeekInto(p.scratch, avail-p.params.FrameSize)
		frame := toFloat64(p.scratch)
		for i := range frame {
			frame[i] *= p.window[i]
		}
		frames = append(frames, frame)
		p.ring.Skip(p.params.HopSize)
	}
}

// HammingWindow returns n Hamming coefficients.
func HammingWindow(n int) []float64 {
	return fft.Window(n, fft.Hamming)
}

// HannWindow returns n Hann coefficients.
func HannWindow(n int) []float64 {
	return fft.Window(n, fft.Hann)
}

// PreEmphasis applies the one-pole filter y[n] = x[n] − α·x[n−1].
func PreEmphasis(signal []float64, alpha float64) []float64 {
	return lpc.PreEmphasis(signal, alpha)
}

// Resample converts signal between sample rates by linear interpolation.
// The output has ⌊len·target/source⌋ samples; positions past the last
// interpolatable index repeat the final input sample.
func Resample(signal []float64, sourceRate, targetRate float64) []float64 {
	if len(signal) == 0 || sourceRate <= 0 || targetRate <= 0 {
		return []float64{}
	}
	ratio := targetRate / sourceRate
	out := make([]float64, int(math.Floor(float64(len(signal))*ratio)))
	last := len(signal) - 1
	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= last {
			out[i] = signal[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = signal[idx]*(1-frac) + signal[idx+1]*frac
	}
	return out
}

func toFloat64(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

func clampInt(name string, v, lo, hi int) int {
	switch {
	case v < lo:
		applog.Warnf("buffer: %s %d raised to %d", name, v, lo)
		return lo
	case v > hi:
		applog.Warnf("buffer: %s %d lowered to %d", name, v, hi)
		return hi
	}
	return v
}
