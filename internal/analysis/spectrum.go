// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"sync"

	"vocaltract/internal/fft"
)

// spectrumWorkspace holds the latest spectrum. mu guards both slices.
type spectrumWorkspace struct {
	power []float64
	db    []float64
	mu    sync.RWMutex
}

// SpectrumProcessor turns already-windowed frames into power and dB spectra
// and keeps the most recent result for readers on other goroutines.
type SpectrumProcessor struct {
	fftSize    int
	sampleRate float64
	reference  float64
	workspace  spectrumWorkspace
}

// NewSpectrumProcessor creates a processor for frames of frameSize samples,
// zero-padded to the next power of two. reference is the full-scale
// amplitude for the dB spectrum.
func NewSpectrumProcessor(frameSize int, sampleRate, reference float64) (*SpectrumProcessor, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %d", frameSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}
	if reference <= 0 {
		reference = 1
	}

	fftSize := len(fft.ZeroPad(make([]float64, frameSize)))
	bins := fftSize/2 + 1
	return &SpectrumProcessor{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		reference:  reference,
		workspace: spectrumWorkspace{
			power: make([]float64, bins),
			db:    make([]float64, bins),
		},
	}, nil
}

// Process computes the spectrum of frame. Frames longer than the configured
// size are truncated, shorter ones are zero-padded.
func (p *SpectrumProcessor) Process(frame []float64) error {
	input := make([]float64, p.fftSize)
	copy(input, frame)

	power, err := fft.PowerSpectrum(input)
	if err != nil {
		return err
	}

	p.workspace.mu.Lock()
	defer p.workspace.mu.Unlock()

	ref2 := p.reference * p.reference
	copy(p.workspace.power, power)
	for i, v := range power {
		p.workspace.db[i] = 10 * math.Log10(v/ref2+1e-12)
	}
	return nil
}

// GetPower returns a copy of the latest power spectrum.
func (p *SpectrumProcessor) GetPower() []float64 {
	p.workspace.mu.RLock()
	defer p.workspace.mu.RUnlock()

	out := make([]float64, len(p.workspace.power))
	copy(out, p.workspace.power)
	return out
}

// GetSpectrumDB returns a copy of the latest dB spectrum.
func (p *SpectrumProcessor) GetSpectrumDB() []float64 {
	out := make([]float64, p.GetFFTSize()/2+1)
	_ = p.GetSpectrumDBInto(out)
	return out
}

// GetSpectrumDBInto copies the latest dB spectrum into dst, which must have
// GetFFTSize()/2+1 elements.
func (p *SpectrumProcessor) GetSpectrumDBInto(dst []float64) error {
	p.workspace.mu.RLock()
	defer p.workspace.mu.RUnlock()

	if len(dst) != len(p.workspace.db) {
		return fmt.Errorf("destination slice length %d does not match required length %d", len(dst), len(p.workspace.db))
	}
	copy(dst, p.workspace.db)
	return nil
}

// GetFrequencyForBin returns the center frequency of binIndex, or 0 when the
// index is out of range.
func (p *SpectrumProcessor) GetFrequencyForBin(binIndex int) float64 {
	if binIndex < 0 || binIndex > p.fftSize/2 {
		return 0.0
	}
	return float64(binIndex) * (p.sampleRate / float64(p.fftSize))
}

// GetFFTSize returns the transform length.
func (p *SpectrumProcessor) GetFFTSize() int {
	return p.fftSize
}

// GetSampleRate returns the sample rate (Hz).
func (p *SpectrumProcessor) GetSampleRate() float64 {
	return p.sampleRate
}
