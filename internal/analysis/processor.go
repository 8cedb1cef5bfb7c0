// SPDX-License-Identifier: MIT
package analysis

// FrameExtractor produces a feature record per analysis frame.
type FrameExtractor interface {
	Extract(frame []float64) Features
}

// FrameProcessor consumes windowed analysis frames. Implementations should be
// cheap, as they are called from the engine's poll loop.
type FrameProcessor interface {
	Process(frame []float64) error
}

// SpectrumProvider exposes the latest spectrum computed by a FrameProcessor.
// It decouples consumers such as BandEnergies from the spectrum source.
type SpectrumProvider interface {
	GetPower() []float64                     // copy of the latest power spectrum
	GetFrequencyForBin(binIndex int) float64 // center frequency (Hz) of a bin
	GetFFTSize() int                         // transform length
	GetSampleRate() float64                  // Hz
}

var (
	_ FrameExtractor   = (*Extractor)(nil)
	_ FrameProcessor   = (*SpectrumProcessor)(nil)
	_ SpectrumProvider = (*SpectrumProcessor)(nil)
)
