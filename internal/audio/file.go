// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"vocaltract/internal/analysis"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for streams that are not PCM WAV files.
var ErrInvalidWAV = errors.New("audio: not a valid WAV file")

// DecodeWAV reads a PCM WAV stream and returns its samples downmixed to mono
// and scaled to [-1, 1], together with the sample rate.
func DecodeWAV(r io.ReadSeeker) ([]float64, float64, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("%w: missing format chunk", ErrInvalidWAV)
	}
	if d.BitDepth == 0 {
		return nil, 0, fmt.Errorf("%w: zero bit depth", ErrInvalidWAV)
	}

	channels := buf.Format.NumChannels
	scale := 1 / math.Exp2(float64(d.BitDepth-1))
	offset := 0.0
	if d.BitDepth == 8 {
		offset = 128 // 8-bit PCM is unsigned
	}

	data := buf.AsFloatBuffer().Data
	frames := len(data) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for _, s := range data[i*channels : (i+1)*channels] {
			sum += s - offset
		}
		mono[i] = sum / float64(channels) * scale
	}

	return mono, float64(buf.Format.SampleRate), nil
}

// LoadWAV decodes the WAV file at path. See DecodeWAV.
func LoadWAV(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	samples, rate, err := DecodeWAV(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return samples, rate, nil
}

// AnalyzeFile extracts feature records from a WAV file. The file's sample
// rate replaces params.SampleRate; windowSize and hopSize follow
// Extractor.ExtractBatch.
func AnalyzeFile(path string, params analysis.Params, windowSize, hopSize int) ([]analysis.Features, error) {
	samples, rate, err := LoadWAV(path)
	if err != nil {
		return nil, err
	}

	params.SampleRate = rate
	if windowSize > 0 {
		params.FrameSize = windowSize
	}
	return analysis.NewExtractor(params).ExtractBatch(samples, windowSize, hopSize), nil
}
