// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"vocaltract/internal/lpc"
)

// VoiceQuality is the tri-state voicing decision for a frame.
type VoiceQuality int

const (
	Silent VoiceQuality = iota
	Unvoiced
	Voiced
)

var voiceQualityNames = map[VoiceQuality]string{
	Silent:   "silent",
	Unvoiced: "unvoiced",
	Voiced:   "voiced",
}

func (q VoiceQuality) String() string {
	if name, ok := voiceQualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("VoiceQuality(%d)", int(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q VoiceQuality) MarshalText() ([]byte, error) {
	name, ok := voiceQualityNames[q]
	if !ok {
		return nil, fmt.Errorf("invalid voice quality %d", int(q))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *VoiceQuality) UnmarshalText(text []byte) error {
	for v, name := range voiceQualityNames {
		if name == string(text) {
			*q = v
			return nil
		}
	}
	return fmt.Errorf("unknown voice quality %q", text)
}

// Features is the per-frame feature record.
type Features struct {
	// Time is the frame start in seconds. Only ExtractBatch sets it.
	Time float64 `json:"time"`

	FundamentalFrequency *float64     `json:"fundamentalFrequency"` // nil when unvoiced or undetermined
	Intensity            float64      `json:"intensity"`            // RMS
	VoiceQuality         VoiceQuality `json:"voiceQuality"`
	ZeroCrossingRate     float64      `json:"zeroCrossingRate"`

	SpectralCentroid float64 `json:"spectralCentroid"` // Hz
	SpectralSpread   float64 `json:"spectralSpread"`   // Hz
	SpectralFlux     float64 `json:"spectralFlux"`
	SpectralRolloff  float64 `json:"spectralRolloff"` // Hz

	Formants []float64  `json:"formants"` // ascending, Hz
	LPC      lpc.Result `json:"lpc"`
	Areas    []float64  `json:"areas"`
	LogAreas []float64  `json:"logAreas"`
}
