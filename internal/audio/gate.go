// SPDX-License-Identifier: MIT
package audio

import "math"

func (e *Engine) EnableGate() {
	e.gateEnabled = true
}

func (e *Engine) DisableGate() {
	e.gateEnabled = false
}

// SetGateThreshold adjusts the noise gate threshold.
// The value is a full-scale peak in the range 0.0-1.0 where 0=always open, 1=always closed.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0.0 {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}

	e.gateThreshold = float32(threshold)
}

// GetGateThreshold returns the current noise gate threshold as a float64.
func (e *Engine) GetGateThreshold() float64 {
	return float64(e.gateThreshold)
}

// gateOpen reports whether buffer should reach the analysis buffer.
func (e *Engine) gateOpen(buffer []float32) bool {
	if !e.gateEnabled {
		return true
	}
	return peakAmplitude(buffer) > e.gateThreshold
}

// peakAmplitude returns max |s| over buffer without branching. The bit
// patterns of non-negative float32 values order the same way as the values,
// so the maximum is taken on the sign-cleared bits as int32.
func peakAmplitude(buffer []float32) float32 {
	var maxBits int32
	for _, sample := range buffer {
		bits := int32(math.Float32bits(sample) & 0x7fffffff)
		diff := bits - maxBits
		maxBits += (diff & (diff >> 31)) ^ diff
	}
	return math.Float32frombits(uint32(maxBits))
}
