// Package utils holds deterministic signal generators and small helpers
// shared by the tests of the analysis packages.
package utils

import (
	"math"
	"math/rand"
	"sync"
)

// MockTransport records every message it is asked to send.
type MockTransport struct {
	mu       sync.Mutex
	Messages []any
	Closed   bool
}

// Send stores the message for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, data)
	return nil
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockTransport) Sent() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// GenerateSineWave returns size samples of amplitude·sin(2πft).
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// GenerateTones returns the sum of unit-phase sinusoids at the given
// frequencies, each scaled by the matching amplitude.
func GenerateTones(size int, sampleRate float64, frequencies, amplitudes []float64) []float64 {
	buffer := make([]float64, size)
	for k, f := range frequencies {
		a := 1.0
		if k < len(amplitudes) {
			a = amplitudes[k]
		}
		for i := range buffer {
			buffer[i] += a * math.Sin(2*math.Pi*f*float64(i)/sampleRate)
		}
	}
	return buffer
}

// GenerateBinSine returns a cosine completing exactly bin cycles over size
// samples, so all of its energy falls in a single FFT bin.
func GenerateBinSine(size, bin int) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = math.Cos(2 * math.Pi * float64(bin) * float64(i) / float64(size))
	}
	return buffer
}

// GenerateNoise returns uniform noise in [-amplitude, amplitude) from a
// fixed seed so tests stay reproducible.
func GenerateNoise(size int, amplitude float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = amplitude * (2*rng.Float64() - 1)
	}
	return buffer
}

// Constant returns size copies of v.
func Constant(size int, v float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = v
	}
	return buffer
}

// Impulse returns a unit impulse at index 0.
func Impulse(size int) []float64 {
	buffer := make([]float64, size)
	if size > 0 {
		buffer[0] = 1
	}
	return buffer
}

// Add returns the element-wise sum of a and b over the shorter length.
func Add(a, b []float64) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := range n {
		out[i] = a[i] + b[i]
	}
	return out
}

// ToFloat32 converts samples to the capture format.
func ToFloat32(samples []float64) []float32 {
	out := make([]float32, len(samples))
	for i, v := range samples {
		out[i] = float32(v)
	}
	return out
}

// FindPeakBin returns the index of the largest value in [startBin, endBin].
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
