// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"time"

	"vocaltract/internal/analysis"
)

// Transport defines a generic interface for sending processed data or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// Message types carried in the "type" field.
const (
	TypeFeatures = "features"
	TypeSpectrum = "spectrum"
)

// FeaturesMessage wraps one feature record. The record's fields are inlined.
type FeaturesMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	analysis.Features
}

// SpectrumMessage carries the dB spectrum of the latest windowed frame.
type SpectrumMessage struct {
	Type       string                `json:"type"`
	Timestamp  int64                 `json:"timestamp"` // Unix milliseconds
	SampleRate float64               `json:"sampleRate"`
	FFTSize    int                   `json:"fftSize"`
	Frames     int                   `json:"frames"` // windowed frames drained since the last message
	DB         []float64             `json:"db"`
	Bands      []analysis.BandEnergy `json:"bands"`
}

// NewFeaturesMessage stamps f with the current time.
func NewFeaturesMessage(f analysis.Features) FeaturesMessage {
	return FeaturesMessage{Type: TypeFeatures, Timestamp: time.Now().UnixMilli(), Features: f}
}

// Multi fans a message out to every transport.
type Multi []Transport

// Send delivers data to all transports and joins their errors.
func (m Multi) Send(data any) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all transports and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Transport = Multi(nil)
