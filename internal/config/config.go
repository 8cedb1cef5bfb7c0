// SPDX-License-Identifier: MIT
package config

import "time"

// Core configuration constants that define the boundaries and defaults
// for the capture and analysis pipeline.
const (
	// Audio device defaults
	DefaultChannels        = 1           // Mono capture
	DefaultDeviceID        = MinDeviceID // System default device
	DefaultFramesPerBuffer = 512         // Capture block size
	DefaultLowLatency      = false       // Standard latency mode
	DefaultSampleRate      = 44100       // CD-quality audio

	// Analysis defaults
	DefaultBufferSize    = 16384
	DefaultFrameSize     = 2048
	DefaultHopSize       = 512
	DefaultLPCOrder      = 14
	DefaultPreEmphasis   = 0.97
	DefaultWindow        = "blackman"
	DefaultPollInterval  = 50 * time.Millisecond // ~20 feature records per second
	DefaultGateThreshold = 0.001                 // Peak amplitude below which nothing is published

	// Transport defaults
	DefaultWSAddress        = ":8080"
	DefaultUDPTargetAddress = "127.0.0.1:9090"
	DefaultUDPSendInterval  = 33 * time.Millisecond // ~30Hz

	DefaultLogLevel = "info"

	// Hardware limits
	MinDeviceID   = -1     // -1 represents system default device
	MinSampleRate = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)
)

// Default returns the built-in configuration used when no file is found.
func Default() Config {
	return Config{
		Debug:    false,
		LogLevel: DefaultLogLevel,
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
			InputChannels:   DefaultChannels,
		},
		Analysis: AnalysisConfig{
			BufferSize:    DefaultBufferSize,
			FrameSize:     DefaultFrameSize,
			HopSize:       DefaultHopSize,
			LPCOrder:      DefaultLPCOrder,
			PreEmphasis:   DefaultPreEmphasis,
			Window:        DefaultWindow,
			PollInterval:  DefaultPollInterval,
			GateThreshold: DefaultGateThreshold,
		},
		Transport: TransportConfig{
			WSEnabled:        false,
			WSAddress:        DefaultWSAddress,
			UDPEnabled:       false,
			UDPTargetAddress: DefaultUDPTargetAddress,
			UDPSendInterval:  DefaultUDPSendInterval,
		},
	}
}
