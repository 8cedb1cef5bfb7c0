// SPDX-License-Identifier: MIT
package config

import (
	"vocaltract/internal/analysis"
	"vocaltract/internal/buffer"
	"vocaltract/internal/fft"
	applog "vocaltract/internal/log"
)

// Level returns the effective log level. Debug forces LevelDebug.
func (c *Config) Level() applog.LogLevel {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

// WindowFunc returns the configured spectrum window, Blackman if unknown.
func (c *Config) WindowFunc() fft.WindowFunc {
	w, err := fft.ParseWindowFunc(c.Analysis.Window)
	if err != nil {
		return fft.Blackman
	}
	return w
}

// BufferParams returns the parameters of the capture buffer processor.
func (c *Config) BufferParams() buffer.Params {
	return buffer.Params{
		BufferSize: c.Analysis.BufferSize,
		FrameSize:  c.Analysis.FrameSize,
		HopSize:    c.Analysis.HopSize,
		Window:     c.WindowFunc(),
	}
}

// ExtractorParams returns the parameters of the feature extractor.
func (c *Config) ExtractorParams() analysis.Params {
	return analysis.Params{
		SampleRate:  c.Audio.SampleRate,
		FrameSize:   c.Analysis.FrameSize,
		LPCOrder:    c.Analysis.LPCOrder,
		PreEmphasis: c.Analysis.PreEmphasis,
	}
}
