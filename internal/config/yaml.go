// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vocaltract/internal/fft"
	applog "vocaltract/internal/log"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Enable debug logging.
	LogLevel  string          `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	Audio     AudioConfig     `yaml:"audio"`     // Capture settings.
	Analysis  AnalysisConfig  `yaml:"analysis"`  // Buffer, framing and feature extraction settings.
	Transport TransportConfig `yaml:"transport"` // Output transports.

	// Runtime-only options set from the command line.
	TUIMode bool `yaml:"-"`
}

// AudioConfig holds settings related to audio input.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index for audio input (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz (e.g., 44100, 48000).
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per capture callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency settings from PortAudio device.
	InputChannels   int     `yaml:"input_channels"`    // Channels to capture, downmixed to mono for analysis.
}

// AnalysisConfig holds the circular buffer, framing and extractor settings.
type AnalysisConfig struct {
	BufferSize    int           `yaml:"buffer_size"`    // Circular buffer capacity in samples.
	FrameSize     int           `yaml:"frame_size"`     // Analysis frame length in samples.
	HopSize       int           `yaml:"hop_size"`       // Hop between windowed frames in samples.
	LPCOrder      int           `yaml:"lpc_order"`      // Predictor order.
	PreEmphasis   float64       `yaml:"pre_emphasis"`   // Pre-emphasis coefficient before LPC.
	Window        string        `yaml:"window"`         // Window for spectrum frames (e.g., "blackman", "hann").
	PollInterval  time.Duration `yaml:"poll_interval"`  // Interval between feature extractions.
	GateThreshold float64       `yaml:"gate_threshold"` // Peak amplitude (0..1) below which frames are not published.
}

// TransportConfig holds settings related to sending processed data over the network.
type TransportConfig struct {
	WSEnabled        bool          `yaml:"ws_enabled"`         // Serve feature and spectrum messages over WebSocket.
	WSAddress        string        `yaml:"ws_address"`         // Listen address for the WebSocket server (e.g., ":8080").
	UDPEnabled       bool          `yaml:"udp_enabled"`        // Enable sending vocal tract areas over UDP.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target address and port for UDP packets (e.g., "127.0.0.1:9090").
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`  // Interval between sending UDP packets.
}

// searchPaths are tried in order when LoadConfig is given an empty path.
var searchPaths = []string{"config.yaml"}

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it searches default locations ("config.yaml"). If no file is found, it uses built-in
// defaults. After loading defaults or from file, it applies environment variable
// overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range searchPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with. Sizes are not
// checked here since the buffer processor clamps them.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level '%s' is not a known level", c.LogLevel))
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Errorf("audio.sample_rate %.0f outside [%d, %d]", c.Audio.SampleRate, MinSampleRate, MaxSampleRate))
	}
	if c.Audio.InputChannels < 1 {
		errs = append(errs, fmt.Errorf("audio.input_channels must be at least 1, got %d", c.Audio.InputChannels))
	}
	if c.Audio.InputDevice < MinDeviceID {
		errs = append(errs, fmt.Errorf("audio.input_device %d is invalid", c.Audio.InputDevice))
	}
	if _, err := fft.ParseWindowFunc(c.Analysis.Window); err != nil {
		errs = append(errs, fmt.Errorf("analysis.window: %w", err))
	}
	if c.Analysis.PollInterval <= 0 {
		errs = append(errs, errors.New("analysis.poll_interval must be positive"))
	}
	if c.Analysis.GateThreshold < 0 || c.Analysis.GateThreshold > 1 {
		errs = append(errs, fmt.Errorf("analysis.gate_threshold %f outside [0, 1]", c.Analysis.GateThreshold))
	}

	if c.Transport.UDPEnabled {
		if c.Transport.UDPTargetAddress == "" {
			errs = append(errs, errors.New("transport.udp_target_address must be set when UDP is enabled"))
		} else if !strings.Contains(c.Transport.UDPTargetAddress, ":") {
			errs = append(errs, fmt.Errorf("transport.udp_target_address '%s' appears invalid (missing port?)", c.Transport.UDPTargetAddress))
		}
		if c.Transport.UDPSendInterval <= 0 {
			errs = append(errs, errors.New("transport.udp_send_interval must be positive when UDP is enabled"))
		}
	}
	if c.Transport.WSEnabled && c.Transport.WSAddress == "" {
		errs = append(errs, errors.New("transport.ws_address must be set when WebSocket is enabled"))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides replaces file values with ENV_* variables when they are
// set and parse. Unparseable values are logged and ignored.
func (cfg *Config) applyEnvOverrides() {
	// ENV_DEBUG
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = bVal
			applog.Infof("configuration: Overriding debug from env: %v", bVal)
		} else {
			applog.Warnf("configuration: Ignoring ENV_DEBUG=%q: %v", val, err)
		}
	}
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		cfg.LogLevel = val
		applog.Infof("configuration: Overriding log_level from env: %s", val)
	}

	// ENV_SAMPLE_RATE
	if val, ok := os.LookupEnv("ENV_SAMPLE_RATE"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Audio.SampleRate = fVal
			applog.Infof("configuration: Overriding audio.sample_rate from env: %.0f", fVal)
		} else {
			applog.Warnf("configuration: Ignoring ENV_SAMPLE_RATE=%q: %v", val, err)
		}
	}

	// ENV_WS_{...}
	if val, ok := os.LookupEnv("ENV_WS_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Transport.WSEnabled = bVal
			applog.Infof("configuration: Overriding transport.ws_enabled from env: %v", bVal)
		} else {
			applog.Warnf("configuration: Ignoring ENV_WS_ENABLED=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("ENV_WS_ADDRESS"); ok {
		cfg.Transport.WSAddress = val
		applog.Infof("configuration: Overriding transport.ws_address from env: %s", val)
	}

	// ENV_UDP_{...}
	if val, ok := os.LookupEnv("ENV_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Transport.UDPEnabled = bVal
			applog.Infof("configuration: Overriding transport.udp_enabled from env: %v", bVal)
		} else {
			applog.Warnf("configuration: Ignoring ENV_UDP_ENABLED=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("ENV_UDP_TARGET_ADDRESS"); ok {
		cfg.Transport.UDPTargetAddress = val
		applog.Infof("configuration: Overriding transport.udp_target_address from env: %s", val)
	}
	if val, ok := os.LookupEnv("ENV_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			cfg.Transport.UDPSendInterval = dur
			applog.Infof("configuration: Overriding transport.udp_send_interval from env: %s", dur)
		} else {
			applog.Warnf("configuration: Ignoring ENV_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}
}
