// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vocaltract/internal/config"
)

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		check   func(*testing.T, *Options)
	}{
		{"live by default", nil, CommandLive, func(t *testing.T, o *Options) {
			if o.Config.TUIMode {
				t.Error("TUI enabled without --tui")
			}
		}},
		{"live with tui", []string{"--tui"}, CommandLive, func(t *testing.T, o *Options) {
			if !o.Config.TUIMode {
				t.Error("--tui not applied")
			}
		}},
		{"list", []string{"list"}, CommandList, func(t *testing.T, o *Options) {
			if o.Pick {
				t.Error("picker enabled without -i")
			}
		}},
		{"list picker", []string{"list", "-i"}, CommandList, func(t *testing.T, o *Options) {
			if !o.Pick {
				t.Error("-i not applied")
			}
		}},
		{"analyze", []string{"analyze", "speech.wav", "--json", "--lpc-order", "10"}, CommandAnalyze, func(t *testing.T, o *Options) {
			if o.File != "speech.wav" || !o.JSON {
				t.Errorf("file = %q, json = %v", o.File, o.JSON)
			}
			if o.Config.Analysis.LPCOrder != 10 {
				t.Errorf("lpc order = %d, want 10", o.Config.Analysis.LPCOrder)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			if opts.Command != tt.command {
				t.Errorf("command = %q, want %q", opts.Command, tt.command)
			}
			tt.check(t, opts)
		})
	}
}

func TestParseArgs_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "audio:\n  sample_rate: 16000\n  input_channels: 2\nanalysis:\n  window: hann\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := ParseArgs([]string{"-f", path, "-s", "48000", "--ws", "--udp-addr", "10.0.0.1:7000"})
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	cfg := opts.Config
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample rate = %f, flag should win", cfg.Audio.SampleRate)
	}
	if cfg.Audio.InputChannels != 2 || cfg.Analysis.Window != "hann" {
		t.Errorf("file values lost: %+v %+v", cfg.Audio, cfg.Analysis)
	}
	if !cfg.Transport.WSEnabled || cfg.Transport.UDPTargetAddress != "10.0.0.1:7000" {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.Analysis.FrameSize != config.DefaultFrameSize {
		t.Errorf("unset flag overrode frame size: %d", cfg.Analysis.FrameSize)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"analyze without file", []string{"analyze"}, "accepts 1 arg"},
		{"unknown window", []string{"--window", "kaiser"}, "analysis.window"},
		{"bad sample rate", []string{"-s", "100"}, "sample_rate"},
		{"missing config file", []string{"-f", "does-not-exist.yaml"}, "does-not-exist.yaml"},
		{"stray argument", []string{"extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseArgs(%v) = %v, want error containing %q", tt.args, err, tt.wantErr)
			}
		})
	}
}
