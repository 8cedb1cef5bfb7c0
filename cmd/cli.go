// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"

	"vocaltract/internal/config"
	"vocaltract/pkg/build"

	"github.com/spf13/cobra"
)

// Commands selected by ParseArgs.
const (
	CommandLive    = ""
	CommandList    = "list"
	CommandAnalyze = "analyze"
)

// Options is the parsed command line: the effective configuration plus the
// command to run and its arguments.
type Options struct {
	Config  *config.Config
	Command string
	File    string // analyze: WAV input
	JSON    bool   // analyze: one JSON record per line
	Pick    bool   // list: interactive device picker
}

// flagValues receives the raw flag values. Only flags set on the command
// line override the configuration file.
type flagValues struct {
	configPath      string
	deviceID        int
	channels        int
	sampleRate      float64
	framesPerBuffer int
	lowLatency      bool
	verbose         bool
	logLevel        string

	frameSize int
	hopSize   int
	lpcOrder  int
	window    string
	gate      float64

	tui     bool
	ws      bool
	wsAddr  string
	udp     bool
	udpAddr string
}

type changedSet interface {
	Changed(name string) bool
}

func override[T any](fs changedSet, name string, dst *T, v T) {
	if fs.Changed(name) {
		*dst = v
	}
}

// ParseArgs parses args (without the program name) into Options.
func ParseArgs(args []string) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{}
	var f flagValues

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), cfg, &f)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			options.Config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandLive
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandList
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&options.Pick, "pick", "i", false,
		"Choose an input device interactively and start live analysis with it")
	rootCmd.AddCommand(listCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Extract features from a WAV file, one record per frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandAnalyze
			options.File = args[0]
			return nil
		},
	}
	analyzeCmd.Flags().BoolVar(&options.JSON, "json", false, "Print records as JSON lines")
	rootCmd.AddCommand(analyzeCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "f", "",
		"Configuration file (default: ./config.yaml if present)")

	// Audio Device Configuration
	pf.IntVarP(&f.deviceID, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	pf.IntVarP(&f.channels, "channels", "c", config.DefaultChannels,
		"Number of input channels, downmixed to mono")
	pf.Float64VarP(&f.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&f.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per buffer (affects latency)")
	pf.BoolVarP(&f.lowLatency, "low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")

	// Analysis Configuration
	pf.IntVar(&f.frameSize, "frame-size", config.DefaultFrameSize, "Analysis frame length in samples")
	pf.IntVar(&f.hopSize, "hop-size", config.DefaultHopSize, "Hop between frames in samples")
	pf.IntVar(&f.lpcOrder, "lpc-order", config.DefaultLPCOrder, "LPC predictor order")
	pf.StringVar(&f.window, "window", config.DefaultWindow, "Spectrum window (rectangular, hamming, hann, blackman, ...)")
	pf.Float64Var(&f.gate, "gate", config.DefaultGateThreshold, "Publishing gate threshold, peak amplitude 0..1 (0 disables)")

	// Output Configuration
	rootCmd.Flags().BoolVarP(&f.tui, "tui", "t", false, "Show the live terminal meter")
	rootCmd.Flags().BoolVar(&f.ws, "ws", false, "Serve features and spectra over WebSocket")
	rootCmd.Flags().StringVar(&f.wsAddr, "ws-addr", config.DefaultWSAddress, "WebSocket listen address")
	rootCmd.Flags().BoolVar(&f.udp, "udp", false, "Send vocal tract areas over UDP")
	rootCmd.Flags().StringVar(&f.udpAddr, "udp-addr", config.DefaultUDPTargetAddress, "UDP target address")

	// Debug Configuration
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Show verbose output")
	pf.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	// --help and --version return without running a command.
	if options.Config == nil {
		return nil, nil
	}

	return options, nil
}

func applyFlags(fs changedSet, cfg *config.Config, f *flagValues) {
	override(fs, "device", &cfg.Audio.InputDevice, f.deviceID)
	override(fs, "channels", &cfg.Audio.InputChannels, f.channels)
	override(fs, "sample-rate", &cfg.Audio.SampleRate, f.sampleRate)
	override(fs, "frames-per-buffer", &cfg.Audio.FramesPerBuffer, f.framesPerBuffer)
	override(fs, "low-latency", &cfg.Audio.LowLatency, f.lowLatency)

	override(fs, "frame-size", &cfg.Analysis.FrameSize, f.frameSize)
	override(fs, "hop-size", &cfg.Analysis.HopSize, f.hopSize)
	override(fs, "lpc-order", &cfg.Analysis.LPCOrder, f.lpcOrder)
	override(fs, "window", &cfg.Analysis.Window, f.window)
	override(fs, "gate", &cfg.Analysis.GateThreshold, f.gate)

	override(fs, "ws", &cfg.Transport.WSEnabled, f.ws)
	override(fs, "ws-addr", &cfg.Transport.WSAddress, f.wsAddr)
	override(fs, "udp", &cfg.Transport.UDPEnabled, f.udp)
	override(fs, "udp-addr", &cfg.Transport.UDPTargetAddress, f.udpAddr)

	override(fs, "verbose", &cfg.Debug, f.verbose)
	override(fs, "log-level", &cfg.LogLevel, f.logLevel)
	cfg.TUIMode = f.tui
}
