// SPDX-License-Identifier: MIT
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"vocaltract/cmd"
	"vocaltract/internal/analysis"
	"vocaltract/internal/audio"
	"vocaltract/internal/config"
	applog "vocaltract/internal/log"
	"vocaltract/internal/transport"
	"vocaltract/internal/transport/udp"
	"vocaltract/internal/tui"
	"vocaltract/pkg/build"
)

// main is the entry point for the vocal tract analyser.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and configuration
//   - Execute one-off commands (list, analyze)
//   - Initialize PortAudio
//
// 2. Concurrent Phase (Hot Path):
//   - Start the capture stream feeding the analysis buffer
//   - Start the analysis loop and the UDP publisher
//   - Run the terminal meter or wait for a signal
//
// 3. Shutdown Phase (Cold Path):
//   - Stop publisher, analysis loop and capture
//   - Close transports
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	if err := build.Initialize(); err != nil {
		applog.Debugf("Build: %v, using development build info", err)
	}

	// One thread for the capture callback, one for analysis and I/O.
	runtime.GOMAXPROCS(2)

	opts, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if opts == nil {
		return // --help or --version
	}
	applog.SetLevel(opts.Config.Level())

	if opts.Command == cmd.CommandAnalyze {
		if err := analyzeFile(os.Stdout, opts); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	if err := audio.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer audio.Terminate()

	if opts.Command == cmd.CommandList {
		if !opts.Pick {
			if err := audio.ListDevices(os.Stdout); err != nil {
				applog.Fatalf("%v", err)
			}
			return
		}
		sel, err := tui.PickDevice(audio.HostDevices)
		if err != nil {
			applog.Fatalf("%v", err)
		}
		if sel == nil {
			return
		}
		opts.Config.Audio.InputDevice = sel.Device.ID
		opts.Config.Audio.SampleRate = sel.SampleRate
		opts.Config.TUIMode = true
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	if err := runLive(opts.Config); err != nil {
		applog.Errorf("%v", err)
		audio.Terminate()
		os.Exit(1)
	}
}

// runLive captures from the configured device until interrupted.
func runLive(cfg *config.Config) error {
	// The TUI owns the terminal; keep log lines off it.
	if cfg.TUIMode {
		applog.SetOutput(io.Discard)
	}

	var transports transport.Multi
	if cfg.Transport.WSEnabled {
		transports = append(transports, transport.NewWebSocketTransport(cfg.Transport.WSAddress))
	}
	if cfg.Debug {
		transports = append(transports, transport.NewLoggingTransport())
	}

	engine, err := audio.NewEngine(cfg, transports)
	if err != nil {
		transports.Close()
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			applog.Errorf("Error closing audio engine: %v", err)
		}
	}()

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return err
		}
		defer sender.Close()

		publisher, err := udp.NewUDPPublisher(cfg.Transport.UDPSendInterval, sender, engine)
		if err != nil {
			return err
		}
		publisher.Start()
		defer publisher.Stop()
	}

	// CRITICAL: Start of real-time audio processing.
	if err := engine.StartInputStream(); err != nil {
		return err
	}
	engine.StartAnalysis(cfg.Analysis.PollInterval)

	if cfg.TUIMode {
		return tui.RunMeter(engine.Records())
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	applog.Infof("Analysing input, press Ctrl+C to stop. '%s --help' for usage information.", build.GetBuildFlags().Name)

	// Block until termination signal is received
	<-done

	// ==================== SHUTDOWN PHASE (Cold Path) ====================
	applog.Infof("Shutting down (%d samples dropped by the capture buffer)", engine.Overflows())
	return nil
}

// analyzeFile prints one line per frame of the WAV file named in opts.
func analyzeFile(w io.Writer, opts *cmd.Options) error {
	cfg := opts.Config
	records, err := audio.AnalyzeFile(opts.File, cfg.ExtractorParams(), cfg.Analysis.FrameSize, cfg.Analysis.HopSize)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range records {
		fmt.Fprintln(w, formatRecord(r))
	}
	return nil
}

func formatRecord(r analysis.Features) string {
	pitch := "    -   "
	if r.FundamentalFrequency != nil {
		pitch = fmt.Sprintf("%5.1f Hz", *r.FundamentalFrequency)
	}
	formants := make([]string, len(r.Formants))
	for i, f := range r.Formants {
		formants[i] = fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%8.3fs  %-8s  f0 %s  rms %.3f  zcr %.3f  centroid %6.0f Hz  formants [%s]",
		r.Time, r.VoiceQuality, pitch, r.Intensity, r.ZeroCrossingRate, r.SpectralCentroid,
		strings.Join(formants, " "))
}
