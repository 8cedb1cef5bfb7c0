// SPDX-License-Identifier: MIT
/*
Package audio captures live input with PortAudio and drives the analysis
pipeline:
- The capture callback downmixes to mono and writes into the buffer processor
- A poll loop extracts one feature record per tick from the latest frame
- Windowed frames are drained into dB spectra and band energies
- Records are published to transports and offered to a local consumer

Thread Safety:
- The buffer processor is shared between the capture callback and the poll
  loop and is only touched under the engine mutex
- The extractor and spectrum processor belong to the poll loop
- The capture path allocates nothing after construction
*/
package audio

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"vocaltract/internal/analysis"
	"vocaltract/internal/buffer"
	"vocaltract/internal/config"
	applog "vocaltract/internal/log"
	"vocaltract/internal/transport"

	"github.com/gordonklaus/portaudio"
)

// RecordQueueSize is the capacity of the Records channel.
const RecordQueueSize = 16

type Engine struct {
	// Core configuration and state.
	config *config.Config

	// Audio input handling.
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream
	monoBuffer   []float32 // Downmix target, one sample per frame

	// Shared with the capture callback.
	mu        sync.Mutex
	processor *buffer.Processor

	// Owned by the poll loop.
	extractor *analysis.Extractor
	spectrum  *analysis.SpectrumProcessor
	transport transport.Transport
	records   chan analysis.Features
	started   time.Time

	overflows    uint64 // last reported capture buffer overflow count
	overflowWarn *applog.Every

	// Noise gate for publishing.
	gateEnabled   bool
	gateThreshold float32 // Full-scale peak (0-1)
	gateOpened    atomic.Bool

	areasMu sync.RWMutex
	areas   []float64

	// Analysis loop lifecycle, as in the UDP publisher.
	loopMu   sync.Mutex
	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEngine resolves the configured input device and builds the analysis
// pipeline. The engine owns t and closes it in Close; t may be nil.
func NewEngine(cfg *config.Config, t transport.Transport) (*Engine, error) {
	engine, err := newEngine(cfg, t)
	if err != nil {
		return nil, err
	}

	engine.inputDevice, err = InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}
	if cfg.Audio.LowLatency {
		engine.inputLatency = engine.inputDevice.DefaultLowInputLatency
	} else {
		engine.inputLatency = engine.inputDevice.DefaultHighInputLatency
	}

	applog.Infof("Engine: Input device %q, %d channel(s) at %.0f Hz",
		engine.inputDevice.Name, cfg.Audio.InputChannels, cfg.Audio.SampleRate)
	return engine, nil
}

// newEngine builds everything except the PortAudio device.
func newEngine(cfg *config.Config, t transport.Transport) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine: config cannot be nil")
	}
	if t == nil {
		t = transport.Multi(nil)
	}

	processor := buffer.NewProcessor(cfg.BufferParams())
	frameSize := processor.Params().FrameSize

	params := cfg.ExtractorParams()
	params.FrameSize = frameSize

	spectrum, err := analysis.NewSpectrumProcessor(frameSize, cfg.Audio.SampleRate, 1.0)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	engine := &Engine{
		config:     cfg,
		monoBuffer: make([]float32, cfg.Audio.FramesPerBuffer),
		processor:  processor,
		extractor:  analysis.NewExtractor(params),
		spectrum:   spectrum,
		transport:  t,
		records:    make(chan analysis.Features, RecordQueueSize),
		started:    time.Now(),

		overflowWarn: applog.NewEvery(5 * time.Second),
	}
	engine.SetGateThreshold(cfg.Analysis.GateThreshold)
	engine.gateEnabled = cfg.Analysis.GateThreshold > 0
	return engine, nil
}

func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.config.Audio.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: e.config.Audio.FramesPerBuffer,
		SampleRate:      e.config.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	return nil
}

func (e *Engine) StopInputStream() error {
	if e.inputStream != nil {
		if err := e.inputStream.Stop(); err != nil {
			return err
		}

		if err := e.inputStream.Close(); err != nil {
			return err
		}

		e.inputStream = nil
	}

	return nil
}

// processInputStream is the PortAudio capture callback. in is interleaved.
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.Write(downmix(e.monoBuffer, in, e.config.Audio.InputChannels))
}

// Write feeds mono samples into the analysis buffer and updates the gate.
func (e *Engine) Write(samples []float32) {
	if e.gateOpen(samples) {
		e.gateOpened.Store(true)
	}

	e.mu.Lock()
	e.processor.Write(samples)
	e.mu.Unlock()
}

// downmix averages interleaved channels into dst, growing it if needed.
func downmix(dst, in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	if cap(dst) < frames {
		dst = make([]float32, frames)
	}
	dst = dst[:frames]

	scale := 1 / float32(channels)
	for i := range frames {
		var sum float32
		for _, s := range in[i*channels : (i+1)*channels] {
			sum += s
		}
		dst[i] = sum * scale
	}
	return dst
}

// StartAnalysis polls the buffer every interval until StopAnalysis.
// It is safe to call StartAnalysis multiple times.
func (e *Engine) StartAnalysis(interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}

	e.loopMu.Lock()
	if e.ticker != nil {
		e.loopMu.Unlock()
		applog.Warnf("Engine: StartAnalysis called but already running.")
		return
	}
	e.ticker = time.NewTicker(interval)
	e.doneChan = make(chan struct{})
	e.stopOnce = sync.Once{}
	ticker := e.ticker
	doneChan := e.doneChan
	e.loopMu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		applog.Infof("Engine: Analysis loop started (Interval: %s)", interval)
		for {
			select {
			case <-ticker.C:
				e.poll()
			case <-doneChan:
				return
			}
		}
	}()
}

// StopAnalysis stops the poll loop and waits for it to exit.
func (e *Engine) StopAnalysis() {
	e.loopMu.Lock()
	if e.ticker == nil {
		e.loopMu.Unlock()
		return
	}
	e.stopOnce.Do(func() {
		close(e.doneChan)
		e.ticker.Stop()
		e.ticker = nil
	})
	e.loopMu.Unlock()

	e.wg.Wait()
	applog.Infof("Engine: Analysis loop stopped.")
}

// poll runs one analysis step. It reports false when the buffer does not
// yet hold a full frame.
func (e *Engine) poll() (analysis.Features, bool) {
	e.mu.Lock()
	latest := e.processor.GetFrames()
	windowed := e.processor.GetWindowedFrames()
	overflows := e.processor.Buffer().Overflows()
	e.mu.Unlock()

	if overflows > e.overflows {
		e.overflowWarn.Warnf("Engine: Capture buffer dropped %d samples, analysis is falling behind", overflows-e.overflows)
		e.overflows = overflows
	}

	if len(windowed) > 0 {
		if err := e.spectrum.Process(windowed[len(windowed)-1]); err != nil {
			applog.Debugf("Engine: Spectrum skipped: %v", err)
		}
	}
	if len(latest) == 0 {
		return analysis.Features{}, false
	}

	f := e.extractor.Extract(latest[0])
	f.Time = time.Since(e.started).Seconds()
	e.storeAreas(f.Areas)

	if !e.gateEnabled || e.gateOpened.Swap(false) {
		e.publish(f, len(windowed))
	}

	select {
	case e.records <- f:
	default:
	}
	return f, true
}

func (e *Engine) publish(f analysis.Features, frames int) {
	if err := e.transport.Send(transport.NewFeaturesMessage(f)); err != nil {
		applog.Debugf("Engine: Features not sent: %v", err)
	}
	if frames == 0 {
		return
	}

	msg := transport.SpectrumMessage{
		Type:       transport.TypeSpectrum,
		Timestamp:  time.Now().UnixMilli(),
		SampleRate: e.spectrum.GetSampleRate(),
		FFTSize:    e.spectrum.GetFFTSize(),
		Frames:     frames,
		DB:         e.spectrum.GetSpectrumDB(),
		Bands:      analysis.BandEnergies(e.spectrum, analysis.SpeechBands),
	}
	if err := e.transport.Send(msg); err != nil {
		applog.Debugf("Engine: Spectrum not sent: %v", err)
	}
}

func (e *Engine) storeAreas(areas []float64) {
	e.areasMu.Lock()
	e.areas = append(e.areas[:0], areas...)
	e.areasMu.Unlock()
}

// LatestAreas appends the most recent vocal tract areas to dst[:0].
func (e *Engine) LatestAreas(dst []float64) []float64 {
	e.areasMu.RLock()
	defer e.areasMu.RUnlock()
	return append(dst[:0], e.areas...)
}

// Records delivers feature records as they are extracted. Records are
// dropped while the channel is full.
func (e *Engine) Records() <-chan analysis.Features {
	return e.records
}

// Overflows returns the number of samples the capture buffer has discarded.
func (e *Engine) Overflows() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processor.Buffer().Overflows()
}

// Close stops analysis and capture and closes the transport.
func (e *Engine) Close() error {
	e.StopAnalysis()

	if err := e.StopInputStream(); err != nil {
		return err
	}

	return e.transport.Close()
}
