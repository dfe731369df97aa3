package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/himanishpuri/VocalDNA/pkg/logger"
)

// DefaultSampleRate is the capture rate requested from the device.
const DefaultSampleRate = 44100

// Recorder captures microphone audio and delivers fixed-size analysis
// windows to a callback. The callback runs on the audio thread and must not
// block; publishing into a session's latest-window slot satisfies that.
type Recorder struct {
	windowSize int
	sampleRate uint32
	log        *logger.Logger

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	acc    *accumulator
}

// NewRecorder initializes the audio backend. windowSize of 0 picks 2048.
func NewRecorder(windowSize int) (*Recorder, error) {
	if windowSize <= 0 {
		windowSize = 2048
	}
	log := logger.GetLogger()
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debugf("audio backend: %s", message)
	})
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}
	return &Recorder{
		windowSize: windowSize,
		sampleRate: DefaultSampleRate,
		log:        log,
		ctx:        ctx,
	}, nil
}

// Start opens the default capture device and begins delivering windows.
// onWindow receives each full window together with the actual capture rate.
func (r *Recorder) Start(onWindow func(samples []float64, sampleRate float64)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device != nil {
		return fmt.Errorf("capture already running")
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = 1
	cfg.SampleRate = r.sampleRate
	cfg.Alsa.NoMMap = 1

	acc := newAccumulator(r.windowSize, func(win []float64) {
		onWindow(win, float64(cfg.SampleRate))
	})

	callbacks := malgo.DeviceCallbacks{
		Data: func(output, input []byte, frameCount uint32) {
			if len(input) == 0 {
				return
			}
			acc.pushBytes(input)
		},
	}

	device, err := malgo.InitDevice(r.ctx.Context, cfg, callbacks)
	if err != nil {
		return fmt.Errorf("initializing capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("starting capture device: %w", err)
	}

	r.device = device
	r.acc = acc
	r.log.Infof("Capture started at %d Hz, window %d", cfg.SampleRate, r.windowSize)
	return nil
}

// Stop halts capture. Idempotent; safe to call whether or not Start
// succeeded.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device != nil {
		_ = r.device.Stop()
		r.device.Uninit()
		r.device = nil
		r.acc = nil
		r.log.Info("Capture stopped")
	}
}

// Close releases the audio backend after Stop.
func (r *Recorder) Close() {
	r.Stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx != nil {
		_ = r.ctx.Uninit()
		r.ctx.Free()
		r.ctx = nil
	}
}

// accumulator regroups the backend's arbitrary-size delivery chunks into
// fixed analysis windows.
type accumulator struct {
	window []float64
	fill   int
	emit   func([]float64)
}

func newAccumulator(size int, emit func([]float64)) *accumulator {
	return &accumulator{window: make([]float64, size), emit: emit}
}

// pushBytes decodes little-endian float32 frames and emits a copy of the
// window each time it fills.
func (a *accumulator) pushBytes(input []byte) {
	for len(input) >= 4 {
		bits := binary.LittleEndian.Uint32(input)
		a.push(float64(math.Float32frombits(bits)))
		input = input[4:]
	}
}

func (a *accumulator) push(v float64) {
	a.window[a.fill] = v
	a.fill++
	if a.fill == len(a.window) {
		out := make([]float64, len(a.window))
		copy(out, a.window)
		a.fill = 0
		a.emit(out)
	}
}
