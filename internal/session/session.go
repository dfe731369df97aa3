package session

import (
	"errors"
	"sync"

	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/pitch"
	"github.com/himanishpuri/VocalDNA/internal/scoring"
)

// Config describes one play session.
type Config struct {
	Song       *chart.Song
	Player     chart.Player // PlayerBoth scores every line
	Difficulty scoring.Difficulty

	// CalibrationOffset is added to every raw MIDI estimate before
	// scoring, as produced by pitch.Calibrator.
	CalibrationOffset float64

	// Detector overrides the default pitch detector when set.
	Detector *pitch.Detector
}

// Session wires one play-through together: the capture producer publishes
// sample windows, the display loop ticks, and the scoring engine accumulates.
// Exactly one driving loop may call Tick; the capture callback only ever
// touches the latest-window slot.
type Session struct {
	mu sync.Mutex

	engine   *scoring.Engine
	detector *pitch.Detector
	smoother *pitch.Smoother
	clock    *Clock
	slot     LatestSlot
	offset   float64

	// last estimate, held between windows so the 60 Hz tick cadence can
	// outpace the capture cadence without losing accumulation
	lastMidi float64
	hasPitch bool

	stopped bool
}

// New builds a session over a parsed song. The song must carry usable
// timing.
func New(cfg Config) (*Session, error) {
	if cfg.Song == nil {
		return nil, errors.New("session: nil song")
	}
	if !cfg.Song.HasTiming() {
		return nil, errors.New("session: chart has no usable BPM, note times unavailable")
	}
	det := cfg.Detector
	if det == nil {
		det = pitch.New(pitch.Config{})
	}
	return &Session{
		engine:   scoring.NewEngine(cfg.Song.Notes(cfg.Player), cfg.Difficulty),
		detector: det,
		smoother: pitch.NewSmoother(pitch.DefaultSmootherSize),
		clock:    NewClock(),
		offset:   cfg.CalibrationOffset,
	}, nil
}

// PushWindow publishes a capture window. Safe to call from the audio
// callback; never blocks. Windows arriving after Stop are dropped.
func (s *Session) PushWindow(samples []float64, sampleRate float64) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}
	s.slot.Publish(&Window{Samples: samples, SampleRate: sampleRate})
}

// Tick advances the session to the given authoritative media time: resync
// the clock, fold in the newest capture window if one arrived, and run one
// scoring update with the current pitch estimate.
func (s *Session) Tick(mediaTime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.clock.Update(mediaTime)
	now := s.clock.Now()

	if w, ok := s.slot.Take(); ok {
		freq, voiced := s.detector.DetectVoice(w.Samples, w.SampleRate)
		if voiced {
			midi := pitch.FreqToMidi(freq) + s.offset
			s.lastMidi = s.smoother.Push(midi)
			s.hasPitch = true
		} else {
			// Silence must not smear into the next vocal onset.
			s.smoother.Reset()
			s.hasPitch = false
		}
	}

	s.engine.Tick(now, s.lastMidi, s.hasPitch)
}

// Estimate returns the current smoothed MIDI estimate, for pitch
// visualizers.
func (s *Session) Estimate() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMidi, s.hasPitch
}

// Engine exposes the scoring state for UI queries (score, feedback, pulse).
func (s *Session) Engine() *scoring.Engine {
	return s.engine
}

// Restart rewinds the session for another attempt at the same song: score,
// per-note accumulators, smoothing history, and the clock all reset.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
	s.smoother.Reset()
	s.clock = NewClock()
	s.slot.Take()
	s.lastMidi = 0
	s.hasPitch = false
	s.stopped = false
}

// Stop ends the session. Idempotent: buffered smoothing state is discarded
// and terminal note grades stay exactly as they were.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.smoother.Reset()
	s.slot.Take()
}

// Finish finalizes every outstanding note and returns the session summary.
func (s *Session) Finish() scoring.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.FinalizeAll()
	return s.engine.Result()
}
