package pitch

import (
	"math"

	"github.com/himanishpuri/VocalDNA/internal/dsp"
)

// Tunables for the ACF2+ estimator. The gates are hard cutoffs, not weights:
// a quiet window is "no pitch", full stop.
const (
	DefaultRMSGate       = 0.01
	DefaultTrimThreshold = 0.15

	// The human-voice band applied by DetectVoice. Raw Detect leaves the
	// band check to its caller.
	MinVoiceHz = 50.0
	MaxVoiceHz = 2000.0
)

// Config controls a Detector. Zero values pick the defaults above.
type Config struct {
	RMSGate       float64
	TrimThreshold float64
	// UseFFT switches the autocorrelation to the FFT-based path. Same
	// result, cheaper for large windows.
	UseFFT bool
}

// Detector estimates the fundamental frequency of a monophonic voice signal
// using autocorrelation with parabolic peak refinement. Stateless per call.
type Detector struct {
	cfg Config
}

// New returns a detector with defaults filled in.
func New(cfg Config) *Detector {
	if cfg.RMSGate == 0 {
		cfg.RMSGate = DefaultRMSGate
	}
	if cfg.TrimThreshold == 0 {
		cfg.TrimThreshold = DefaultTrimThreshold
	}
	return &Detector{cfg: cfg}
}

// Detect returns the estimated fundamental frequency of buf in Hz. The
// boolean is false when the window carries no usable pitch: too quiet, too
// short after trimming, or an autocorrelation peak that cannot be refined.
// Samples are expected normalized to [-1, 1].
func (d *Detector) Detect(buf []float64, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || len(buf) < 2 {
		return 0, false
	}
	if dsp.RMS(buf) < d.cfg.RMSGate {
		return 0, false
	}

	// Trim the fringe below the amplitude threshold on both ends; this
	// stabilizes the correlation against clipping-like waveforms.
	n := len(buf)
	r1, r2 := 0, n
	for i := 0; i < n/2; i++ {
		if math.Abs(buf[i]) < d.cfg.TrimThreshold {
			r1 = i
			break
		}
	}
	for i := 1; i < n/2; i++ {
		if math.Abs(buf[n-i]) < d.cfg.TrimThreshold {
			r2 = n - i
			break
		}
	}
	trimmed := buf[r1:r2]
	if len(trimmed) < 2 {
		return 0, false
	}

	var c []float64
	if d.cfg.UseFFT {
		c = dsp.AutocorrelateFFT(trimmed)
	} else {
		c = dsp.Autocorrelate(trimmed)
	}

	// Walk past the zero-lag peak and its descent, then take the global
	// maximum of what remains.
	size := len(c)
	lag := 0
	for lag+1 < size && c[lag] > c[lag+1] {
		lag++
	}
	maxpos, maxval := -1, math.Inf(-1)
	for i := lag; i < size; i++ {
		if c[i] > maxval {
			maxval = c[i]
			maxpos = i
		}
	}
	if maxpos < 1 || maxpos >= size-1 {
		return 0, false
	}

	// Parabolic interpolation around the integer lag refines the period to
	// a fractional sample count.
	t0 := float64(maxpos)
	x1, x2, x3 := c[maxpos-1], c[maxpos], c[maxpos+1]
	a := (x1 + x3 - 2*x2) / 2
	b := (x3 - x1) / 2
	if a != 0 {
		t0 = t0 - b/(2*a)
	}
	if t0 <= 0 {
		return 0, false
	}

	return sampleRate / t0, true
}

// DetectVoice runs Detect and additionally rejects estimates outside the
// human-voice band.
func (d *Detector) DetectVoice(buf []float64, sampleRate float64) (float64, bool) {
	freq, ok := d.Detect(buf, sampleRate)
	if !ok || freq < MinVoiceHz || freq > MaxVoiceHz {
		return 0, false
	}
	return freq, true
}
