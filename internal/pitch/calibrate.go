package pitch

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultReferenceTones are the guided-calibration targets: C4, E4, G4 as
// MIDI note values.
var DefaultReferenceTones = []float64{60, 64, 67}

// MinCalibrationSamples is the minimum number of valid pitch samples a
// reference tone must collect before its offset counts.
const MinCalibrationSamples = 5

var (
	// ErrNoTones means Offset was called before any tone was captured.
	ErrNoTones = errors.New("calibration: no reference tones captured")
)

// Calibrator derives a fixed semitone offset from a guided recording against
// known reference tones. Each tone is played for a couple of seconds while
// detected MIDI values are collected; the per-tone median against the target
// gives one offset, and the final calibration is the mean of the per-tone
// offsets rounded to two decimals.
type Calibrator struct {
	tones []toneCapture
}

type toneCapture struct {
	target  float64
	samples []float64
}

// NewCalibrator returns an empty calibrator.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// BeginTone starts collecting samples against a new target MIDI note.
func (c *Calibrator) BeginTone(targetMidi float64) {
	c.tones = append(c.tones, toneCapture{target: targetMidi})
}

// AddSample records one detected MIDI value for the current tone. Calls
// before BeginTone are dropped.
func (c *Calibrator) AddSample(midi float64) {
	if len(c.tones) == 0 {
		return
	}
	cur := &c.tones[len(c.tones)-1]
	cur.samples = append(cur.samples, midi)
}

// Offset computes the final semitone calibration. Every captured tone must
// have collected at least MinCalibrationSamples valid samples.
func (c *Calibrator) Offset() (float64, error) {
	if len(c.tones) == 0 {
		return 0, ErrNoTones
	}

	var sum float64
	for i, tone := range c.tones {
		if len(tone.samples) < MinCalibrationSamples {
			return 0, fmt.Errorf("calibration: tone %d collected %d samples, need %d",
				i+1, len(tone.samples), MinCalibrationSamples)
		}
		sum += tone.target - median(tone.samples)
	}

	offset := sum / float64(len(c.tones))
	return math.Round(offset*100) / 100, nil
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
