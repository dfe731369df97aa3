package pitch

import (
	"math"
	"testing"
)

func TestSmootherRejectsOctaveJump(t *testing.T) {
	s := NewSmoother(3)

	s.Push(60)
	s.Push(72) // transient octave jump
	got := s.Push(61)

	if got != 61 {
		t.Errorf("Expected median 61, got %f", got)
	}
}

func TestSmootherEvictsOldest(t *testing.T) {
	s := NewSmoother(3)
	s.Push(10)
	s.Push(20)
	s.Push(30)
	got := s.Push(40) // evicts 10; buffer is [20 30 40]

	if got != 30 {
		t.Errorf("Expected median 30 after eviction, got %f", got)
	}
	if s.Len() != 3 {
		t.Errorf("Expected buffer length 3, got %d", s.Len())
	}
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother(3)
	s.Push(60)
	s.Push(62)
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Expected empty buffer after reset, got %d", s.Len())
	}
	if got := s.Push(70); got != 70 {
		t.Errorf("Expected fresh median 70 after reset, got %f", got)
	}
}

func TestCalibratorOffset(t *testing.T) {
	c := NewCalibrator()

	// Singer is consistently half a semitone flat against each tone.
	for _, target := range DefaultReferenceTones {
		c.BeginTone(target)
		for i := 0; i < 6; i++ {
			c.AddSample(target - 0.5)
		}
	}

	offset, err := c.Offset()
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if math.Abs(offset-0.5) > 1e-9 {
		t.Errorf("Expected offset 0.5, got %f", offset)
	}
}

func TestCalibratorMedianIgnoresOutliers(t *testing.T) {
	c := NewCalibrator()
	c.BeginTone(60)
	for _, v := range []float64{59, 59, 59, 59, 71, 72, 59} {
		c.AddSample(v)
	}

	offset, err := c.Offset()
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if offset != 1 {
		t.Errorf("Expected offset 1 (median 59 vs target 60), got %f", offset)
	}
}

func TestCalibratorRounding(t *testing.T) {
	c := NewCalibrator()
	c.BeginTone(60)
	for i := 0; i < 5; i++ {
		c.AddSample(60 - 1.0/3.0)
	}

	offset, err := c.Offset()
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if offset != 0.33 {
		t.Errorf("Expected offset rounded to 0.33, got %f", offset)
	}
}

func TestCalibratorTooFewSamples(t *testing.T) {
	c := NewCalibrator()
	c.BeginTone(60)
	c.AddSample(60)
	c.AddSample(60)

	if _, err := c.Offset(); err == nil {
		t.Error("Expected an error with fewer than 5 samples")
	}
}

func TestCalibratorNoTones(t *testing.T) {
	if _, err := NewCalibrator().Offset(); err != ErrNoTones {
		t.Errorf("Expected ErrNoTones, got %v", err)
	}
}
