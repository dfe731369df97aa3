package capture

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAccumulatorEmitsFullWindows(t *testing.T) {
	var got [][]float64
	acc := newAccumulator(4, func(win []float64) {
		got = append(got, win)
	})

	for i := 0; i < 10; i++ {
		acc.push(float64(i))
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 full windows from 10 samples, got %d", len(got))
	}
	if got[0][0] != 0 || got[0][3] != 3 {
		t.Errorf("First window wrong: %v", got[0])
	}
	if got[1][0] != 4 || got[1][3] != 7 {
		t.Errorf("Second window wrong: %v", got[1])
	}
}

func TestAccumulatorWindowsAreIndependentCopies(t *testing.T) {
	var first []float64
	acc := newAccumulator(2, func(win []float64) {
		if first == nil {
			first = win
		}
	})

	acc.push(1)
	acc.push(2)
	acc.push(9)
	acc.push(9)

	if first[0] != 1 || first[1] != 2 {
		t.Errorf("Emitted window was overwritten by later samples: %v", first)
	}
}

func TestPushBytesDecodesFloat32(t *testing.T) {
	var got []float64
	acc := newAccumulator(2, func(win []float64) {
		got = append(got, win...)
	})

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(0.5))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(-0.25))
	acc.pushBytes(buf)

	if len(got) != 2 {
		t.Fatalf("Expected 2 decoded samples, got %d", len(got))
	}
	if math.Abs(got[0]-0.5) > 1e-6 || math.Abs(got[1]+0.25) > 1e-6 {
		t.Errorf("Decoded values wrong: %v", got)
	}
}

func TestPushBytesIgnoresTrailingPartialSample(t *testing.T) {
	var count int
	acc := newAccumulator(1, func([]float64) { count++ })

	buf := make([]byte, 6) // one full float32 plus 2 stray bytes
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(1.0))
	acc.pushBytes(buf)

	if count != 1 {
		t.Errorf("Expected exactly 1 sample decoded, got %d", count)
	}
}
