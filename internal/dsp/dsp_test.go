package dsp

import (
	"math"
	"testing"
)

func TestRMS(t *testing.T) {
	buf := make([]float64, 1024)
	for i := range buf {
		buf[i] = 0.5
	}
	if got := RMS(buf); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Expected RMS 0.5, got %f", got)
	}

	if got := RMS(nil); got != 0 {
		t.Errorf("Expected RMS 0 for empty buffer, got %f", got)
	}
}

func TestAutocorrelateFFTMatchesDirect(t *testing.T) {
	buf := make([]float64, 256)
	for i := range buf {
		buf[i] = math.Sin(2*math.Pi*float64(i)/32) + 0.3*math.Sin(2*math.Pi*float64(i)/7)
	}

	direct := Autocorrelate(buf)
	viaFFT := AutocorrelateFFT(buf)

	if len(direct) != len(viaFFT) {
		t.Fatalf("Length mismatch: %d vs %d", len(direct), len(viaFFT))
	}
	for i := range direct {
		if math.Abs(direct[i]-viaFFT[i]) > 1e-6 {
			t.Fatalf("Lag %d: direct %f vs fft %f", i, direct[i], viaFFT[i])
		}
	}
}

func TestHammingWindowShape(t *testing.T) {
	win := Hamming(128)
	if len(win) != 128 {
		t.Fatalf("Expected window length 128, got %d", len(win))
	}
	if win[0] >= win[64] {
		t.Error("Hamming window should be lower at the edges")
	}
}

func TestApplyWindow(t *testing.T) {
	buf := []float64{1, 1, 1, 1}
	win := []float64{0.5, 1, 1, 0.5}
	ApplyWindow(buf, win)
	if buf[0] != 0.5 || buf[3] != 0.5 || buf[1] != 1 {
		t.Errorf("Window not applied in place: %v", buf)
	}
}
