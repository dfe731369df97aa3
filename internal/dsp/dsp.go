package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// RMS returns the root-mean-square level of the buffer.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// Autocorrelate computes the unnormalized autocorrelation
// c[i] = sum_j buf[j]*buf[j+i] for i in [0, len(buf)) using the direct
// time-domain sum. Quadratic, but fine for single analysis windows.
func Autocorrelate(buf []float64) []float64 {
	n := len(buf)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j+i < n; j++ {
			sum += buf[j] * buf[j+i]
		}
		c[i] = sum
	}
	return c
}

// AutocorrelateFFT computes the same autocorrelation through the power
// spectrum (Wiener–Khinchin). Zero-padding to 2n keeps the result linear
// rather than circular. Equivalent to Autocorrelate up to float rounding.
func AutocorrelateFFT(buf []float64) []float64 {
	n := len(buf)
	if n == 0 {
		return nil
	}
	padded := make([]float64, 2*n)
	copy(padded, buf)

	spec := fft.FFTReal(padded)
	for i, v := range spec {
		re := real(v)
		im := imag(v)
		spec[i] = complex(re*re+im*im, 0)
	}
	inv := fft.IFFT(spec)

	c := make([]float64, n)
	for i := 0; i < n; i++ {
		c[i] = real(inv[i])
	}
	return c
}

// Hamming returns a Hamming window of length n.
func Hamming(n int) []float64 {
	return window.Hamming(n)
}

// ApplyWindow multiplies buf by win in place. The two must have equal length.
func ApplyWindow(buf, win []float64) {
	for i := range buf {
		buf[i] *= win[i]
	}
}
