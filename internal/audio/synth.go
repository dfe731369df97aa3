package audio

import "math"

// SineTone synthesizes a pure tone, normalized to [-1, 1] times amp. Used
// for the guided-calibration reference tones and as a deterministic test
// signal.
func SineTone(freq, amp float64, sampleRate, n int) []float64 {
	buf := make([]float64, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range buf {
		buf[i] = amp * math.Sin(step*float64(i))
	}
	return buf
}

// SineToneSeconds synthesizes duration seconds of a pure tone.
func SineToneSeconds(freq, amp float64, sampleRate int, duration float64) []float64 {
	return SineTone(freq, amp, sampleRate, int(duration*float64(sampleRate)))
}
