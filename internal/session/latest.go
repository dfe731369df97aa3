package session

import "sync/atomic"

// Window is one fixed-size block of captured samples.
type Window struct {
	Samples    []float64
	SampleRate float64
}

// LatestSlot is the produce/consume boundary between the audio-capture
// callback and the scoring tick. Only the newest window matters, so a single
// mutable slot replaces a queue: the producer overwrites, the consumer takes
// and clears. Neither side ever blocks.
type LatestSlot struct {
	v atomic.Pointer[Window]
}

// Publish stores a window, discarding any unconsumed predecessor.
func (s *LatestSlot) Publish(w *Window) {
	s.v.Store(w)
}

// Take removes and returns the latest window, or reports false when no new
// window arrived since the last Take.
func (s *LatestSlot) Take() (*Window, bool) {
	w := s.v.Swap(nil)
	return w, w != nil
}
