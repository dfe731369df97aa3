package pitch

import "sort"

// DefaultSmootherSize is the history depth of the median smoother. Three
// frames is enough to reject a single-frame octave jump without adding
// noticeable lag.
const DefaultSmootherSize = 3

// Smoother is a short median filter over recent MIDI note values. The median
// (not the mean) rejects transient octave errors outright instead of
// averaging them into the output. Reset whenever "no pitch" occurs so
// silence does not smear into the next vocal onset.
type Smoother struct {
	size int
	vals []float64
}

// NewSmoother returns a median smoother holding up to size values. A size
// below 1 falls back to DefaultSmootherSize.
func NewSmoother(size int) *Smoother {
	if size < 1 {
		size = DefaultSmootherSize
	}
	return &Smoother{size: size, vals: make([]float64, 0, size)}
}

// Push records a new MIDI value, evicting the oldest beyond capacity, and
// returns the median of the buffer.
func (s *Smoother) Push(midi float64) float64 {
	if len(s.vals) == s.size {
		copy(s.vals, s.vals[1:])
		s.vals = s.vals[:len(s.vals)-1]
	}
	s.vals = append(s.vals, midi)

	sorted := make([]float64, len(s.vals))
	copy(sorted, s.vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Reset clears the history.
func (s *Smoother) Reset() {
	s.vals = s.vals[:0]
}

// Len reports how many values are currently buffered.
func (s *Smoother) Len() int {
	return len(s.vals)
}
