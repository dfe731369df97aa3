package pitch

import (
	"fmt"
	"math"
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FreqToMidi converts a frequency in Hz to a fractional MIDI note value
// (A4 = 440 Hz = 69).
func FreqToMidi(freq float64) float64 {
	return 69 + 12*math.Log2(freq/440.0)
}

// MidiToFreq converts a MIDI note value back to Hz.
func MidiToFreq(midi float64) float64 {
	return 440.0 * math.Pow(2, (midi-69)/12)
}

// NoteName renders the nearest note for a MIDI value, e.g. 69 -> "A4".
func NoteName(midi float64) string {
	rounded := int(math.Round(midi))
	if rounded < 0 {
		return "--"
	}
	octave := rounded/12 - 1
	return fmt.Sprintf("%s%d", noteNames[rounded%12], octave)
}

// SemitoneDistance is the circular pitch-class distance between two note
// values, ignoring octaves. Singers routinely land an octave off while being
// perceptually in tune, so scoring compares pitch classes.
func SemitoneDistance(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 12)
	return math.Min(diff, 12-diff)
}
