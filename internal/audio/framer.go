package audio

// DefaultWindowSize matches the capture buffer size the live pipeline uses.
const DefaultWindowSize = 2048

// Frame is one analysis window cut from a longer recording, stamped with
// the time of its center so offline scoring can replay a take as if it were
// live.
type Frame struct {
	Samples []float64
	Time    float64 // seconds, center of the window
}

// SplitFrames cuts samples into consecutive windows of windowSize advancing
// by hopSize samples. A windowSize or hopSize of zero picks
// DefaultWindowSize and non-overlapping hops. The trailing remainder shorter
// than one window is dropped.
func SplitFrames(samples []float64, sampleRate, windowSize, hopSize int) []Frame {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if hopSize <= 0 {
		hopSize = windowSize
	}
	if sampleRate <= 0 || len(samples) < windowSize {
		return nil
	}

	frames := make([]Frame, 0, len(samples)/hopSize+1)
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		center := float64(start) + float64(windowSize)/2
		frames = append(frames, Frame{
			Samples: samples[start : start+windowSize],
			Time:    center / float64(sampleRate),
		})
	}
	return frames
}
