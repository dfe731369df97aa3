package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWavAsFloat64 reads a PCM WAV file and returns mono samples normalized
// to [-1, 1] plus the sample rate. Stereo files are downmixed by averaging
// the channels.
func ReadWavAsFloat64(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading PCM samples: %w", err)
	}

	return normalize(buf)
}

// normalize converts an integer PCM buffer into mono [-1,1] float64 samples.
func normalize(buf *goaudio.IntBuffer) ([]float64, int, error) {
	if buf == nil || buf.Format == nil {
		return nil, 0, errors.New("empty PCM buffer")
	}

	channels := buf.Format.NumChannels
	if channels < 1 || channels > 2 {
		return nil, 0, fmt.Errorf("unsupported channel count %d: only mono/stereo supported", channels)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int(1)<<(uint(bitDepth)-1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	if channels == 1 {
		for i := 0; i < frames; i++ {
			out[i] = float64(buf.Data[i]) * scale
		}
	} else {
		for i := 0; i < frames; i++ {
			l := float64(buf.Data[2*i]) * scale
			r := float64(buf.Data[2*i+1]) * scale
			out[i] = (l + r) * 0.5
		}
	}

	return out, buf.Format.SampleRate, nil
}
