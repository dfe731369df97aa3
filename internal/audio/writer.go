package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWavFloat64 writes mono [-1,1] samples as a 16-bit PCM WAV file.
// Used to persist synthesized reference tones and by tests that need real
// files on disk.
func WriteWavFloat64(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitDepth = 16
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)

	data := make([]int, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		data[i] = int(v * 32767)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding WAV: %w", err)
	}
	return enc.Close()
}
