// Renders spectrogram PNGs for recorded takes, handy for eyeballing why a
// take scored the way it did.
//
//	go run make-spectrogram.go take.wav [more.wav ...]
package main

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"

	"github.com/eligwz/spectrogram"

	"github.com/himanishpuri/VocalDNA/internal/audio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run make-spectrogram.go <take.wav> [more.wav ...]")
		os.Exit(1)
	}

	outputDir := "spectrograms"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal(err)
	}

	for _, path := range os.Args[1:] {
		fmt.Printf("Processing %s...\n", path)

		samples, sampleRate, err := audio.ReadWavAsFloat64(path)
		if err != nil {
			log.Printf("Error reading %s: %v", path, err)
			continue
		}
		fmt.Printf("Read %d samples at %d Hz\n", len(samples), sampleRate)

		width := 2048
		height := 512
		img := spectrogram.NewImage128(image.Rect(0, 0, width, height))

		// Black background first
		black := spectrogram.ParseColor("000000")
		draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

		// FFT with a Hamming window, linear magnitude scale
		spectrogram.Drawfft(
			img,
			samples,
			uint32(sampleRate),
			uint32(height), // bins
			false,          // RECTANGLE (use Hamming window)
			false,          // DFT (use FFT instead)
			true,           // MAG (magnitude)
			false,          // LOG10 (linear scale)
		)

		outputPath := filepath.Join(outputDir, filepath.Base(path)+".png")
		if err := spectrogram.SavePng(img, outputPath); err != nil {
			log.Printf("Error saving PNG for %s: %v", outputPath, err)
			continue
		}
		fmt.Printf("Saved spectrogram to %s\n", outputPath)
	}

	fmt.Println("Done!")
}
