//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/pitch"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorNoPitch
)

var detector = pitch.New(pitch.Config{})

// Estimates the voice pitch in one analysis window.
// Returns: {error: number, data: {freq, midi, note} | string}
func detectPitch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: audioArray, sampleRate")
	}

	audioDataJS := args[0]
	sampleRateJS := args[1]

	if audioDataJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray must be an Array or Float64Array")
	}
	if sampleRateJS.Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "sampleRate must be a number")
	}

	sampleRate := sampleRateJS.Float()
	if sampleRate <= 0 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid sample rate: %f", sampleRate))
	}

	length := audioDataJS.Length()
	if length == 0 {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray is empty")
	}

	samples := make([]float64, length)
	for i := 0; i < length; i++ {
		val := audioDataJS.Index(i)
		if val.Type() != js.TypeNumber {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("audioArray element %d is not a number", i))
		}
		samples[i] = val.Float()
	}

	freq, voiced := detector.DetectVoice(samples, sampleRate)
	if !voiced {
		return makeErrorResponse(ErrorNoPitch, "No voiced pitch in window")
	}

	midi := pitch.FreqToMidi(freq)
	data := js.Global().Get("Object").New()
	data.Set("freq", freq)
	data.Set("midi", midi)
	data.Set("note", pitch.NoteName(midi))

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

// Parses chart text into lines and note times.
// Returns: {error: number, data: object | string}
func parseChart(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: chartText")
	}
	if args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "chartText must be a string")
	}

	song := chart.Parse(args[0].String())

	lineArray := js.Global().Get("Array").New()
	for i, line := range song.Lines {
		noteArray := js.Global().Get("Array").New()
		for j, note := range line.Notes() {
			noteObj := js.Global().Get("Object").New()
			noteObj.Set("text", note.Text)
			noteObj.Set("pitch", note.Pitch)
			noteObj.Set("startTime", note.StartTime)
			noteObj.Set("endTime", note.EndTime)
			noteObj.Set("golden", note.Type.IsGolden())
			noteObj.Set("freestyle", note.Type.IsFreestyle())
			noteArray.SetIndex(j, noteObj)
		}

		lineObj := js.Global().Get("Object").New()
		lineObj.Set("text", line.RenderedText())
		lineObj.Set("player", int(line.Player))
		lineObj.Set("startTime", line.StartTime)
		lineObj.Set("endTime", line.EndTime)
		lineObj.Set("notes", noteArray)
		lineArray.SetIndex(i, lineObj)
	}

	data := js.Global().Get("Object").New()
	data.Set("title", song.Meta.Title)
	data.Set("artist", song.Meta.Artist)
	data.Set("bpm", song.Meta.BPM)
	data.Set("gapMs", song.Meta.GapMs)
	data.Set("hasTiming", song.HasTiming())
	data.Set("isDuet", song.Meta.IsDuet())
	data.Set("lines", lineArray)

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 VocalDNA WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("detectPitch", js.FuncOf(detectPitch))
	js.Global().Set("parseChart", js.FuncOf(parseChart))

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ VocalDNA WASM module loaded and ready")
	}

	<-done
}
