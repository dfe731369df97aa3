package vocaldna

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/VocalDNA/internal/audio"
	"github.com/himanishpuri/VocalDNA/internal/pitch"
)

const facadeChart = `#TITLE:Facade Test
#ARTIST:Nobody
#BPM:240
: 0 16 0 la
- 18
E
`

func newFacade(t *testing.T, opts ...Option) Service {
	t.Helper()

	opts = append([]Option{WithDBPath(filepath.Join(t.TempDir(), "facade.sqlite3"))}, opts...)
	svc, err := NewService(opts...)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestParseChart(t *testing.T) {
	svc := newFacade(t)

	info, err := svc.ParseChart(facadeChart)
	if err != nil {
		t.Fatalf("ParseChart failed: %v", err)
	}
	if info.Title != "Facade Test" || info.Artist != "Nobody" {
		t.Errorf("Metadata mismatch: %+v", info)
	}
	if !info.HasTiming || info.BPM != 240 {
		t.Errorf("Timing mismatch: %+v", info)
	}
	if len(info.Lines) != 1 || info.Lines[0].Text != "la" {
		t.Errorf("Lines mismatch: %+v", info.Lines)
	}
	if info.NoteCount != 1 {
		t.Errorf("Expected 1 note, got %d", info.NoteCount)
	}

	if _, err := svc.ParseChart(""); err == nil {
		t.Error("Expected an error for empty chart text")
	}
}

func TestScoreTakeAndHistory(t *testing.T) {
	svc := newFacade(t, WithDifficulty("hard"))
	dir := t.TempDir()

	takePath := filepath.Join(dir, "take.wav")
	tone := audio.SineToneSeconds(pitch.MidiToFreq(60), 0.6, 44100, 1.2)
	if err := audio.WriteWavFloat64(takePath, tone, 44100); err != nil {
		t.Fatal(err)
	}

	score, err := svc.ScoreTake(context.Background(), facadeChart, takePath)
	if err != nil {
		t.Fatalf("ScoreTake failed: %v", err)
	}
	if score.Difficulty != "Hard" {
		t.Errorf("Expected Hard difficulty, got %s", score.Difficulty)
	}
	if math.Abs(score.Score-30) > 1e-9 {
		t.Errorf("Expected full hard score 30, got %f", score.Score)
	}
	if score.Rank != "SS" {
		t.Errorf("Expected rank SS, got %s", score.Rank)
	}

	sessions, err := svc.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != score.SessionID {
		t.Fatalf("Expected the run in history, got %+v", sessions)
	}

	if err := svc.DeleteSession(score.SessionID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	sessions, err = svc.ListSessions(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected empty history after delete, got %d", len(sessions))
	}
}

func TestCalibrateThroughFacade(t *testing.T) {
	svc := newFacade(t)
	dir := t.TempDir()

	paths := make([]string, 3)
	for i, midi := range []float64{59.5, 63.5, 66.5} {
		paths[i] = filepath.Join(dir, "tone"+string(rune('a'+i))+".wav")
		tone := audio.SineToneSeconds(pitch.MidiToFreq(midi), 0.6, 44100, 1.0)
		if err := audio.WriteWavFloat64(paths[i], tone, 44100); err != nil {
			t.Fatal(err)
		}
	}

	offset, err := svc.Calibrate(context.Background(), paths)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if math.Abs(offset-0.5) > 0.05 {
		t.Errorf("Expected offset near +0.5, got %f", offset)
	}
}
