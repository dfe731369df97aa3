package scoring

import (
	"math"
	"testing"

	"github.com/himanishpuri/VocalDNA/internal/chart"
)

func makeNote(start, end float64, pitchVal int, typ chart.NoteType) *chart.Note {
	return &chart.Note{
		Type:      typ,
		Pitch:     pitchVal,
		StartTime: start,
		EndTime:   end,
	}
}

// feed runs a tick stream against the engine: pitch samples every step
// seconds from 0 through until.
func feed(e *Engine, until, step, midi float64, hasPitch bool) {
	for now := 0.0; now <= until+1e-9; now += step {
		e.Tick(now, midi, hasPitch)
	}
}

func TestFullMatchScoresExcellent(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	feed(e, 1.5, 0.05, 60, true)

	if got := e.Score(); math.Abs(got-20) > 1e-9 {
		t.Errorf("Expected 20 points, got %f", got)
	}
	if e.Stats().Excellent != 1 {
		t.Errorf("Expected 1 excellent, got %+v", e.Stats())
	}
}

func TestGoldenNoteDoublesAndGoesPerfect(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteGolden)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	if e.TotalMax() != 40 {
		t.Errorf("Expected golden max 40, got %f", e.TotalMax())
	}

	feed(e, 1.5, 0.05, 60, true)

	if got := e.Score(); math.Abs(got-40) > 1e-9 {
		t.Errorf("Expected 40 points, got %f", got)
	}
	if e.Stats().Perfect != 1 || e.Stats().Excellent != 0 {
		t.Errorf("Expected 1 perfect, got %+v", e.Stats())
	}
	res := e.Result()
	if res.GoldenHit != 1 || res.GoldenTotal != 1 {
		t.Errorf("Expected golden 1/1, got %d/%d", res.GoldenHit, res.GoldenTotal)
	}
}

func TestNoPitchAgesNoteToZero(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	feed(e, 1.5, 0.05, 0, false)

	if e.Score() != 0 {
		t.Errorf("Expected 0 points, got %f", e.Score())
	}
	s := e.Stats()
	if s.OK+s.Good+s.Excellent+s.Perfect != 0 {
		t.Errorf("Expected no stat buckets incremented, got %+v", s)
	}
	// The note still counts toward the achievable-so-far total.
	if e.LivePercent() != 0 {
		t.Errorf("Expected live percent 0, got %f", e.LivePercent())
	}
}

func TestOctaveOffStillHits(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	// Sing a full octave above: circular distance is 0.
	feed(e, 1.5, 0.05, 72, true)

	if got := e.Score(); math.Abs(got-20) > 1e-9 {
		t.Errorf("Expected octave-off singing to score fully, got %f", got)
	}
}

func TestToleranceBoundary(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)

	// Distance 1 is within Normal's tolerance.
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)
	feed(e, 1.5, 0.05, 61, true)
	if e.Score() == 0 {
		t.Error("Expected distance 1 to hit on Normal")
	}

	// Distance 2 is outside it.
	note2 := makeNote(0, 1.0, 60, chart.NoteRegular)
	e2 := NewEngine([]*chart.Note{note2}, DifficultyNormal)
	feed(e2, 1.5, 0.05, 62, true)
	if e2.Score() != 0 {
		t.Errorf("Expected distance 2 to miss on Normal, got %f", e2.Score())
	}
}

func TestFreestyleNoteHitsAnyPitch(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteFreestyle)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	// Way off pitch, but the note type is exempt from matching.
	feed(e, 1.5, 0.05, 45, true)

	if got := e.Score(); math.Abs(got-20) > 1e-9 {
		t.Errorf("Expected freestyle note to score fully, got %f", got)
	}
}

func TestFreestyleNoteNeedsVoicedSound(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteFreestyle)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	feed(e, 1.5, 0.05, 0, false)

	if e.Score() != 0 {
		t.Errorf("Silence must not hit a freestyle note, got %f", e.Score())
	}
}

func TestPartialDurationTiers(t *testing.T) {
	// Normal: ok=0.25, good=0.50, excellent=0.75. Sing ~0.55 of the note.
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	for now := 0.0; now <= 0.55+1e-9; now += 0.05 {
		e.Tick(now, 60, true)
	}
	for now := 0.6; now <= 1.5+1e-9; now += 0.05 {
		e.Tick(now, 0, false)
	}

	if e.Stats().Good != 1 {
		t.Errorf("Expected the good tier, got %+v", e.Stats())
	}
	if got := e.Score(); math.Abs(got-20.0*2.0/3.0) > 1e-9 {
		t.Errorf("Expected 2/3 of 20 points, got %f", got)
	}
}

func TestTrailingWindowAcceptsLateMatch(t *testing.T) {
	note := makeNote(0, 0.2, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyEasy)

	// All singing lands inside the 0.15s trailing window.
	e.Tick(0.21, 60, true)
	e.Tick(0.26, 60, true)
	e.Tick(0.31, 60, true)
	e.Tick(1.0, 0, false)

	if e.Score() == 0 {
		t.Error("Expected matches inside the trailing window to count")
	}
}

func TestSungDurationCappedAtNoteDuration(t *testing.T) {
	// Coarse dt ticks must not push the percentage past 1.0.
	note := makeNote(0, 0.5, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	e.Tick(0, 60, true)
	e.Tick(0.4, 60, true)
	e.Tick(0.64, 60, true) // cumulative dt 0.64s against a 0.5s note
	e.Tick(1.0, 0, false)

	if got := e.Score(); math.Abs(got-20) > 1e-9 {
		t.Errorf("Expected exactly the note maximum of 20, got %f", got)
	}
}

func TestResetReproducesScore(t *testing.T) {
	notes := []*chart.Note{
		makeNote(0, 0.5, 60, chart.NoteRegular),
		makeNote(0.6, 1.2, 62, chart.NoteGolden),
		makeNote(1.3, 1.8, 64, chart.NoteRegular),
	}
	e := NewEngine(notes, DifficultyNormal)

	run := func() float64 {
		for now := 0.0; now <= 2.2+1e-9; now += 0.03 {
			// Match the first two notes, miss the third.
			midi, has := 0.0, false
			switch {
			case now <= 0.5:
				midi, has = 60, true
			case now >= 0.6 && now <= 1.2:
				midi, has = 62, true
			}
			e.Tick(now, midi, has)
		}
		e.FinalizeAll()
		return e.Score()
	}

	first := run()
	if first <= 0 {
		t.Fatal("Expected a positive score from the first run")
	}
	e.Reset()
	if e.Score() != 0 {
		t.Error("Expected score 0 after reset")
	}
	if e.Stats() != (Stats{}) {
		t.Error("Expected empty stats after reset")
	}
	second := run()
	if first != second {
		t.Errorf("Re-simulation not deterministic: %f vs %f", first, second)
	}
}

func TestFeedbackDecays(t *testing.T) {
	note := makeNote(0, 0.5, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	feed(e, 0.7, 0.05, 60, true)

	fb, ok := e.Feedback(0.7)
	if !ok {
		t.Fatal("Expected a feedback event right after finalization")
	}
	if fb.Tier != TierExcellent || fb.Text != "Excellent" {
		t.Errorf("Expected excellent feedback, got %+v", fb)
	}
	if fb.Seq == 0 {
		t.Error("Expected a non-zero feedback sequence")
	}
	if _, ok := e.Feedback(2.5); ok {
		t.Error("Expected feedback to decay after ~1s")
	}
}

func TestGoldenPulse(t *testing.T) {
	note := makeNote(0, 0.5, 60, chart.NoteGolden)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)

	feed(e, 0.7, 0.05, 60, true)

	if !e.GoldenPulse(0.8) {
		t.Error("Expected the golden pulse to be raised shortly after a perfect")
	}
	if e.GoldenPulse(2.0) {
		t.Error("Expected the golden pulse to drop after ~0.5s")
	}
}

func TestRankBands(t *testing.T) {
	cases := []struct {
		percent float64
		want    Rank
	}{
		{0.96, RankSS},
		{0.95, RankSS},
		{0.92, RankS},
		{0.85, RankA},
		{0.75, RankB},
		{0.65, RankC},
		{0.45, RankD},
		{0.10, RankF},
	}
	for _, tc := range cases {
		if got := RankForPercent(tc.percent); got != tc.want {
			t.Errorf("RankForPercent(%f) = %s, expected %s", tc.percent, got, tc.want)
		}
	}
}

func TestEngineRankPerfectRun(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyNormal)
	feed(e, 1.5, 0.05, 60, true)

	if got := e.Rank(); got != RankSS {
		t.Errorf("Expected SS for a perfect run, got %s", got)
	}
}

func TestFreestyleSessionRank(t *testing.T) {
	note := makeNote(0, 1.0, 60, chart.NoteRegular)
	e := NewEngine([]*chart.Note{note}, DifficultyFreestyle)
	feed(e, 1.5, 0.05, 60, true)

	if got := e.Rank(); got != RankFreestyle {
		t.Errorf("Expected Freestyle rank, got %s", got)
	}
	if e.Score() != 0 {
		t.Errorf("Freestyle difficulty must not accumulate points, got %f", e.Score())
	}
}

func TestParseDifficultyFallback(t *testing.T) {
	cases := map[string]Difficulty{
		"easy":       DifficultyEasy,
		"Fácil":      DifficultyEasy,
		"normal":     DifficultyNormal,
		"hard":       DifficultyHard,
		"Difícil":    DifficultyHard,
		"SingStar!":  DifficultyHard,
		"freestyle":  DifficultyFreestyle,
		"whatisthis": DifficultyNormal,
		"":           DifficultyNormal,
	}
	for name, want := range cases {
		if got := ParseDifficulty(name); got != want {
			t.Errorf("ParseDifficulty(%q) = %v, expected %v", name, got, want)
		}
	}
}
