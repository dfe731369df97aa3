package scoring

import (
	"math"

	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/pitch"
)

const (
	// TrailingWindow is the grace period after a note's nominal end during
	// which a late pitch match still counts and before which the note is
	// not finalized.
	TrailingWindow = 0.15

	// FeedbackDuration is how long a finalization feedback event stays
	// queryable before it decays.
	FeedbackDuration = 1.0

	// PulseDuration is how long the golden-hit pulse flag stays raised.
	PulseDuration = 0.5

	durationEpsilon = 1e-9
)

// Tier is the grade a single note finalizes at.
type Tier int

const (
	TierNone Tier = iota
	TierOK
	TierGood
	TierExcellent
	TierPerfect
)

func (t Tier) String() string {
	switch t {
	case TierOK:
		return "OK"
	case TierGood:
		return "Good"
	case TierExcellent:
		return "Excellent"
	case TierPerfect:
		return "Perfect!"
	default:
		return ""
	}
}

// Feedback is a short-lived per-note grade event. Seq increments on every
// event so a UI can re-trigger its animation even when the text repeats.
type Feedback struct {
	Text string
	Tier Tier
	Seq  uint64
}

// Stats are the aggregate per-tier finalization counts for a session.
type Stats struct {
	OK        int
	Good      int
	Excellent int
	Perfect   int
}

// Result is the end-of-session summary.
type Result struct {
	Score       float64
	MaxScore    float64
	Percent     float64
	Rank        Rank
	Stats       Stats
	GoldenHit   int
	GoldenTotal int
	Difficulty  string
}

// noteState is the per-note mutable accumulator. Owned exclusively by the
// engine for one session; discarded wholesale on Reset.
type noteState struct {
	note     *chart.Note
	sung     float64 // seconds of matched singing, capped at note duration
	scored   bool
	maxScore float64
}

// Engine is the scoring state machine. It consumes a chart's flattened
// time-ordered notes and a stream of (time, pitch) ticks from exactly one
// driving loop, and accumulates a graded score per note.
type Engine struct {
	difficulty Difficulty
	cfg        Config
	notes      []*chart.Note

	states   []noteState
	totalMax float64

	score    float64
	maxSoFar float64
	stats    Stats

	goldenHit   int
	goldenTotal int

	lastTick float64
	haveTick bool

	seq           uint64
	feedback      Feedback
	hasFeedback   bool
	feedbackUntil float64
	pulseUntil    float64
}

// NewEngine builds an engine over the given notes (already filtered to the
// selected player if this is a duet solo session).
func NewEngine(notes []*chart.Note, difficulty Difficulty) *Engine {
	e := &Engine{
		difficulty: difficulty,
		cfg:        difficulty.Config(),
		notes:      notes,
	}
	e.rebuild()
	return e
}

func (e *Engine) rebuild() {
	e.states = make([]noteState, len(e.notes))
	e.totalMax = 0
	e.goldenTotal = 0
	for i, n := range e.notes {
		maxScore := e.cfg.PointsPerNote
		if n.Type.IsGolden() {
			maxScore *= 2
			e.goldenTotal++
		}
		e.states[i] = noteState{note: n, maxScore: maxScore}
		e.totalMax += maxScore
	}
}

// Reset discards all per-note accumulators, the running score, and pending
// feedback, returning the engine to its pre-session state. Re-running the
// same tick stream afterwards reproduces the identical final score.
func (e *Engine) Reset() {
	e.rebuild()
	e.score = 0
	e.maxSoFar = 0
	e.stats = Stats{}
	e.goldenHit = 0
	e.lastTick = 0
	e.haveTick = false
	e.hasFeedback = false
	e.feedbackUntil = 0
	e.pulseUntil = 0
}

// Tick advances the engine to now with one pitch sample. midi is the
// calibrated MIDI note value of the estimate; hasPitch is false for a
// "no pitch" frame. Called once per display tick while the session plays.
func (e *Engine) Tick(now float64, midi float64, hasPitch bool) {
	dt := 0.0
	if e.haveTick && now > e.lastTick {
		dt = now - e.lastTick
	}
	e.lastTick = now
	e.haveTick = true

	for i := range e.states {
		st := &e.states[i]
		if st.scored {
			continue
		}
		n := st.note

		if hasPitch && now >= n.StartTime && now <= n.EndTime+TrailingWindow {
			dist := pitch.SemitoneDistance(midi, float64(n.Pitch))
			if dist <= e.cfg.Tolerance || n.Type.IsFreestyle() {
				st.sung += dt
				if limit := n.EndTime - n.StartTime; st.sung > limit {
					st.sung = limit
				}
			}
		}

		if now > n.EndTime+TrailingWindow {
			e.finalize(st, now)
		}
	}
}

// finalize grades one note and folds it into the running totals. Terminal:
// a finalized note is never rescored.
func (e *Engine) finalize(st *noteState, now float64) {
	st.scored = true
	e.maxSoFar += st.maxScore

	dur := st.note.EndTime - st.note.StartTime
	percent := st.sung / math.Max(dur, durationEpsilon)

	tier := TierNone
	fraction := 0.0
	switch {
	case percent >= e.cfg.Excellent:
		tier = TierExcellent
		fraction = 1.0
	case percent >= e.cfg.Good:
		tier = TierGood
		fraction = 2.0 / 3.0
	case percent >= e.cfg.OK:
		tier = TierOK
		fraction = 1.0 / 3.0
	}

	golden := st.note.Type.IsGolden()
	if tier == TierExcellent && golden {
		tier = TierPerfect
		e.goldenHit++
		e.pulseUntil = now + PulseDuration
	}

	e.score += fraction * st.maxScore

	switch tier {
	case TierOK:
		e.stats.OK++
	case TierGood:
		e.stats.Good++
	case TierExcellent:
		e.stats.Excellent++
	case TierPerfect:
		e.stats.Perfect++
	default:
		return // missed note: no bucket, no feedback
	}

	e.seq++
	e.feedback = Feedback{Text: tier.String(), Tier: tier, Seq: e.seq}
	e.hasFeedback = true
	e.feedbackUntil = now + FeedbackDuration
}

// FinalizeAll force-finalizes every remaining note, as when playback ran
// past the last note or the session is being summarized offline.
func (e *Engine) FinalizeAll() {
	end := e.lastTick
	for i := range e.states {
		if !e.states[i].scored {
			if t := e.states[i].note.EndTime + TrailingWindow; t > end {
				end = t
			}
		}
	}
	for i := range e.states {
		if !e.states[i].scored {
			e.finalize(&e.states[i], end)
		}
	}
	e.lastTick = end
}

// Score is the running score.
func (e *Engine) Score() float64 { return e.score }

// TotalMax is the song's theoretical maximum, fixed at construction.
func (e *Engine) TotalMax() float64 { return e.totalMax }

// LivePercent rates the performance against the notes finalized so far,
// independent of the song's theoretical total.
func (e *Engine) LivePercent() float64 {
	if e.maxSoFar <= 0 {
		return 0
	}
	return e.score / e.maxSoFar
}

// Stats returns the per-tier counts accumulated so far.
func (e *Engine) Stats() Stats { return e.stats }

// Feedback returns the last grade event if it has not decayed by now.
func (e *Engine) Feedback(now float64) (Feedback, bool) {
	if !e.hasFeedback || now > e.feedbackUntil {
		return Feedback{}, false
	}
	return e.feedback, true
}

// GoldenPulse reports whether the golden-hit pulse flag is still raised.
func (e *Engine) GoldenPulse(now float64) bool {
	return now <= e.pulseUntil && e.pulseUntil > 0
}

// Rank derives the end-of-session letter grade. Freestyle sessions bypass
// the score path and always report the Freestyle rank.
func (e *Engine) Rank() Rank {
	if e.difficulty == DifficultyFreestyle {
		return RankFreestyle
	}
	if e.totalMax <= 0 {
		return RankF
	}
	return RankForPercent(e.score / e.totalMax)
}

// Result summarizes the session. Meaningful once every note is finalized,
// but safe to call at any point.
func (e *Engine) Result() Result {
	percent := 0.0
	if e.totalMax > 0 {
		percent = e.score / e.totalMax
	}
	return Result{
		Score:       e.score,
		MaxScore:    e.totalMax,
		Percent:     percent,
		Rank:        e.Rank(),
		Stats:       e.stats,
		GoldenHit:   e.goldenHit,
		GoldenTotal: e.goldenTotal,
		Difficulty:  e.difficulty.String(),
	}
}
