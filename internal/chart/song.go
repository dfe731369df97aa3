package chart

import (
	"sort"
	"strings"
)

// NoteType classifies how a note is matched and scored.
type NoteType int

const (
	NoteRegular NoteType = iota
	NoteGolden
	NoteFreestyle
	NoteRap
	NoteRapGolden
)

func (t NoteType) String() string {
	switch t {
	case NoteRegular:
		return "regular"
	case NoteGolden:
		return "golden"
	case NoteFreestyle:
		return "freestyle"
	case NoteRap:
		return "rap"
	case NoteRapGolden:
		return "rap-golden"
	default:
		return "unknown"
	}
}

// IsGolden reports whether the note is worth double points.
func (t NoteType) IsGolden() bool {
	return t == NoteGolden || t == NoteRapGolden
}

// IsFreestyle reports whether the note is exempt from pitch matching.
func (t NoteType) IsFreestyle() bool {
	return t == NoteFreestyle
}

// Player tags a line in a duet chart. PlayerBoth means the line is shared.
type Player int

const (
	PlayerBoth Player = 0
	Player1    Player = 1
	Player2    Player = 2
)

// Note is a single sung syllable fragment with chart-relative pitch and
// beat timing. StartTime/EndTime are filled in by the time model after
// parsing; they stay zero when the chart carries no usable BPM.
type Note struct {
	Type        NoteType
	StartBeat   int
	Duration    int // in beats
	Pitch       int // semitone units, chart-relative
	Text        string
	IsExtension bool // continuation of the previous syllable

	StartTime float64 // seconds
	EndTime   float64 // seconds
}

// Word groups consecutive notes into one lyric token for rendering.
// It is not a timing unit.
type Word struct {
	Notes []*Note
}

// Text concatenates the note fragments of the word.
func (w *Word) Text() string {
	var b strings.Builder
	for _, n := range w.Notes {
		b.WriteString(n.Text)
	}
	return b.String()
}

// Line is one displayed lyric line. StartTime/EndTime are the min/max over
// the contained notes, computed by the time model.
type Line struct {
	Words  []*Word
	Player Player

	StartTime float64
	EndTime   float64
}

// Notes returns the line's notes in chart order.
func (l *Line) Notes() []*Note {
	var out []*Note
	for _, w := range l.Words {
		out = append(out, w.Notes...)
	}
	return out
}

// RenderedText is the line as it would be displayed: words joined by a
// single space.
func (l *Line) RenderedText() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		parts = append(parts, w.Text())
	}
	return strings.Join(parts, " ")
}

// TimesNearlyEqual reports whether both endpoints of the two lines agree
// within tol seconds. Collaborators use this for duet-line merging.
func (l *Line) TimesNearlyEqual(other *Line, tol float64) bool {
	return absFloat(l.StartTime-other.StartTime) <= tol &&
		absFloat(l.EndTime-other.EndTime) <= tol
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Metadata holds the chart header tags. Well-known keys get typed fields;
// anything else lands in Extra with its upper-cased key.
type Metadata struct {
	Title        string
	Artist       string
	BPM          float64
	GapMs        float64
	VideoGap     string
	DuetSingerP1 string
	DuetSingerP2 string
	Extra        map[string]string
}

// Value looks up a metadata key (case-insensitive), covering both the typed
// fields and the overflow map.
func (m *Metadata) Value(key string) (string, bool) {
	switch strings.ToUpper(key) {
	case "TITLE":
		return m.Title, m.Title != ""
	case "ARTIST":
		return m.Artist, m.Artist != ""
	case "VIDEOGAP":
		return m.VideoGap, m.VideoGap != ""
	case "DUETSINGERP1":
		return m.DuetSingerP1, m.DuetSingerP1 != ""
	case "DUETSINGERP2":
		return m.DuetSingerP2, m.DuetSingerP2 != ""
	}
	v, ok := m.Extra[strings.ToUpper(key)]
	return v, ok
}

// IsDuet reports whether the chart declares two singers.
func (m *Metadata) IsDuet() bool {
	return m.DuetSingerP1 != "" || m.DuetSingerP2 != ""
}

// Song is the parsed chart: header metadata plus ordered lyric lines with
// computed absolute times. Immutable after Parse.
type Song struct {
	Meta  Metadata
	Lines []*Line
}

// HasTiming reports whether note times could be computed. A chart with a
// missing or zero BPM parses fine but carries no usable timestamps.
func (s *Song) HasTiming() bool {
	return s.Meta.BPM > 0
}

// Notes flattens the song into a single time-ordered note slice, optionally
// filtered to the lines belonging to one player. Lines tagged PlayerBoth are
// always included.
func (s *Song) Notes(player Player) []*Note {
	var out []*Note
	for _, l := range s.Lines {
		if player != PlayerBoth && l.Player != PlayerBoth && l.Player != player {
			continue
		}
		out = append(out, l.Notes()...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime == out[j].StartTime {
			return out[i].StartBeat < out[j].StartBeat
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// computeTimes derives absolute second timestamps for every note and line
// from BPM and GAP, then re-sorts lines by start time. Charts that declare
// one duet player's block fully before the other's would otherwise produce
// out-of-order lines.
func (s *Song) computeTimes() {
	bpm := s.Meta.BPM
	gap := s.Meta.GapMs / 1000.0
	if bpm <= 0 {
		// Times unavailable; leave everything at zero rather than
		// dividing by a zero beat rate.
		return
	}
	beatLen := 60.0 / (bpm * 4.0)
	for _, l := range s.Lines {
		first := true
		for _, n := range l.Notes() {
			n.StartTime = float64(n.StartBeat)*beatLen + gap
			n.EndTime = float64(n.StartBeat+n.Duration)*beatLen + gap
			if first || n.StartTime < l.StartTime {
				l.StartTime = n.StartTime
			}
			if first || n.EndTime > l.EndTime {
				l.EndTime = n.EndTime
			}
			first = false
		}
	}
	sort.SliceStable(s.Lines, func(i, j int) bool {
		return s.Lines[i].StartTime < s.Lines[j].StartTime
	})
}
