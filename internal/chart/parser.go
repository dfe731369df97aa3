package chart

import (
	"strconv"
	"strings"
)

// Parse reads a beat-notation chart and returns the song model with absolute
// note times computed. The format is tolerant: malformed or unrecognized
// lines are skipped, a missing end marker is fine, and a missing BPM only
// means the times stay at zero. Parse never fails.
func Parse(text string) *Song {
	p := &parser{
		song: &Song{Meta: Metadata{Extra: map[string]string{}}},
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if line == "" {
			continue
		}
		switch line[0] {
		case '#':
			p.metaLine(line[1:])
		case 'P':
			p.playerLine(line)
		case ':', '*', 'F', 'R', 'G':
			p.noteLine(line)
		case '-':
			p.endLine()
		case 'E':
			p.endLine()
			p.song.computeTimes()
			return p.song
		default:
			// Unrecognized marker; skip.
		}
	}

	// Tolerate files missing a trailing line/end marker.
	p.endLine()
	p.song.computeTimes()
	return p.song
}

type parser struct {
	song *Song

	player  Player
	line    *Line
	word    *Word
	prevRaw string // raw lyric text of the previous note in this line
}

// metaLine handles "#KEY:value". The key is upper-cased; any further colons
// belong to the value.
func (p *parser) metaLine(rest string) {
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return
	}
	key := strings.ToUpper(strings.TrimSpace(rest[:idx]))
	value := strings.TrimSpace(rest[idx+1:])
	if key == "" {
		return
	}

	meta := &p.song.Meta
	switch key {
	case "TITLE":
		meta.Title = value
	case "ARTIST":
		meta.Artist = value
	case "BPM":
		meta.BPM = parseDecimal(value)
	case "GAP":
		meta.GapMs = parseDecimal(value)
	case "VIDEOGAP":
		meta.VideoGap = value
	case "DUETSINGERP1":
		meta.DuetSingerP1 = value
	case "DUETSINGERP2":
		meta.DuetSingerP2 = value
	default:
		meta.Extra[key] = value
	}
}

// playerLine handles "P1"/"P2" player context switches. Pending buffers are
// flushed first so a player block never bleeds into the previous line.
func (p *parser) playerLine(line string) {
	rest := strings.TrimSpace(line[1:])
	var player Player
	switch rest {
	case "1":
		player = Player1
	case "2":
		player = Player2
	default:
		return
	}
	p.endLine()
	p.player = player
}

// noteLine handles one note row: "type startBeat duration pitch text…".
// The remainder after the fourth field, internal spaces included, is the
// lyric fragment.
func (p *parser) noteLine(line string) {
	var typ NoteType
	switch line[0] {
	case ':':
		typ = NoteRegular
	case '*':
		typ = NoteGolden
	case 'F':
		typ = NoteFreestyle
	case 'R':
		typ = NoteRap
	case 'G':
		typ = NoteRapGolden
	}

	pos := 1
	var nums [3]int
	for i := 0; i < 3; i++ {
		tok, next, ok := nextField(line, pos)
		if !ok {
			return
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return
		}
		nums[i] = v
		pos = next
	}

	// One separator space belongs to the field split; anything beyond it is
	// part of the lyric text and drives word grouping.
	raw := ""
	if pos < len(line) {
		raw = line[pos:]
		if raw[0] == ' ' {
			raw = raw[1:]
		}
	}

	trimmed := strings.TrimLeft(raw, " ")
	note := &Note{
		Type:        typ,
		StartBeat:   nums[0],
		Duration:    nums[1],
		Pitch:       nums[2],
		IsExtension: strings.HasPrefix(trimmed, "~"),
		Text:        strings.TrimSpace(strings.ReplaceAll(raw, "~", "")),
	}

	newWord := p.word == nil ||
		strings.HasPrefix(raw, " ") ||
		strings.HasSuffix(p.prevRaw, " ")
	if newWord {
		p.flushWord()
		p.word = &Word{}
	}
	p.word.Notes = append(p.word.Notes, note)
	p.prevRaw = raw
}

// endLine flushes the buffered word and line, if any.
func (p *parser) endLine() {
	p.flushWord()
	if p.line != nil && len(p.line.Words) > 0 {
		p.line.Player = p.player
		p.song.Lines = append(p.song.Lines, p.line)
	}
	p.line = nil
	p.prevRaw = ""
}

func (p *parser) flushWord() {
	if p.word == nil || len(p.word.Notes) == 0 {
		p.word = nil
		return
	}
	if p.line == nil {
		p.line = &Line{}
	}
	p.line.Words = append(p.line.Words, p.word)
	p.word = nil
}

// nextField returns the next whitespace-separated token starting at or after
// pos, plus the index just past it.
func nextField(s string, pos int) (string, int, bool) {
	for pos < len(s) && s[pos] == ' ' {
		pos++
	}
	start := pos
	for pos < len(s) && s[pos] != ' ' {
		pos++
	}
	if start == pos {
		return "", pos, false
	}
	return s[start:pos], pos, true
}

// parseDecimal reads a float that may use a comma decimal separator, as
// charts from some locales do. Returns 0 on anything unparseable.
func parseDecimal(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
