package chart

// MergePolicy decides when two duet lines are close enough to display as a
// single shared line. The tolerance is a presentation concern, so it lives
// here as a parameter instead of being baked into the time model.
type MergePolicy struct {
	// TimeTolerance is the maximum allowed difference, in seconds, between
	// the two lines' start times and between their end times.
	TimeTolerance float64
}

// DefaultMergePolicy matches the classic display heuristic.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{TimeTolerance: 0.1}
}

// CanMerge reports whether a and b are the same lyric sung by player 1 and
// player 2 at the same time. Lines without an explicit player tag never
// merge with a tagged line.
func (p MergePolicy) CanMerge(a, b *Line) bool {
	if a == nil || b == nil {
		return false
	}
	tagged := (a.Player == Player1 && b.Player == Player2) ||
		(a.Player == Player2 && b.Player == Player1)
	if !tagged {
		return false
	}
	if !a.TimesNearlyEqual(b, p.TimeTolerance) {
		return false
	}
	return a.RenderedText() == b.RenderedText()
}

// MergeDuetLines collapses adjacent player-1/player-2 line pairs with
// matching timing and text into one player-neutral line. The input order is
// preserved; unmerged lines pass through untouched.
func MergeDuetLines(lines []*Line, policy MergePolicy) []*Line {
	out := make([]*Line, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && policy.CanMerge(lines[i], lines[i+1]) {
			merged := &Line{
				Words:     lines[i].Words,
				Player:    PlayerBoth,
				StartTime: lines[i].StartTime,
				EndTime:   lines[i].EndTime,
			}
			out = append(out, merged)
			i++
			continue
		}
		out = append(out, lines[i])
	}
	return out
}
