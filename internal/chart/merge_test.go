package chart

import "testing"

const duetChart = `#BPM:200
#DUETSINGERP1:Ana
#DUETSINGERP2:Ben
P1
: 0 4 0 same
- 4
P2
: 0 4 0 same
- 4
P1
: 10 4 0 only
- 14
`

func TestMergeDuetLines(t *testing.T) {
	song := Parse(duetChart)
	if len(song.Lines) != 3 {
		t.Fatalf("Expected 3 lines pre-merge, got %d", len(song.Lines))
	}

	merged := MergeDuetLines(song.Lines, DefaultMergePolicy())
	if len(merged) != 2 {
		t.Fatalf("Expected 2 lines post-merge, got %d", len(merged))
	}
	if merged[0].Player != PlayerBoth {
		t.Errorf("Merged line should be player-neutral, got P%d", merged[0].Player)
	}
	if merged[0].RenderedText() != "same" {
		t.Errorf("Merged line text wrong: %q", merged[0].RenderedText())
	}
	if merged[1].RenderedText() != "only" {
		t.Errorf("Unmerged line should pass through, got %q", merged[1].RenderedText())
	}
}

func TestNoMergeOnDifferentText(t *testing.T) {
	a := &Line{Player: Player1, StartTime: 0, EndTime: 1,
		Words: []*Word{{Notes: []*Note{{Text: "hey"}}}}}
	b := &Line{Player: Player2, StartTime: 0.05, EndTime: 1.02,
		Words: []*Word{{Notes: []*Note{{Text: "ho"}}}}}

	if DefaultMergePolicy().CanMerge(a, b) {
		t.Error("Lines with different text must not merge")
	}
}

func TestNoMergeWithUntaggedLine(t *testing.T) {
	a := &Line{Player: Player1, StartTime: 0, EndTime: 1,
		Words: []*Word{{Notes: []*Note{{Text: "same"}}}}}
	b := &Line{Player: PlayerBoth, StartTime: 0, EndTime: 1,
		Words: []*Word{{Notes: []*Note{{Text: "same"}}}}}

	if DefaultMergePolicy().CanMerge(a, b) {
		t.Error("An untagged line must never merge with a tagged one")
	}
}

func TestMergeTolerance(t *testing.T) {
	a := &Line{Player: Player1, StartTime: 0, EndTime: 1,
		Words: []*Word{{Notes: []*Note{{Text: "same"}}}}}
	b := &Line{Player: Player2, StartTime: 0.09, EndTime: 1.09,
		Words: []*Word{{Notes: []*Note{{Text: "same"}}}}}
	c := &Line{Player: Player2, StartTime: 0.2, EndTime: 1.2,
		Words: []*Word{{Notes: []*Note{{Text: "same"}}}}}

	policy := DefaultMergePolicy()
	if !policy.CanMerge(a, b) {
		t.Error("Lines within 0.1s should merge")
	}
	if policy.CanMerge(a, c) {
		t.Error("Lines beyond 0.1s should not merge")
	}
}

func TestCacheHitAndInvalidate(t *testing.T) {
	cache := NewCache()

	first := cache.Parse(simpleChart)
	second := cache.Parse(simpleChart)
	if first != second {
		t.Error("Expected cache to return the same parsed song")
	}
	if cache.Len() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", cache.Len())
	}

	cache.Invalidate(Key(simpleChart))
	third := cache.Parse(simpleChart)
	if third == first {
		t.Error("Expected a fresh parse after invalidation")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", cache.Len())
	}
}
