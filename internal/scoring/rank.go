package scoring

// Rank is the end-of-session letter grade.
type Rank string

const (
	RankSS        Rank = "SS"
	RankS         Rank = "S"
	RankA         Rank = "A"
	RankB         Rank = "B"
	RankC         Rank = "C"
	RankD         Rank = "D"
	RankF         Rank = "F"
	RankFreestyle Rank = "Freestyle"
)

// RankForPercent maps a score/totalMaxScore ratio to a letter grade.
func RankForPercent(p float64) Rank {
	switch {
	case p >= 0.95:
		return RankSS
	case p >= 0.90:
		return RankS
	case p >= 0.80:
		return RankA
	case p >= 0.70:
		return RankB
	case p >= 0.60:
		return RankC
	case p >= 0.40:
		return RankD
	default:
		return RankF
	}
}
