package scoring

import "strings"

// Difficulty selects the scoring tier table for a session.
type Difficulty int

const (
	DifficultyFreestyle Difficulty = iota
	DifficultyEasy
	DifficultyNormal
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyFreestyle:
		return "Freestyle"
	case DifficultyEasy:
		return "Easy"
	case DifficultyNormal:
		return "Normal"
	case DifficultyHard:
		return "Hard"
	default:
		return "Normal"
	}
}

// Config is the per-difficulty scoring table: points per fully-sung note,
// the pitch tolerance in semitones, and the fraction of the note's duration
// that must be hit to clear each grade.
type Config struct {
	PointsPerNote float64
	Tolerance     float64
	OK            float64
	Good          float64
	Excellent     float64
}

// Config returns the table row for the difficulty. Freestyle awards nothing;
// its thresholds sit at 1.0 so no grade is reachable.
func (d Difficulty) Config() Config {
	switch d {
	case DifficultyFreestyle:
		return Config{PointsPerNote: 0, Tolerance: 0, OK: 1.0, Good: 1.0, Excellent: 1.0}
	case DifficultyEasy:
		return Config{PointsPerNote: 10, Tolerance: 2, OK: 0.20, Good: 0.40, Excellent: 0.60}
	case DifficultyHard:
		return Config{PointsPerNote: 30, Tolerance: 0.5, OK: 0.40, Good: 0.60, Excellent: 0.85}
	default:
		return Config{PointsPerNote: 20, Tolerance: 1, OK: 0.25, Good: 0.50, Excellent: 0.75}
	}
}

// ParseDifficulty maps a user-facing difficulty name to a Difficulty,
// accepting the localized names charts and menus use. Unrecognized names
// fall back to Normal rather than failing.
func ParseDifficulty(name string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "freestyle":
		return DifficultyFreestyle
	case "easy", "facil", "fácil":
		return DifficultyEasy
	case "normal":
		return DifficultyNormal
	case "hard", "dificil", "difícil", "singstar", "singstar!":
		return DifficultyHard
	default:
		return DifficultyNormal
	}
}
