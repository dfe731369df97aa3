package vocaldna

// ChartInfo summarizes a parsed chart.
type ChartInfo struct {
	Key       string  // Stable identity of the chart text
	Title     string  // Song title
	Artist    string  // Artist name
	BPM       float64 // Quarter-note tempo as written in the chart
	GapMs     float64 // Offset of beat zero in milliseconds
	HasTiming bool    // False when the chart carries no usable BPM
	IsDuet    bool    // True when duet singer names are present
	NoteCount int     // Total sung notes across all lines
	Lines     []LineInfo
}

// LineInfo is one lyric line of a chart.
type LineInfo struct {
	Text      string  // Rendered lyric text
	Player    int     // 0 = both, 1/2 = duet part
	StartTime float64 // Seconds from playback start
	EndTime   float64
	NoteCount int
}

// TakeScore is the outcome of scoring one recorded take.
type TakeScore struct {
	SessionID   string // Set when the run was persisted
	ChartKey    string
	Title       string
	Artist      string
	Difficulty  string
	Score       float64
	MaxScore    float64
	Percent     float64 // Score / MaxScore in [0, 1]
	Rank        string  // SS, S, A, B, C, D, F or Freestyle
	OKCount     int
	GoodCount   int
	Excellent   int
	Perfect     int
	GoldenHit   int
	GoldenTotal int
}

// SessionInfo is one entry of the persisted session history.
type SessionInfo struct {
	ID         string
	ChartKey   string
	Title      string
	Artist     string
	Difficulty string
	Player     int
	Score      int
	MaxScore   int
	Percent    float64
	Rank       string
	CreatedAt  string // RFC 3339
}
