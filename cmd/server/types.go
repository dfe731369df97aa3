package main

import (
	"fmt"
)

// Upload limits for chart and take payloads
const (
	// MaxChartBytes caps chart text payloads; real charts are a few KB
	MaxChartBytes = 1 << 20

	// MaxTakeUploadBytes caps WAV take uploads (~3 minutes at 44.1kHz mono)
	MaxTakeUploadBytes = 50 << 20
)

// ParseChartRequest is the request body for POST /api/charts/parse
type ParseChartRequest struct {
	ChartText string `json:"chart_text" binding:"required"`
}

// Validate checks if the request is valid
func (r *ParseChartRequest) Validate() error {
	if r.ChartText == "" {
		return fmt.Errorf("chart_text is required")
	}
	if len(r.ChartText) > MaxChartBytes {
		return fmt.Errorf("chart too large: %d bytes (maximum: %d)", len(r.ChartText), MaxChartBytes)
	}
	return nil
}

// LineDTO is one lyric line in a parsed chart response
type LineDTO struct {
	Text      string  `json:"text"`
	Player    int     `json:"player"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	NoteCount int     `json:"note_count"`
}

// ParseChartResponse is the response for POST /api/charts/parse
type ParseChartResponse struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	BPM       float64   `json:"bpm"`
	GapMs     float64   `json:"gap_ms"`
	HasTiming bool      `json:"has_timing"`
	IsDuet    bool      `json:"is_duet"`
	NoteCount int       `json:"note_count"`
	Lines     []LineDTO `json:"lines"`
}

// ScoreTakeResponse is the response for POST /api/score
type ScoreTakeResponse struct {
	SessionID   string  `json:"session_id,omitempty"`
	ChartKey    string  `json:"chart_key"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Difficulty  string  `json:"difficulty"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Percent     float64 `json:"percent"`
	Rank        string  `json:"rank"`
	OKCount     int     `json:"ok_count"`
	GoodCount   int     `json:"good_count"`
	Excellent   int     `json:"excellent_count"`
	Perfect     int     `json:"perfect_count"`
	GoldenHit   int     `json:"golden_hit"`
	GoldenTotal int     `json:"golden_total"`
}

// SessionDTO represents a session record in API responses
type SessionDTO struct {
	ID         string  `json:"id"`
	ChartKey   string  `json:"chart_key"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Difficulty string  `json:"difficulty"`
	Player     int     `json:"player"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percent    float64 `json:"percent"`
	Rank       string  `json:"rank"`
	CreatedAt  string  `json:"created_at"`
}

// ListSessionsResponse is the response for GET /api/sessions
type ListSessionsResponse struct {
	Sessions []SessionDTO `json:"sessions"`
	Count    int          `json:"count"`
}

// DeleteSessionResponse is the response for DELETE /api/sessions/{id}
type DeleteSessionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MetricsResponse provides server health and database metrics
type MetricsResponse struct {
	Status       string `json:"status"`
	DatabasePath string `json:"database_path"`
	SessionCount int    `json:"session_count"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
