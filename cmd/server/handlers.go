package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/service"
	"github.com/himanishpuri/VocalDNA/internal/storage"
	"github.com/himanishpuri/VocalDNA/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service *service.KaraokeService
	config  *ServerConfig
	log     *logger.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(svc *service.KaraokeService, config *ServerConfig) *Server {
	return &Server{
		service: svc,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "VocalDNA API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":        "GET /health",
			"metrics":       "GET /api/health/metrics",
			"parseChart":    "POST /api/charts/parse",
			"scoreTake":     "POST /api/score",
			"listSessions":  "GET /api/sessions[?chart=<key>]",
			"getSession":    "GET /api/sessions/{id}",
			"deleteSession": "DELETE /api/sessions/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(0)
	if err != nil {
		s.log.Errorf("Failed to get session count: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.config.DBPath,
		SessionCount: len(sessions),
	})
}

// handleParseChart handles POST /api/charts/parse
func (s *Server) handleParseChart(w http.ResponseWriter, r *http.Request) {
	var req ParseChartRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxChartBytes+1)).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	song, key := s.service.LoadChart(req.ChartText)

	lines := make([]LineDTO, len(song.Lines))
	for i, line := range song.Lines {
		lines[i] = LineDTO{
			Text:      line.RenderedText(),
			Player:    int(line.Player),
			StartTime: line.StartTime,
			EndTime:   line.EndTime,
			NoteCount: len(line.Notes()),
		}
	}

	s.log.Infof("Parsed chart %s: %q by %q, %d lines", key[:12], song.Meta.Title, song.Meta.Artist, len(lines))
	s.respondJSON(w, http.StatusOK, ParseChartResponse{
		Key:       key,
		Title:     song.Meta.Title,
		Artist:    song.Meta.Artist,
		BPM:       song.Meta.BPM,
		GapMs:     song.Meta.GapMs,
		HasTiming: song.HasTiming(),
		IsDuet:    song.Meta.IsDuet(),
		NoteCount: len(song.Notes(chart.PlayerBoth)),
		Lines:     lines,
	})
}

// handleScoreTake handles POST /api/score (multipart: chart text + WAV take)
func (s *Server) handleScoreTake(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(MaxTakeUploadBytes); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	chartText := r.FormValue("chart")
	if chartText == "" {
		s.respondError(w, http.StatusBadRequest, "chart field is required")
		return
	}

	player := 0
	if v := r.FormValue("player"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 2 {
			s.respondError(w, http.StatusBadRequest, "player must be 0, 1 or 2")
			return
		}
		player = p
	}

	offset := 0.0
	if v := r.FormValue("offset"); v != "" {
		o, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "offset must be a number")
			return
		}
		offset = o
	}

	file, header, err := r.FormFile("take")
	if err != nil {
		s.log.Errorf("Failed to get take file: %v", err)
		s.respondError(w, http.StatusBadRequest, "take WAV file is required")
		return
	}
	defer file.Close()

	tempFile := filepath.Join(s.config.TempDir, fmt.Sprintf("take_%d_%s", time.Now().UnixNano(), header.Filename))
	out, err := os.Create(tempFile)
	if err != nil {
		s.log.Errorf("Failed to create temp file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer out.Close()
	defer os.Remove(tempFile)

	if _, err := io.Copy(out, file); err != nil {
		s.log.Errorf("Failed to save file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}
	out.Close()

	s.log.Infof("Scoring uploaded take: %s", header.Filename)
	res, err := s.service.ScoreTake(ctx, service.ScoreRequest{
		ChartText:         chartText,
		TakePath:          tempFile,
		Difficulty:        r.FormValue("difficulty"),
		Player:            player,
		CalibrationOffset: offset,
		Persist:           r.FormValue("no_save") == "",
	})
	if err != nil {
		s.log.Errorf("Failed to score take: %v", err)
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to score take: %v", err))
		return
	}

	s.log.Infof("Scored take: %.0f/%.0f (%s)", res.Score, res.MaxScore, res.Rank)
	s.respondJSON(w, http.StatusOK, ScoreTakeResponse{
		SessionID:   res.SessionID,
		ChartKey:    res.ChartKey,
		Title:       res.Title,
		Artist:      res.Artist,
		Difficulty:  res.Difficulty,
		Score:       res.Score,
		MaxScore:    res.MaxScore,
		Percent:     res.Percent,
		Rank:        string(res.Rank),
		OKCount:     res.Stats.OK,
		GoodCount:   res.Stats.Good,
		Excellent:   res.Stats.Excellent,
		Perfect:     res.Stats.Perfect,
		GoldenHit:   res.GoldenHit,
		GoldenTotal: res.GoldenTotal,
	})
}

// handleListSessions handles GET /api/sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	var (
		recs []storage.SessionRecord
		err  error
	)
	if chartKey := r.URL.Query().Get("chart"); chartKey != "" {
		recs, err = s.service.SessionsForChart(chartKey)
	} else {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
				s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
		}
		recs, err = s.service.ListSessions(limit)
	}
	if err != nil {
		s.log.Errorf("Failed to list sessions: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}

	dtos := make([]SessionDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = sessionToDTO(rec)
	}
	s.respondJSON(w, http.StatusOK, ListSessionsResponse{
		Sessions: dtos,
		Count:    len(dtos),
	})
}

// handleGetSession handles GET /api/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.service.GetSession(id)
	if err != nil {
		s.log.Warnf("Session not found: %s", id)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", id))
		return
	}
	s.respondJSON(w, http.StatusOK, sessionToDTO(*rec))
}

// handleDeleteSession handles DELETE /api/sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.service.DeleteSession(id); err != nil {
		s.log.Warnf("Failed to delete session %s: %v", id, err)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Session %s not found", id))
		return
	}

	s.log.Infof("Deleted session %s", id)
	s.respondJSON(w, http.StatusOK, DeleteSessionResponse{
		Message: "Session deleted successfully",
		ID:      id,
	})
}

func sessionToDTO(rec storage.SessionRecord) SessionDTO {
	return SessionDTO{
		ID:         rec.ID,
		ChartKey:   rec.ChartKey,
		Title:      rec.Title,
		Artist:     rec.Artist,
		Difficulty: rec.Difficulty,
		Player:     rec.Player,
		Score:      rec.Score,
		MaxScore:   rec.MaxScore,
		Percent:    rec.Percent,
		Rank:       rec.Rank,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

// handleCharts routes requests to /api/charts/parse
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleParseChart(w, r)
}

// handleScore routes requests to /api/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleScoreTake(w, r)
}

// handleSessions routes requests to /api/sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleListSessions(w, r)
}

// handleSession routes requests to /api/sessions/{id}
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/api/sessions/"):]
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetSession(w, r, id)
	case http.MethodDelete:
		s.handleDeleteSession(w, r, id)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
