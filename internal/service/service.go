package service

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/himanishpuri/VocalDNA/internal/audio"
	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/pitch"
	"github.com/himanishpuri/VocalDNA/internal/scoring"
	"github.com/himanishpuri/VocalDNA/internal/storage"
	"github.com/himanishpuri/VocalDNA/pkg/logger"
)

// KaraokeService ties the core packages together for callers that work with
// files: parse charts (cached), score recorded takes, calibrate from
// reference-tone recordings, and keep session history.
type KaraokeService struct {
	db    *storage.DBClient
	cache *chart.Cache
	det   *pitch.Detector
	log   *logger.Logger
}

// NewKaraokeService opens the default session-history database.
func NewKaraokeService() (*KaraokeService, error) {
	db, err := storage.NewDBClient()
	if err != nil {
		return nil, err
	}
	return newService(db), nil
}

// NewKaraokeServiceWithDB opens the session-history database at dbPath.
func NewKaraokeServiceWithDB(dbPath string) (*KaraokeService, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return newService(db), nil
}

func newService(db *storage.DBClient) *KaraokeService {
	return &KaraokeService{
		db:    db,
		cache: chart.NewCache(),
		det:   pitch.New(pitch.Config{UseFFT: true}),
		log:   logger.GetLogger(),
	}
}

// Close releases the database.
func (s *KaraokeService) Close() error {
	return s.db.Close()
}

// LoadChart parses chart text through the service cache and returns the song
// plus its cache key. The key doubles as the chart identity in history.
func (s *KaraokeService) LoadChart(text string) (*chart.Song, string) {
	return s.cache.Parse(text), chart.Key(text)
}

// LoadChartFile reads and parses a chart file.
func (s *KaraokeService) LoadChartFile(path string) (*chart.Song, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading chart: %w", err)
	}
	song, key := s.LoadChart(string(data))
	return song, key, nil
}

// InvalidateChart drops one chart from the parse cache.
func (s *KaraokeService) InvalidateChart(key string) {
	s.cache.Invalidate(key)
}

// ScoreRequest describes one offline take-scoring run.
type ScoreRequest struct {
	ChartText         string
	TakePath          string
	Difficulty        string // parsed leniently, unknown names mean Normal
	Player            int    // 0 = both, 1/2 = duet solo
	CalibrationOffset float64
	Persist           bool
}

// TakeResult is the outcome of scoring a recorded take.
type TakeResult struct {
	scoring.Result
	SessionID string
	ChartKey  string
	Title     string
	Artist    string
}

// ScoreTake replays a recorded WAV take against a chart as if it were sung
// live: fixed-size windows through the pitch detector and median smoother,
// one scoring tick per window at the window's center time. Identical inputs
// produce identical results.
func (s *KaraokeService) ScoreTake(ctx context.Context, req ScoreRequest) (*TakeResult, error) {
	song, key := s.LoadChart(req.ChartText)
	if !song.HasTiming() {
		return nil, fmt.Errorf("chart has no usable BPM")
	}

	samples, sampleRate, err := audio.ReadWavAsFloat64(req.TakePath)
	if err != nil {
		return nil, fmt.Errorf("reading take: %w", err)
	}

	difficulty := scoring.ParseDifficulty(req.Difficulty)
	notes := song.Notes(chart.Player(req.Player))
	engine := scoring.NewEngine(notes, difficulty)
	smoother := pitch.NewSmoother(pitch.DefaultSmootherSize)

	frames := audio.SplitFrames(samples, sampleRate, audio.DefaultWindowSize, 0)
	s.log.Infof("Scoring take %s: %d windows at %d Hz against %d notes",
		req.TakePath, len(frames), sampleRate, len(notes))

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		freq, voiced := s.det.DetectVoice(frame.Samples, float64(sampleRate))
		if voiced {
			midi := smoother.Push(pitch.FreqToMidi(freq) + req.CalibrationOffset)
			engine.Tick(frame.Time, midi, true)
		} else {
			smoother.Reset()
			engine.Tick(frame.Time, 0, false)
		}
	}
	engine.FinalizeAll()

	result := engine.Result()
	out := &TakeResult{
		Result:   result,
		ChartKey: key,
		Title:    song.Meta.Title,
		Artist:   song.Meta.Artist,
	}

	if req.Persist {
		id, err := s.db.SaveSession(storage.SessionRecord{
			ChartKey:       key,
			Title:          song.Meta.Title,
			Artist:         song.Meta.Artist,
			Difficulty:     result.Difficulty,
			Player:         req.Player,
			Score:          int(math.Round(result.Score)),
			MaxScore:       int(math.Round(result.MaxScore)),
			Percent:        result.Percent,
			Rank:           string(result.Rank),
			OKCount:        result.Stats.OK,
			GoodCount:      result.Stats.Good,
			ExcellentCount: result.Stats.Excellent,
			PerfectCount:   result.Stats.Perfect,
			GoldenHit:      result.GoldenHit,
			GoldenTotal:    result.GoldenTotal,
		})
		if err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		out.SessionID = id
		s.log.Infof("Saved session %s: %d/%d (%s)", id,
			int(math.Round(result.Score)), int(math.Round(result.MaxScore)), result.Rank)
	}

	return out, nil
}

// Calibrate derives the singer's semitone offset from reference-tone
// recordings. tonePaths[i] is a take of the singer matching targets[i]
// (MIDI); nil targets means the default C4/E4/G4 set.
func (s *KaraokeService) Calibrate(ctx context.Context, tonePaths []string, targets []float64) (float64, error) {
	if targets == nil {
		targets = pitch.DefaultReferenceTones
	}
	if len(tonePaths) != len(targets) {
		return 0, fmt.Errorf("got %d recordings for %d reference tones", len(tonePaths), len(targets))
	}

	cal := pitch.NewCalibrator()
	for i, path := range tonePaths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		samples, sampleRate, err := audio.ReadWavAsFloat64(path)
		if err != nil {
			return 0, fmt.Errorf("reading tone %d: %w", i+1, err)
		}

		cal.BeginTone(targets[i])
		collected := 0
		for _, frame := range audio.SplitFrames(samples, sampleRate, audio.DefaultWindowSize, 0) {
			if freq, voiced := s.det.DetectVoice(frame.Samples, float64(sampleRate)); voiced {
				cal.AddSample(pitch.FreqToMidi(freq))
				collected++
			}
		}
		s.log.Debugf("Tone %d (%s): %d valid samples", i+1, pitch.NoteName(targets[i]), collected)
	}

	offset, err := cal.Offset()
	if err != nil {
		return 0, err
	}
	s.log.Infof("Calibration offset: %+.2f semitones", offset)
	return offset, nil
}

// ListSessions returns recent session history, newest first.
func (s *KaraokeService) ListSessions(limit int) ([]storage.SessionRecord, error) {
	return s.db.ListSessions(limit)
}

// SessionsForChart returns the history recorded against one chart key.
func (s *KaraokeService) SessionsForChart(chartKey string) ([]storage.SessionRecord, error) {
	return s.db.ListSessionsForChart(chartKey)
}

// GetSession fetches one session record by ID.
func (s *KaraokeService) GetSession(id string) (*storage.SessionRecord, error) {
	return s.db.GetSessionByID(id)
}

// DeleteSession removes one session record.
func (s *KaraokeService) DeleteSession(id string) error {
	return s.db.DeleteSessionByID(id)
}
