package vocaldna

import (
	"context"
	"fmt"

	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/service"
	"github.com/himanishpuri/VocalDNA/pkg/logger"
)

type karaokeService struct {
	inner *service.KaraokeService
	cfg   *Config
	log   Logger
}

// NewService builds a Service with the given options. The zero configuration
// scores at normal difficulty against vocaldna.sqlite3 in the working
// directory.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	inner, err := service.NewKaraokeServiceWithDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening service: %w", err)
	}
	return &karaokeService{inner: inner, cfg: cfg, log: cfg.Logger}, nil
}

func (s *karaokeService) ParseChart(text string) (*ChartInfo, error) {
	if text == "" {
		return nil, fmt.Errorf("empty chart text")
	}
	song, key := s.inner.LoadChart(text)
	return chartToInfo(song, key), nil
}

func (s *karaokeService) ParseChartFile(path string) (*ChartInfo, error) {
	song, key, err := s.inner.LoadChartFile(path)
	if err != nil {
		return nil, err
	}
	return chartToInfo(song, key), nil
}

func (s *karaokeService) ScoreTake(ctx context.Context, chartText, takePath string) (*TakeScore, error) {
	res, err := s.inner.ScoreTake(ctx, service.ScoreRequest{
		ChartText:         chartText,
		TakePath:          takePath,
		Difficulty:        s.cfg.Difficulty,
		CalibrationOffset: s.cfg.CalibrationOffset,
		Persist:           true,
	})
	if err != nil {
		return nil, err
	}
	return &TakeScore{
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
	}, nil
}

func (s *karaokeService) Calibrate(ctx context.Context, tonePaths []string) (float64, error) {
	return s.inner.Calibrate(ctx, tonePaths, nil)
}

func (s *karaokeService) ListSessions(limit int) ([]SessionInfo, error) {
	recs, err := s.inner.ListSessions(limit)
	if err != nil {
		return nil, err
	}
	infos := make([]SessionInfo, len(recs))
	for i, rec := range recs {
		infos[i] = SessionInfo{
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
			CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return infos, nil
}

func (s *karaokeService) DeleteSession(id string) error {
	return s.inner.DeleteSession(id)
}

func (s *karaokeService) Close() error {
	return s.inner.Close()
}

func chartToInfo(song *chart.Song, key string) *ChartInfo {
	info := &ChartInfo{
		Key:       key,
		Title:     song.Meta.Title,
		Artist:    song.Meta.Artist,
		BPM:       song.Meta.BPM,
		GapMs:     song.Meta.GapMs,
		HasTiming: song.HasTiming(),
		IsDuet:    song.Meta.IsDuet(),
		NoteCount: len(song.Notes(chart.PlayerBoth)),
		Lines:     make([]LineInfo, len(song.Lines)),
	}
	for i, line := range song.Lines {
		info.Lines[i] = LineInfo{
			Text:      line.RenderedText(),
			Player:    int(line.Player),
			StartTime: line.StartTime,
			EndTime:   line.EndTime,
			NoteCount: len(line.Notes()),
		}
	}
	return info
}
