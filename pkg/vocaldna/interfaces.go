package vocaldna

import (
	"context"
)

// Service is the embeddable karaoke-scoring API: parse charts, score
// recorded takes against them, calibrate a singer, and browse history.
type Service interface {
	ParseChart(text string) (*ChartInfo, error)
	ParseChartFile(path string) (*ChartInfo, error)
	ScoreTake(ctx context.Context, chartText, takePath string) (*TakeScore, error)
	Calibrate(ctx context.Context, tonePaths []string) (float64, error)
	ListSessions(limit int) ([]SessionInfo, error)
	DeleteSession(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
