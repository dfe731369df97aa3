package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/himanishpuri/VocalDNA/pkg/utils"
)

// DefaultDBFile is the session-history database created when no path is
// configured.
const DefaultDBFile = "vocaldna.sqlite3"

const errDBClientNil = "db client is nil"

// DBClient wraps the GORM handle for session-history persistence.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// SessionRecord is one finished play session: who sang what, at which
// difficulty, and how it went.
type SessionRecord struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ChartKey   string `gorm:"index:idx_chart_key" json:"chart_key"`
	Title      string `gorm:"index:idx_session_meta,priority:1" json:"title"`
	Artist     string `gorm:"index:idx_session_meta,priority:2" json:"artist"`
	Difficulty string `json:"difficulty"`
	Player     int    `json:"player"`

	Score    int     `json:"score"`
	MaxScore int     `json:"max_score"`
	Percent  float64 `json:"percent"`
	Rank     string  `json:"rank"`

	OKCount        int `json:"ok_count"`
	GoodCount      int `json:"good_count"`
	ExcellentCount int `json:"excellent_count"`
	PerfectCount   int `json:"perfect_count"`
	GoldenHit      int `json:"golden_hit"`
	GoldenTotal    int `json:"golden_total"`

	CreatedAt time.Time `json:"created_at"`
}

// NewDBClient opens the database at VOCALDNA_DB_PATH, falling back to
// DefaultDBFile in the working directory.
func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("VOCALDNA_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

// NewDBClientWithPath opens (creating if needed) the database at dbPath and
// migrates the schema.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

// Close releases the underlying connection pool.
func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveSession stores one finished session and returns its generated ID.
func (c *DBClient) SaveSession(rec SessionRecord) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}
	if rec.ID == "" {
		rec.ID = utils.GenerateUUID()
	}
	if err := c.DB.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("creating session record: %w", err)
	}
	return rec.ID, nil
}

// ListSessions returns the most recent sessions, newest first. A limit of 0
// means no limit.
func (c *DBClient) ListSessions(limit int) ([]SessionRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	q := c.DB.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []SessionRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return recs, nil
}

// ListSessionsForChart returns the sessions recorded against one chart,
// newest first.
func (c *DBClient) ListSessionsForChart(chartKey string) ([]SessionRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var recs []SessionRecord
	err := c.DB.Where("chart_key = ?", chartKey).
		Order("created_at DESC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing sessions for chart: %w", err)
	}
	return recs, nil
}

// GetSessionByID fetches a single session record.
func (c *DBClient) GetSessionByID(id string) (*SessionRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rec SessionRecord
	if err := c.DB.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &rec, nil
}

// DeleteSessionByID removes one session record.
func (c *DBClient) DeleteSessionByID(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	res := c.DB.Delete(&SessionRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}
