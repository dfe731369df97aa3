package vocaldna

type Config struct {
	DBPath            string
	Difficulty        string
	CalibrationOffset float64
	Logger            Logger
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithDifficulty(name string) Option {
	return func(c *Config) {
		c.Difficulty = name
	}
}

func WithCalibrationOffset(offset float64) Option {
	return func(c *Config) {
		c.CalibrationOffset = offset
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:     "vocaldna.sqlite3",
		Difficulty: "normal",
		Logger:     nil,
	}
}
