package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Backend    string `yaml:"backend" validate:"required|in:memory,file,sqlite"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlitePath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type TrackerConfig struct {
	PageReadSeconds      int           `yaml:"pageReadSeconds" validate:"required|min:1"`
	PageReadInteractions int           `yaml:"pageReadInteractions" validate:"required|min:1"`
	InteractionThrottle  time.Duration `yaml:"interactionThrottle" validate:"required"`
	SaveInterval         time.Duration `yaml:"saveInterval" validate:"required"`
	PulseDuration        time.Duration `yaml:"pulseDuration" validate:"required"`
	SessionTTL           time.Duration `yaml:"sessionTTL"`
	SweepInterval        time.Duration `yaml:"sweepInterval"`
}

type LeaderboardConfig struct {
	RemoteURL string        `yaml:"remoteUrl"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Tracker     TrackerConfig     `yaml:"tracker"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	WebServer   Server            `yaml:"webServer"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
