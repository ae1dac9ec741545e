package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type DatabaseConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:sqlite,postgres"`
	DSN          string        `yaml:"dsn" validate:"required"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
}

// Persistence controls the compressed backup file. An empty BackupPath disables backups.
type Persistence struct {
	BackupPath   string        `yaml:"backupPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SchedulerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IngestInterval  time.Duration `yaml:"ingestInterval"`
	SummaryInterval time.Duration `yaml:"summaryInterval"`
}

type SteamConfig struct {
	BaseURL    string        `yaml:"baseUrl"`
	APIKey     string        `yaml:"apiKey"`
	SteamID    string        `yaml:"steamId"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retryCount"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName string
	Debug   bool
	Path    string
	// ReferenceDate pins "today" (YYYY-MM-DD) for demo datasets.
	ReferenceDate string          `yaml:"referenceDate"`
	WebServer     Server          `yaml:"webServer"`
	Database      DatabaseConfig  `yaml:"database"`
	Persistence   Persistence     `yaml:"persistence"`
	Logger        LoggerConfig    `yaml:"logger"`
	Scheduler     SchedulerConfig `yaml:"scheduler"`
	Steam         SteamConfig     `yaml:"steam"`
	Admin         AdminConfig     `yaml:"admin"`
	Cache         CacheConfig     `yaml:"cache"`
	Metrics       MetricsConfig   `yaml:"metrics"`
}
