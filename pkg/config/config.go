package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Queue     QueueConfig     `yaml:"queue"`
	Asana     AsanaConfig     `yaml:"asana"`
	Sync      SyncConfig      `yaml:"sync"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Logger    LoggerConfig    `yaml:"logger"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // bearer token for admin routes (empty disables auth)
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AsanaConfig external task service configuration
type AsanaConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c AsanaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QueueConfig reconcile queue configuration
type QueueConfig struct {
	Concurrency int `yaml:"concurrency"`  // queue processing concurrency
	MaxRetry    int `yaml:"max_retry"`    // maximum retry count
	TaskTimeout int `yaml:"task_timeout"` // task timeout (seconds)
}

// SyncConfig task cache sync configuration
type SyncConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"` // cache refresh interval
}

// Interval returns the sync interval as a duration.
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ReconcileConfig reconciliation configuration
type ReconcileConfig struct {
	Enabled              bool    `yaml:"enabled"`
	IntervalSeconds      int     `yaml:"interval_seconds"`      // how often departments are enqueued
	SimilarityThreshold  float64 `yaml:"similarity_threshold"`  // fuzzy match acceptance (0..1)
	TotalsCacheTTLSecond int     `yaml:"totals_cache_ttl_seconds"` // running-total cache TTL
}

// Interval returns the reconcile enqueue interval as a duration.
func (c ReconcileConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// TotalsCacheTTL returns the running-total cache TTL as a duration.
func (c ReconcileConfig) TotalsCacheTTL() time.Duration {
	return time.Duration(c.TotalsCacheTTLSecond) * time.Second
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// DefaultSyncConfig returns sync defaults.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{IntervalSeconds: 600}
}

// DefaultReconcileConfig returns reconcile defaults.
func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		Enabled:              true,
		IntervalSeconds:      3600,
		SimilarityThreshold:  0.4,
		TotalsCacheTTLSecond: 5,
	}
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	validateAndApplyDefaults(&cfg)

	GlobalConfig = &cfg
	return nil
}

// validateAndApplyDefaults clamps invalid values to defaults so a bad config
// file cannot take the service down.
func validateAndApplyDefaults(cfg *Config) {
	syncDefaults := DefaultSyncConfig()
	if cfg.Sync.IntervalSeconds <= 0 {
		cfg.Sync.IntervalSeconds = syncDefaults.IntervalSeconds
	}

	recDefaults := DefaultReconcileConfig()
	if cfg.Reconcile.IntervalSeconds <= 0 {
		cfg.Reconcile.IntervalSeconds = recDefaults.IntervalSeconds
	}
	if cfg.Reconcile.SimilarityThreshold <= 0 || cfg.Reconcile.SimilarityThreshold > 1 {
		cfg.Reconcile.SimilarityThreshold = recDefaults.SimilarityThreshold
	}
	if cfg.Reconcile.TotalsCacheTTLSecond <= 0 {
		cfg.Reconcile.TotalsCacheTTLSecond = recDefaults.TotalsCacheTTLSecond
	}

	if cfg.Asana.TimeoutSeconds <= 0 {
		cfg.Asana.TimeoutSeconds = 30
	}

	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = 1
	}
	if cfg.Queue.MaxRetry < 0 {
		cfg.Queue.MaxRetry = 0
	}
	if cfg.Queue.TaskTimeout <= 0 {
		cfg.Queue.TaskTimeout = 300
	}
}
