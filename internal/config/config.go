// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the Postgres target.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// NotionConfig configures the knowledge-base connection.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	PeopleDB  string  `yaml:"people_db" mapstructure:"people_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SourcesConfig points at the contact exports on disk. Empty paths
// disable that source.
type SourcesConfig struct {
	LinkedInCSV string `yaml:"linkedin_csv" mapstructure:"linkedin_csv"`
	MasterXLSX  string `yaml:"master_xlsx" mapstructure:"master_xlsx"`
	EmailCSV    string `yaml:"email_csv" mapstructure:"email_csv"`
}

// BatchConfig tunes persistence batching and the analyzer worker pool.
type BatchConfig struct {
	Size    int           `yaml:"size" mapstructure:"size"`
	Delay   time.Duration `yaml:"delay" mapstructure:"delay"`
	Workers int           `yaml:"workers" mapstructure:"workers"`
}

// AnalyzerConfig configures scoring.
type AnalyzerConfig struct {
	// VocabOverlay optionally points at a yaml file overriding keyword
	// tables.
	VocabOverlay string `yaml:"vocab_overlay" mapstructure:"vocab_overlay"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads placemat.yaml (current directory or $HOME/.placemat) and
// applies ACT_-prefixed environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("placemat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.placemat")

	v.SetEnvPrefix("ACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("batch.size", 25)
	v.SetDefault("batch.delay", "0s")
	v.SetDefault("batch.workers", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
		// No config file is fine; env and defaults carry it.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate checks constraints that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Batch.Size < 0 {
		return eris.New("config: batch.size must not be negative")
	}
	if c.Batch.Workers < 0 {
		return eris.New("config: batch.workers must not be negative")
	}
	if c.Notion.PeopleDB != "" && c.Notion.Token == "" {
		return eris.New("config: notion.people_db set without notion.token")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.New("config: server.port out of range")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
