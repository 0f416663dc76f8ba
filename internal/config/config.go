// Package config loads application configuration from file and
// environment, and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Quality   QualityConfig   `yaml:"quality" mapstructure:"quality"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DedupConfig configures the deduplication session.
type DedupConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	PreferPlaceID  bool    `yaml:"prefer_place_id" mapstructure:"prefer_place_id"`
	OnDuplicate    string  `yaml:"on_duplicate" mapstructure:"on_duplicate"`
}

// QualityConfig configures the lead quality filter.
type QualityConfig struct {
	Enabled       bool     `yaml:"enabled" mapstructure:"enabled"`
	Keywords      []string `yaml:"keywords" mapstructure:"keywords"`
	RequireSocial bool     `yaml:"require_social" mapstructure:"require_social"`
}

// EnrichConfig configures website enrichment.
type EnrichConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency    int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// NominatimConfig configures the OSM geocoding client.
type NominatimConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Email     string `yaml:"email" mapstructure:"email"`
}

// ExportConfig configures export adapters.
type ExportConfig struct {
	OutputDir    string   `yaml:"output_dir" mapstructure:"output_dir"`
	Formats      []string `yaml:"formats" mapstructure:"formats"`
	CSVDelimiter string   `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	CSVEncoding  string   `yaml:"csv_encoding" mapstructure:"csv_encoding"`
	SQLiteTable  string   `yaml:"sqlite_table" mapstructure:"sqlite_table"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "./data/leadgen.db")
	v.SetDefault("dedup.fuzzy_threshold", 0.85)
	v.SetDefault("dedup.prefer_place_id", true)
	v.SetDefault("dedup.on_duplicate", "merge")
	v.SetDefault("quality.enabled", true)
	v.SetDefault("quality.require_social", true)
	v.SetDefault("enrich.timeout_secs", 10)
	v.SetDefault("enrich.concurrency", 5)
	v.SetDefault("enrich.requests_per_sec", 2.0)
	v.SetDefault("enrich.user_agent", "Mozilla/5.0 (compatible; leadgen-cli/1.0)")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "leadgen-cli/1.0")
	v.SetDefault("export.output_dir", "./data")
	v.SetDefault("export.formats", []string{"csv", "json", "sqlite"})
	v.SetDefault("export.csv_delimiter", ",")
	v.SetDefault("export.csv_encoding", "utf-8")
	v.SetDefault("export.sqlite_table", "leads")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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
