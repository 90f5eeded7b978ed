// Package config loads application configuration from an optional
// config.yaml plus LEADGEN_* environment variables.
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
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Scrape ScrapeConfig `yaml:"scrape" mapstructure:"scrape"`
	NAL    NALConfig    `yaml:"nal" mapstructure:"nal"`
	PDF    PDFConfig    `yaml:"pdf" mapstructure:"pdf"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend. Driver is "postgres"
// or "sqlite"; Path is the SQLite file when the sqlite driver is used.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ScrapeConfig configures the permit portal scrapers.
type ScrapeConfig struct {
	DaysBack      int `yaml:"days_back" mapstructure:"days_back"`
	MaxPages      int `yaml:"max_pages" mapstructure:"max_pages"`
	PageDelaySecs int `yaml:"page_delay_secs" mapstructure:"page_delay_secs"`
}

// NALConfig configures NAL file processing.
type NALConfig struct {
	MinScore int    `yaml:"min_score" mapstructure:"min_score"`
	TempDir  string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// PDFConfig configures PDF lead import.
type PDFConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// ExportConfig configures the call-sheet export.
type ExportConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// ServerConfig configures the read-only API server.
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
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.path", "leadgen.db")
	v.SetDefault("scrape.days_back", 1)
	v.SetDefault("scrape.max_pages", 20)
	v.SetDefault("scrape.page_delay_secs", 3)
	v.SetDefault("nal.min_score", 20)
	v.SetDefault("nal.temp_dir", "/tmp/leadgen-nal")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pdf.concurrency", 4)
	v.SetDefault("export.limit", 200)
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

// Validate checks the configuration needed for the given mode
// ("store", "scrape", or "serve"). Store checks apply to every mode
// since all commands persist through the store.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	default:
		problems = append(problems, "store.driver must be postgres or sqlite")
	}

	switch mode {
	case "store":
	case "scrape":
		if c.Scrape.MaxPages < 1 {
			problems = append(problems, "scrape.max_pages must be >= 1")
		}
		if c.Scrape.DaysBack < 1 {
			problems = append(problems, "scrape.days_back must be >= 1")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
