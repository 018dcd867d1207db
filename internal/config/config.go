package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Index   IndexConfig   `yaml:"index" mapstructure:"index"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the per-date export directories and decides which
// file wins when several carry the same entity kind.
type SourcesConfig struct {
	Roots          []string     `yaml:"roots" mapstructure:"roots"`
	FinalMarkers   FinalMarkers `yaml:"final_markers" mapstructure:"final_markers"`
	RegistryPrefix string       `yaml:"registry_prefix" mapstructure:"registry_prefix"`
}

// FinalMarkers are the ordered filename markers per entity kind. Earlier
// markers outrank later ones.
type FinalMarkers struct {
	Company []string `yaml:"company" mapstructure:"company"`
	Person  []string `yaml:"person" mapstructure:"person"`
}

// IndexConfig configures the embedded search index.
type IndexConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	AuthToken   string   `yaml:"auth_token" mapstructure:"auth_token"`
	UploadRate  float64  `yaml:"upload_rate" mapstructure:"upload_rate"`
	UploadBurst int      `yaml:"upload_burst" mapstructure:"upload_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// SearchConfig bounds search page sizes.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit     int `yaml:"max_limit" mapstructure:"max_limit"`
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
	v.SetEnvPrefix("LEADINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.roots", []string{"data", "/srv/leadindex/data"})
	v.SetDefault("sources.final_markers.company", []string{"final"})
	v.SetDefault("sources.final_markers.person", []string{"final"})
	v.SetDefault("sources.registry_prefix", "kungorelser")
	v.SetDefault("index.path", "data/.index.db")
	v.SetDefault("index.concurrency", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.auth_token", "")
	v.SetDefault("server.upload_rate", 1.0)
	v.SetDefault("server.upload_burst", 3)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("search.default_limit", 50)
	v.SetDefault("search.max_limit", 500)
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

// Validate checks the fields a command mode depends on. Mode "query" covers
// every command that reads the data directories; "serve" adds the HTTP
// settings.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "query", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(c.Sources.Roots) == 0 {
		problems = append(problems, "sources.roots must list at least one directory")
	}
	for i, r := range c.Sources.Roots {
		if strings.TrimSpace(r) == "" {
			problems = append(problems, fmt.Sprintf("sources.roots[%d] is empty", i))
		}
	}
	if c.Index.Path == "" {
		problems = append(problems, "index.path is required")
	}
	if c.Index.Concurrency < 1 || c.Index.Concurrency > 64 {
		problems = append(problems, "index.concurrency must be between 1 and 64")
	}
	if c.Search.MaxLimit < 1 {
		problems = append(problems, "search.max_limit must be > 0")
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		problems = append(problems, "search.default_limit must be between 1 and search.max_limit")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.UploadRate <= 0 {
			problems = append(problems, "server.upload_rate must be > 0")
		}
		if c.Server.UploadBurst < 1 {
			problems = append(problems, "server.upload_burst must be >= 1")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
