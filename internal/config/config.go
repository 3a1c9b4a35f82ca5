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
	Affluences AffluencesConfig `yaml:"affluences" mapstructure:"affluences"`
	Region     RegionConfig     `yaml:"region" mapstructure:"region"`
	Sync       SyncConfig       `yaml:"sync" mapstructure:"sync"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AffluencesConfig holds directory API settings.
type AffluencesConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	Category     int     `yaml:"category" mapstructure:"category"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RegionConfig configures the geographic filter.
type RegionConfig struct {
	Name      string `yaml:"name" mapstructure:"name"`
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
}

// SyncConfig configures the enrichment phase.
type SyncConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the local snapshot database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures output files.
type ExportConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	CSVName  string `yaml:"csv_name" mapstructure:"csv_name"`
	MapName  string `yaml:"map_name" mapstructure:"map_name"`
	XLSXName string `yaml:"xlsx_name" mapstructure:"xlsx_name"`
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
	v.SetEnvPrefix("SEATMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("affluences.base_url", "https://api.affluences.com")
	v.SetDefault("affluences.user_agent", "seatmap/1.0 (+https://github.com/maraisdata/seatmap)")
	v.SetDefault("affluences.category", 1)
	v.SetDefault("affluences.rate_limit_rps", 8.0)
	v.SetDefault("affluences.timeout_secs", 20)
	v.SetDefault("region.name", "Île-de-France")
	v.SetDefault("sync.concurrency", 4)
	v.SetDefault("store.path", "seatmap.db")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.csv_name", "ile_de_france_libraries.csv")
	v.SetDefault("export.map_name", "ile_de_france_libraries_map.html")
	v.SetDefault("export.xlsx_name", "ile_de_france_libraries.xlsx")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
