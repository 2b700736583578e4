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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the record store backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Path        string     `yaml:"path" mapstructure:"path"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds optional Postgres connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// IngestConfig names the workbook sheets to load.
type IngestConfig struct {
	ApplicantsSheet string `yaml:"applicants_sheet" mapstructure:"applicants_sheet"`
	EmployeesSheet  string `yaml:"employees_sheet" mapstructure:"employees_sheet"`
	TypesSheet      string `yaml:"types_sheet" mapstructure:"types_sheet"`
}

// ResolveConfig configures name matching. All options default to off:
// exact byte equality is the documented baseline behavior, and each
// normalization is an explicit opt-in.
type ResolveConfig struct {
	FoldCase        bool `yaml:"fold_case" mapstructure:"fold_case"`
	TrimSpace       bool `yaml:"trim_space" mapstructure:"trim_space"`
	StripDiacritics bool `yaml:"strip_diacritics" mapstructure:"strip_diacritics"`
}

// MetricsConfig configures the aggregation stage.
type MetricsConfig struct {
	MaxConcurrentGroups int `yaml:"max_concurrent_groups" mapstructure:"max_concurrent_groups"`
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
	v.SetEnvPrefix("HRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key gets one so AutomaticEnv can bind it.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "hr-analytics.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.pool.max_conns", 0)
	v.SetDefault("store.pool.min_conns", 0)
	v.SetDefault("resolve.fold_case", false)
	v.SetDefault("resolve.trim_space", false)
	v.SetDefault("resolve.strip_diacritics", false)
	v.SetDefault("ingest.applicants_sheet", "Applicants")
	v.SetDefault("ingest.employees_sheet", "Employees")
	// Trailing space matches the sheet name as exported upstream.
	v.SetDefault("ingest.types_sheet", "Employment type ")
	v.SetDefault("metrics.max_concurrent_groups", 8)
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

// Validate checks that the selected store backend is usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for the postgres driver (HRA_STORE_DATABASE_URL)")
		}
	case "sqlite":
		if c.Store.Path == "" {
			return eris.New("config: store.path is required for the sqlite driver (HRA_STORE_PATH)")
		}
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
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
