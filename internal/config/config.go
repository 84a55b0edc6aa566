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
	Runway RunwayConfig `yaml:"runway" mapstructure:"runway"`
	Browse BrowseConfig `yaml:"browse" mapstructure:"browse"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// RunwayConfig holds the tender API settings.
type RunwayConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	SiteURL          string  `yaml:"site_url" mapstructure:"site_url"`
	Token            string  `yaml:"token" mapstructure:"token"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	RateLimit        float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	// BreakerThreshold is the number of consecutive transient failures that
	// opens the circuit. 0 disables the breaker.
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// BrowseConfig configures listing pages.
type BrowseConfig struct {
	PageSize    int `yaml:"page_size" mapstructure:"page_size"`
	StoredLimit int `yaml:"stored_limit" mapstructure:"stored_limit"`
}

// StoreConfig configures the persisted tender store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("runway.base_url", "https://staging.runway.org.in/api")
	v.SetDefault("runway.site_url", "https://runway.org.in")
	v.SetDefault("runway.token", "")
	v.SetDefault("runway.timeout_secs", 30)
	v.SetDefault("runway.max_attempts", 1)
	v.SetDefault("runway.initial_backoff_ms", 250)
	v.SetDefault("runway.rate_limit", 5.0)
	v.SetDefault("runway.breaker_threshold", 5)
	v.SetDefault("runway.breaker_reset_secs", 30)
	v.SetDefault("browse.page_size", 10)
	v.SetDefault("browse.stored_limit", 50)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tenders.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command mode depends on. Modes: "serve",
// "api" (commands that only talk to the tender API) and "store".
func (c *Config) Validate(mode string) error {
	var problems []string

	requireAPI := func() {
		if c.Runway.BaseURL == "" {
			problems = append(problems, "runway.base_url is required")
		}
		if c.Browse.PageSize < 1 || c.Browse.PageSize > 100 {
			problems = append(problems, "browse.page_size must be between 1 and 100")
		}
		if c.Runway.MaxAttempts < 1 {
			problems = append(problems, "runway.max_attempts must be >= 1")
		}
	}
	requireStore := func() {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	}

	switch mode {
	case "serve":
		requireAPI()
		requireStore()
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	case "api":
		requireAPI()
	case "store":
		requireStore()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
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
