// Package config loads application configuration from config.yaml and the
// LEADGEN_* environment, and initializes the global logger.
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
	Google GoogleConfig `yaml:"google" mapstructure:"google"`
	Hunter HunterConfig `yaml:"hunter" mapstructure:"hunter"`
	Apollo ApolloConfig `yaml:"apollo" mapstructure:"apollo"`
	Bigin  BiginConfig  `yaml:"bigin" mapstructure:"bigin"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// HunterConfig holds Hunter domain-search settings. MonthlyLimit is the
// hard per-run ceiling on domain-search calls.
type HunterConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	MonthlyLimit int    `yaml:"monthly_limit" mapstructure:"monthly_limit"`
}

// ApolloConfig holds Apollo org/people search settings. Location scopes
// every organization search to one geography.
type ApolloConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Location string `yaml:"location" mapstructure:"location"`
}

// BiginConfig holds Zoho Bigin CRM settings.
type BiginConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SearchConfig holds place-search defaults.
type SearchConfig struct {
	Location    string `yaml:"location" mapstructure:"location"`
	RadiusM     int    `yaml:"radius_m" mapstructure:"radius_m"`
	MaxResults  int    `yaml:"max_results" mapstructure:"max_results"`
	QueriesFile string `yaml:"queries_file" mapstructure:"queries_file"`
}

// OutputConfig configures where CSV/JSON results are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the local run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.monthly_limit", 25)
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("apollo.location", "San Antonio, Texas, United States")
	v.SetDefault("bigin.base_url", "https://www.zohoapis.com/bigin/v2")
	v.SetDefault("bigin.rate_limit", 2.0)
	v.SetDefault("search.location", "San Antonio, TX")
	v.SetDefault("search.radius_m", 40000)
	v.SetDefault("search.max_results", 60)
	v.SetDefault("output.dir", "output")
	v.SetDefault("store.path", "leadgen.db")
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

// Validate checks that the credentials required for the selected mode are
// present. Live mode additionally needs the CRM token. Called before any
// network activity so missing credentials fail fast.
func (c *Config) Validate(live bool) error {
	var missing []string
	if c.Google.APIKey == "" {
		missing = append(missing, "google.api_key (LEADGEN_GOOGLE_API_KEY)")
	}
	if live && c.Bigin.Token == "" {
		missing = append(missing, "bigin.token (LEADGEN_BIGIN_TOKEN)")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
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
