package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// sentry
	SentryEnabled bool `toml:"sentry_enabled"`
	// storage - a directory holding one JSON document per entity kind
	DataDirPath string `toml:"data_dir_path"`
	// blog content generation
	GeminiModel     string `toml:"gemini_model"`
	SeedSampleBlogs bool   `toml:"seed_sample_blogs"`
	// redis, used for request rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// rate limits for the abuse-prone endpoints
	ContactRateLimitAllowedPerMin  int `toml:"contact_rate_limit_allowed_per_min"`
	GenerateRateLimitAllowedPerMin int `toml:"generate_rate_limit_allowed_per_min"`
	// prometheus metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// tracing
	HoneycombTracingEnabled bool `toml:"honeycomb_tracing_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = env

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.ContactRateLimitAllowedPerMin <= 0 {
		cfg.ContactRateLimitAllowedPerMin = 10
	}
	if cfg.GenerateRateLimitAllowedPerMin <= 0 {
		cfg.GenerateRateLimitAllowedPerMin = 5
	}

	return cfg, nil
}
