package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"agrowaste-backend/internal/application/impact"
	"agrowaste-backend/internal/application/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	LogLevel            string

	QueryTimeout      time.Duration // per store read
	AnalyticsCacheTTL time.Duration // 0 disables the result cache

	CarbonTargetKg       float64
	TreeAbsorptionKg     float64
	SearchDefaultRadiusM float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("QUERY_TIMEOUT", "10s")
	v.SetDefault("ANALYTICS_CACHE_TTL", "60s")
	v.SetDefault("CARBON_TARGET_KG", impact.DefaultCarbonTargetKg)
	v.SetDefault("TREE_ABSORPTION_KG", impact.DefaultTreeAbsorptionKg)
	v.SetDefault("SEARCH_DEFAULT_RADIUS_M", search.DefaultRadiusMeters)
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == EnvProduction {
		dbURL = v.GetString("DATABASE_URL_PROD")
	} else if env == EnvTest {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	cfg := &Config{
		Env:                  env,
		Port:                 v.GetString("PORT"),
		DatabaseURL:          dbURL,
		RedisURL:             v.GetString("REDIS_URL"),
		FrontendURLEndsWith:  v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:          v.GetString("DEV_PASSWORD"),
		HealthAdminKey:       v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		QueryTimeout:         v.GetDuration("QUERY_TIMEOUT"),
		AnalyticsCacheTTL:    v.GetDuration("ANALYTICS_CACHE_TTL"),
		CarbonTargetKg:       v.GetFloat64("CARBON_TARGET_KG"),
		TreeAbsorptionKg:     v.GetFloat64("TREE_ABSORPTION_KG"),
		SearchDefaultRadiusM: v.GetFloat64("SEARCH_DEFAULT_RADIUS_M"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	if c.AnalyticsCacheTTL < 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must not be negative")
	}
	if c.CarbonTargetKg <= 0 || c.TreeAbsorptionKg <= 0 {
		return fmt.Errorf("CARBON_TARGET_KG and TREE_ABSORPTION_KG must be positive")
	}
	if c.SearchDefaultRadiusM <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_RADIUS_M must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// ImpactModel is the default factor table with the configured constants.
func (c *Config) ImpactModel() impact.Model {
	m := impact.DefaultModel()
	m.CarbonTargetKg = c.CarbonTargetKg
	m.TreeAbsorptionKg = c.TreeAbsorptionKg
	return m
}

// SetupLogging sets the global zerolog level and, in development, a console writer.
func (c *Config) SetupLogging() {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if c.Env == EnvDevelopment {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
