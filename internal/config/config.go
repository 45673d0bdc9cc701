package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevelopmentAPIURL is the default backend when APP_ENV=development; it
	// matches the address cmd/devapi listens on.
	DevelopmentAPIURL = "http://localhost:8000/api/v1"

	MaxPageSize = 100
)

var ErrMissingAPIURL = errors.New("DIRECTORY_API_URL must be set in production")

// Config is the front end configuration. Values are read, in increasing
// precedence, from defaults, an optional YAML file and the environment.
type Config struct {
	Env      string `yaml:"env"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`

	PageSize   int           `yaml:"page_size"`
	Debounce   time.Duration `yaml:"debounce"`
	SessionTTL time.Duration `yaml:"session_ttl"`

	KeepAlive struct {
		URL      string        `yaml:"url"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"keepalive"`
}

func defaults() *Config {
	c := &Config{
		Env:        EnvDevelopment,
		Port:       "8080",
		LogLevel:   "info",
		PageSize:   8,
		Debounce:   500 * time.Millisecond,
		SessionTTL: 15 * time.Minute,
	}
	c.KeepAlive.Interval = 14 * time.Minute
	return c
}

// Load builds the configuration. path may be empty, in which case no YAML file
// is read. Callers load any .env file into the environment beforehand.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.Env = strings.ToLower(getEnvString("APP_ENV", cfg.Env))
	cfg.Port = getEnvString("PORT", cfg.Port)
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnvString("LOG_FILE_PATH", cfg.LogFile)
	cfg.API.BaseURL = getEnvString("DIRECTORY_API_URL", cfg.API.BaseURL)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)
	cfg.Debounce = getEnvDuration("SEARCH_DEBOUNCE", cfg.Debounce)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.KeepAlive.URL = getEnvString("KEEPALIVE_URL", cfg.KeepAlive.URL)
	cfg.KeepAlive.Interval = getEnvDuration("KEEPALIVE_INTERVAL", cfg.KeepAlive.Interval)

	if cfg.API.BaseURL == "" {
		if cfg.Env == EnvProduction {
			return nil, ErrMissingAPIURL
		}
		cfg.API.BaseURL = DevelopmentAPIURL
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV: unknown environment %q", c.Env)
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("PAGE_SIZE: %d is outside 1..%d", c.PageSize, MaxPageSize)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE: negative duration %s", c.Debounce)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL: must be positive, got %s", c.SessionTTL)
	}
	if c.KeepAlive.URL != "" && c.KeepAlive.Interval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL: must be positive, got %s", c.KeepAlive.Interval)
	}
	return nil
}

// DevAPIConfig configures cmd/devapi.
type DevAPIConfig struct {
	Port           string
	DBPath         string
	AllowedOrigins []string
	LogLevel       string
}

func LoadDevAPI() DevAPIConfig {
	var origins []string
	for _, o := range strings.Split(getEnvString("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return DevAPIConfig{
		Port:           getEnvString("DEVAPI_PORT", "8000"),
		DBPath:         getEnvString("DB_PATH", "directory.db"),
		AllowedOrigins: origins,
		LogLevel:       getEnvString("LOG_LEVEL", "info"),
	}
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// bare integers are milliseconds
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Millisecond
		}
	}
	return fallback
}
