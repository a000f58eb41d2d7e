// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Bot    BotConfig
}

// ServerConfig configures the store API and the domain prober.
type ServerConfig struct {
	Port            string
	DBPath          string
	ProbeTimeout    time.Duration
	ProbeWorkers    int
	SearchRateLimit int // requests per minute per IP on /search-domains
}

// BotConfig configures the chat front-end.
type BotConfig struct {
	Token        string
	APIURL       string
	AdminIDs     []string
	StoreTimeout time.Duration
	MetricsAddr  string
	Redis        RedisConfig
}

// RedisConfig enables persisted chat sessions when Addr is set.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// Enabled reports whether sessions should be stored in Redis.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5001"),
			DBPath:          getEnv("DB_PATH", "./data/todos.db"),
			ProbeTimeout:    getEnvDuration("PROBE_TIMEOUT", 5*time.Second),
			ProbeWorkers:    getEnvInt("PROBE_WORKERS", 8),
			SearchRateLimit: getEnvInt("SEARCH_RATE_LIMIT", 30),
		},
		Bot: BotConfig{
			Token:        getEnv("BOT_TOKEN", ""),
			APIURL:       strings.TrimRight(getEnv("API_URL", "http://localhost:5001"), "/"),
			AdminIDs:     splitList(getEnv("ADMIN_IDS", "")),
			StoreTimeout: getEnvDuration("STORE_TIMEOUT", 10*time.Second),
			MetricsAddr:  getEnv("METRICS_ADDR", ""),
			Redis: RedisConfig{
				Addr:       getEnv("REDIS_ADDR", ""),
				Password:   getEnv("REDIS_PASSWORD", ""),
				DB:         getEnvInt("REDIS_DB", 0),
				SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields shared by both binaries.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Server.ProbeTimeout <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT must be > 0")
	}
	if c.Server.ProbeWorkers <= 0 {
		return fmt.Errorf("PROBE_WORKERS must be > 0")
	}
	if c.Server.SearchRateLimit <= 0 {
		return fmt.Errorf("SEARCH_RATE_LIMIT must be > 0")
	}
	if c.Bot.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be > 0")
	}
	return nil
}

// ValidateBot checks the fields only the bot needs.
func (c *Config) ValidateBot() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN cannot be empty")
	}
	if c.Bot.APIURL == "" {
		return fmt.Errorf("API_URL cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
