package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BaseURL         string
	WSURL           string
	CacheFile       string
	HTTPTimeout     time.Duration
	RoomsTTL        time.Duration
	EnforceFavorite bool
}

func Load() (*Config, error) {
	httpTimeout, err := time.ParseDuration(getEnv("FOOTY_HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("FOOTY_HTTP_TIMEOUT: %w", err)
	}

	roomsTTL, err := time.ParseDuration(getEnv("FOOTY_ROOMS_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FOOTY_ROOMS_TTL: %w", err)
	}

	enforce, err := strconv.ParseBool(getEnv("FOOTY_ENFORCE_FAVORITE", "true"))
	if err != nil {
		return nil, fmt.Errorf("FOOTY_ENFORCE_FAVORITE: %w", err)
	}

	cfg := &Config{
		BaseURL:         getEnv("FOOTY_BASE_URL", "http://localhost:8000"),
		WSURL:           getEnv("FOOTY_WS_URL", ""),
		CacheFile:       getEnv("FOOTY_CACHE", "footy-social.db"),
		HTTPTimeout:     httpTimeout,
		RoomsTTL:        roomsTTL,
		EnforceFavorite: enforce,
	}

	if cfg.WSURL == "" {
		cfg.WSURL = deriveWSURL(cfg.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("FOOTY_BASE_URL is required")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("FOOTY_HTTP_TIMEOUT must be greater than 0")
	}

	if c.RoomsTTL <= 0 {
		return fmt.Errorf("FOOTY_ROOMS_TTL must be greater than 0")
	}

	return nil
}

func deriveWSURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
