package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	REDIS_ADDR               redis address for reset tokens
//	JWT_ACCESS_SECRET        HMAC secret for access tokens (required)
//	JWT_REFRESH_SECRET       HMAC secret for refresh tokens (required)
//	JWT_ACCESS_EXPIRES_IN    access token lifetime, e.g. "15m"
//	JWT_REFRESH_EXPIRES_IN   refresh token lifetime, e.g. "7d"
//	RESET_TOKEN_EXPIRES_IN   reset token lifetime, e.g. "30m"
//	OMDB_API_KEY             metadata provider API key
//	OMDB_BASE_URL            metadata provider base URL
func parseEnv(config *Config) error {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("JWT_ACCESS_SECRET"); ok {
		config.AccessSecret = v
	}
	if v, ok := os.LookupEnv("JWT_REFRESH_SECRET"); ok {
		config.RefreshSecret = v
	}
	if v, ok := os.LookupEnv("OMDB_API_KEY"); ok {
		config.OMDbAPIKey = v
	}
	if v, ok := os.LookupEnv("OMDB_BASE_URL"); ok {
		config.OMDbBaseURL = v
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"JWT_ACCESS_EXPIRES_IN", &config.AccessTokenValidityDuration},
		{"JWT_REFRESH_EXPIRES_IN", &config.RefreshTokenValidityDuration},
		{"RESET_TOKEN_EXPIRES_IN", &config.ResetTokenValidityDuration},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.name)
		if !ok {
			continue
		}
		parsed, err := parseExpiry(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

// parseExpiry parses a token lifetime. It accepts everything
// time.ParseDuration accepts plus a day suffix ("7d"), which is how
// refresh-token lifetimes are conventionally written.
func parseExpiry(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
