package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the planner
// service.
type Config struct {
	HTTPPort           int
	SQLiteDSN          string
	SessionTTL         time.Duration
	SessionMaxAge      time.Duration
	PurgeRetentionDays int
	SummaryCacheTTL    time.Duration
	LoginRatePerMinute int
	LoginBurst         int
}

// Load parses configuration values from the current process environment.
//
// Every field has a default, so an empty environment yields a working local
// configuration. Set values are validated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:           8080,
		SQLiteDSN:          "file:planner.db?_foreign_keys=on",
		SessionTTL:         30 * time.Minute,
		SessionMaxAge:      24 * time.Hour,
		PurgeRetentionDays: 3,
		SummaryCacheTTL:    30 * time.Second,
		LoginRatePerMinute: 10,
		LoginBurst:         5,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("PLANNER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "PLANNER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if maxAgeValue := strings.TrimSpace(os.Getenv("PLANNER_SESSION_MAX_AGE")); maxAgeValue != "" {
		maxAge, err := time.ParseDuration(maxAgeValue)
		if err != nil || maxAge <= 0 {
			invalid = append(invalid, "PLANNER_SESSION_MAX_AGE")
		} else {
			cfg.SessionMaxAge = maxAge
		}
	}

	if retentionValue := strings.TrimSpace(os.Getenv("PLANNER_PURGE_RETENTION_DAYS")); retentionValue != "" {
		retention, err := strconv.Atoi(retentionValue)
		if err != nil || retention <= 0 {
			invalid = append(invalid, "PLANNER_PURGE_RETENTION_DAYS")
		} else {
			cfg.PurgeRetentionDays = retention
		}
	}

	if cacheValue := strings.TrimSpace(os.Getenv("PLANNER_SUMMARY_CACHE_TTL")); cacheValue != "" {
		cacheTTL, err := time.ParseDuration(cacheValue)
		if err != nil || cacheTTL <= 0 {
			invalid = append(invalid, "PLANNER_SUMMARY_CACHE_TTL")
		} else {
			cfg.SummaryCacheTTL = cacheTTL
		}
	}

	if rateValue := strings.TrimSpace(os.Getenv("PLANNER_LOGIN_RATE")); rateValue != "" {
		rate, err := strconv.Atoi(rateValue)
		if err != nil || rate <= 0 {
			invalid = append(invalid, "PLANNER_LOGIN_RATE")
		} else {
			cfg.LoginRatePerMinute = rate
		}
	}

	if burstValue := strings.TrimSpace(os.Getenv("PLANNER_LOGIN_BURST")); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "PLANNER_LOGIN_BURST")
		} else {
			cfg.LoginBurst = burst
		}
	}

	if cfg.SessionMaxAge < cfg.SessionTTL {
		invalid = append(invalid, "PLANNER_SESSION_MAX_AGE")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
