package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken string
	DatabaseURL   string
	AdminChatID   int64 // moderator channel where applications are reviewed
	TargetGroupID int64 // community group applicants are requesting to join

	Location          *time.Location // display timezone for moderator-facing timestamps
	RequestExpiry     time.Duration  // pending requests older than this are auto-declined
	ExpiryCronSpec    string
	HTTPClientTimeout time.Duration
	LongPollTimeout   time.Duration
	StatsRecentDays   int

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AdminChatID, err = requiredInt64("ADMIN_CHAT_ID")
	if err != nil {
		return nil, err
	}

	cfg.TargetGroupID, err = requiredInt64("TARGET_GROUP_ID")
	if err != nil {
		return nil, err
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Almaty"
	}
	cfg.Location, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	expiryHours, err := optionalInt("REQUEST_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if expiryHours <= 0 {
		return nil, fmt.Errorf("REQUEST_EXPIRY_HOURS must be positive, got %d", expiryHours)
	}
	cfg.RequestExpiry = time.Duration(expiryHours) * time.Hour

	cfg.ExpiryCronSpec = os.Getenv("EXPIRY_CRON_SPEC")
	if cfg.ExpiryCronSpec == "" {
		cfg.ExpiryCronSpec = "0 * * * *" // hourly
	}

	httpTimeout, err := optionalInt("HTTP_CLIENT_TIMEOUT_SEC", 30)
	if err != nil {
		return nil, err
	}
	cfg.HTTPClientTimeout = time.Duration(httpTimeout) * time.Second

	pollTimeout, err := optionalInt("LONG_POLL_TIMEOUT_SEC", 10)
	if err != nil {
		return nil, err
	}
	cfg.LongPollTimeout = time.Duration(pollTimeout) * time.Second

	cfg.StatsRecentDays, err = optionalInt("STATS_RECENT_DAYS", 7)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

func requiredInt64(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is not set", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func optionalInt(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
