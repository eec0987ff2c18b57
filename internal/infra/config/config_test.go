package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("ADMIN_CHAT_ID", "-100200")
	t.Setenv("TARGET_GROUP_ID", "-100300")
}

func clearOptional(t *testing.T) {
	for _, name := range []string{
		"TIMEZONE", "REQUEST_EXPIRY_HOURS", "EXPIRY_CRON_SPEC",
		"HTTP_CLIENT_TIMEOUT_SEC", "LONG_POLL_TIMEOUT_SEC",
		"STATS_RECENT_DAYS", "LOG_LEVEL", "ENVIRONMENT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	clearOptional(t)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, int64(-100200), cfg.AdminChatID)
	assert.Equal(t, int64(-100300), cfg.TargetGroupID)
	assert.Equal(t, "Asia/Almaty", cfg.Location.String())
	assert.Equal(t, 24*time.Hour, cfg.RequestExpiry)
	assert.Equal(t, "0 * * * *", cfg.ExpiryCronSpec)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 10*time.Second, cfg.LongPollTimeout)
	assert.Equal(t, 7, cfg.StatsRecentDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REQUEST_EXPIRY_HOURS", "48")
	t.Setenv("EXPIRY_CRON_SPEC", "*/30 * * * *")
	t.Setenv("STATS_RECENT_DAYS", "30")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 48*time.Hour, cfg.RequestExpiry)
	assert.Equal(t, "*/30 * * * *", cfg.ExpiryCronSpec)
	assert.Equal(t, 30, cfg.StatsRecentDays)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingRequired(t *testing.T) {
	cases := []struct {
		name string
	}{
		{"TELEGRAM_TOKEN"},
		{"DATABASE_URL"},
		{"ADMIN_CHAT_ID"},
		{"TARGET_GROUP_ID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			clearOptional(t)
			t.Setenv(tc.name, "")

			_, err := Load()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.name)
			}
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("non-numeric chat id", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("ADMIN_CHAT_ID", "not-a-number")

		_, err := Load()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "ADMIN_CHAT_ID")
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

		_, err := Load()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "TIMEZONE")
		}
	})

	t.Run("non-positive expiry", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("REQUEST_EXPIRY_HOURS", "0")

		_, err := Load()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "REQUEST_EXPIRY_HOURS")
		}
	})
}
