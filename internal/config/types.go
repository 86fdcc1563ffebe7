package config

import "time"

// Config holds the non-secret runtime settings.
//
// Secrets (API token, bot token, chat id) never live in the config file;
// they come from the environment, see secrets.go.
type Config struct {
	// Endpoint is the homework-status API URL.
	Endpoint string `json:"endpoint"`

	// Schedule controls how often a poll cycle runs.
	// Accepts a Go duration ("10m"), HH:MM ("00:10"), or a cron
	// expression ("*/10 * * * *", "@every 10m"). See internal/schedule.
	Schedule string `json:"schedule"`

	// RequestTimeout bounds one API call. Go duration string.
	RequestTimeout string `json:"request_timeout"`

	// SendTimeout bounds one Telegram send. Go duration string.
	SendTimeout string `json:"send_timeout"`

	Notify  NotifyConfig  `json:"notify"`
	Logging LoggingConfig `json:"logging"`
}

// NotifyConfig controls outbound Telegram delivery.
type NotifyConfig struct {
	// RatePerSec is the token-bucket rate for sends (Telegram flood
	// protection). Defaults to 1.
	RatePerSec int `json:"rate_per_sec"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultSchedule       = "10m"
	DefaultRequestTimeout = 3 * time.Second
	DefaultSendTimeout    = 3 * time.Second
	DefaultRatePerSec     = 1
)

// Default returns a fully populated config matching the documented defaults.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills zero-valued fields with defaults. It does not validate;
// call Validate afterwards.
func (c *Config) Normalize() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Schedule == "" {
		c.Schedule = DefaultSchedule
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = DefaultRequestTimeout.String()
	}
	if c.SendTimeout == "" {
		c.SendTimeout = DefaultSendTimeout.String()
	}
	if c.Notify.RatePerSec <= 0 {
		c.Notify.RatePerSec = DefaultRatePerSec
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	// Console stays as written; logx falls back to console output when
	// no sink is enabled, so a zero Logging section still logs.
}
