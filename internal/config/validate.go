package config

import (
	"fmt"
	"net/url"
	"time"

	"hwbot/internal/schedule"
)

// Validate checks a normalized config. It is also used as the hot-reload
// validator so a broken edit never replaces a working config.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint: unsupported scheme %q", u.Scheme)
	}

	if _, err := schedule.Parse(c.Schedule); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	if _, err := ParseDurationField("request_timeout", c.RequestTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("send_timeout", c.SendTimeout); err != nil {
		return err
	}
	return nil
}

// RequestTimeoutDuration returns the per-call HTTP timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := ParseDurationOrDefault("request_timeout", c.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

// SendTimeoutDuration returns the per-send Telegram timeout.
func (c *Config) SendTimeoutDuration() time.Duration {
	d, err := ParseDurationOrDefault("send_timeout", c.SendTimeout, DefaultSendTimeout)
	if err != nil {
		return DefaultSendTimeout
	}
	return d
}
