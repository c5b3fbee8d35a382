// Package config loads the sentinel configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vladimirvivien/go4vl/v4l2"
	"gopkg.in/yaml.v3"

	"motion-sentinel/pkg/alert/notify"
	"motion-sentinel/pkg/types"
)

const (
	EnvSMTPPassword = "SENTINEL_SMTP_PASSWORD"
	EnvWebhookURL   = "SENTINEL_WEBHOOK_URL"
)

type Config struct {
	Device   string `yaml:"device"`
	LogLevel string `yaml:"log_level"`

	// Controls maps V4L2 control ids to values, e.g. 9963776 (brightness).
	Controls map[uint32]int32 `yaml:"controls"`

	Alert   AlertConfig          `yaml:"alert"`
	Mail    notify.MailConfig    `yaml:"mail"`
	Webhook notify.WebhookConfig `yaml:"webhook"`
	NTP     NTPConfig            `yaml:"ntp"`
}

type AlertConfig struct {
	// HostInfo adds hostname, uptime, cpu and memory to the alert body.
	HostInfo bool `yaml:"host_info"`
	Attempts int  `yaml:"attempts"`
}

type NTPConfig struct {
	// Server is empty to trust the system clock.
	Server  string        `yaml:"server"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Device:   "/dev/video0",
		LogLevel: "info",
		Alert: AlertConfig{
			HostInfo: true,
			Attempts: notify.DefaultAttempts,
		},
		Mail: notify.MailConfig{
			Port: 587,
		},
		NTP: NTPConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads path on top of the defaults. An empty path yields the
// defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv(EnvWebhookURL); v != "" {
		c.Webhook.URL = v
	}
}

func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("device is required")
	}
	if c.Alert.Attempts < 1 || c.Alert.Attempts > 10 {
		return fmt.Errorf("alert attempts must be between 1 and 10, got %d", c.Alert.Attempts)
	}
	if c.Mail.Enabled() {
		if err := c.Mail.Validate(); err != nil {
			return err
		}
	}
	if c.NTP.Server != "" && c.NTP.Timeout <= 0 {
		return fmt.Errorf("ntp timeout must be positive, got %s", c.NTP.Timeout)
	}

	return nil
}

func (c *Config) CameraSettings() types.CameraSettings {
	settings := make(types.CameraSettings, len(c.Controls))
	for id, value := range c.Controls {
		settings[v4l2.CtrlID(id)] = v4l2.CtrlValue(value)
	}
	return settings
}
