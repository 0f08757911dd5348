package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen  string      `yaml:"listen" json:"listen"`
	DataDir string      `yaml:"data_dir" json:"data_dir"`
	Relay   RelayConfig `yaml:"relay" json:"relay"`
	Alerts  AlertConfig `yaml:"alerts" json:"alerts"`
}

type RelayConfig struct {
	// URL of the Node relay exposing POST /send-message.
	URL                string `yaml:"url" json:"url"`
	SendTimeoutSeconds int    `yaml:"send_timeout_seconds" json:"send_timeout_seconds"`
}

type AlertConfig struct {
	// RemindTo is the chat ID reminder notifications are pushed to.
	RemindTo         string `yaml:"remind_to" json:"remind_to"`
	IntervalSeconds  int    `yaml:"interval_seconds" json:"interval_seconds"`
	LookaheadMinutes int    `yaml:"lookahead_minutes" json:"lookahead_minutes"`
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":5000"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Relay.URL == "" {
		c.Relay.URL = "http://localhost:3000"
	}
	if c.Relay.SendTimeoutSeconds <= 0 {
		c.Relay.SendTimeoutSeconds = 10
	}
	if c.Alerts.IntervalSeconds <= 0 {
		c.Alerts.IntervalSeconds = 10
	}
	if c.Alerts.LookaheadMinutes <= 0 {
		c.Alerts.LookaheadMinutes = 5
	}
}

func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Relay.SendTimeoutSeconds) * time.Second
}

func (c *Config) AlertInterval() time.Duration {
	return time.Duration(c.Alerts.IntervalSeconds) * time.Second
}

func (c *Config) Lookahead() time.Duration {
	return time.Duration(c.Alerts.LookaheadMinutes) * time.Minute
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// LoadOrDefault runs without a config file: defaults plus env overrides.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if os.IsNotExist(err) {
		c = Default()
	} else if err != nil {
		return nil, err
	}
	FromEnv(c)
	return c, nil
}
