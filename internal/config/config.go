package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Data sources understood by the server.
const (
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		SessionTimeout string `yaml:"session_timeout"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Data struct {
		Source       string   `yaml:"source"`
		Dir          string   `yaml:"dir"`
		BaseURL      string   `yaml:"base_url"`
		Topics       []string `yaml:"topics"`
		CacheTTL     string   `yaml:"cache_ttl"`
		FetchTimeout string   `yaml:"fetch_timeout"`
	} `yaml:"data"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Daily struct {
		ProgressTTL string `yaml:"progress_ttl"`
	} `yaml:"daily"`
}

// Default is the configuration used for keys the file leaves out.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.SessionTimeout = "60m"
	cfg.Log.Level = "info"
	cfg.Data.Source = SourceDir
	cfg.Data.Dir = "data/quiz-items"
	cfg.Data.CacheTTL = "10m"
	cfg.Data.FetchTimeout = "10s"
	cfg.Redis.TTL = "30m"
	cfg.Daily.ProgressTTL = "48h"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected data source is fully configured.
func (c Config) Validate() error {
	switch c.Data.Source {
	case SourceDir:
		if c.Data.Dir == "" {
			return errors.New("data.dir is required for the dir source")
		}
	case SourceHTTP:
		if c.Data.BaseURL == "" {
			return errors.New("data.base_url is required for the http source")
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres.url is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
