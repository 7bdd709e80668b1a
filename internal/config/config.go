// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads domainsentry's runtime configuration from a
// YAML file, then applies environment variable overrides on top —
// the same layering the operator expects from a twelve-factor-style
// service: a checked-in base file for defaults, env vars for
// per-deployment secrets and tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RateClass mirrors internal/ratelimit.Class in a YAML-friendly shape.
type RateClass struct {
	Name       string  `yaml:"name"`
	Capacity   int     `yaml:"capacity"`
	RatePerSec float64 `yaml:"rate_per_sec"`
}

// Config is domainsentry's full runtime configuration.
type Config struct {
	InstanceID string `yaml:"instance_id"`
	StateDir   string `yaml:"state_dir"`

	CallbackURL   string `yaml:"callback_url"`
	CallbackToken string `yaml:"callback_token"`

	ListAPIURL      string        `yaml:"list_api_url"`
	ListAPIInterval time.Duration `yaml:"list_api_interval"`

	Workers int `yaml:"workers"`

	TLow       time.Duration `yaml:"t_low"`
	THigh      time.Duration `yaml:"t_high"`
	TConfirmed time.Duration `yaml:"t_confirmed"`
	TCap       time.Duration `yaml:"t_cap"`

	RateClasses []RateClass `yaml:"rate_classes"`

	OpsAddr string `yaml:"ops_addr"`
}

// Default returns a Config with every field set to its documented
// default, before a file or environment is consulted.
func Default() Config {
	return Config{
		InstanceID:      "domainsentry",
		StateDir:        "./state",
		ListAPIInterval: 300 * time.Second,
		Workers:         8,
		TLow:            time.Hour,
		THigh:           5 * time.Minute,
		TConfirmed:      24 * time.Hour,
		TCap:            12 * time.Hour,
		RateClasses: []RateClass{
			{Name: "dns", Capacity: 20, RatePerSec: 10},
			{Name: "http", Capacity: 10, RatePerSec: 5},
			{Name: "rdap", Capacity: 5, RatePerSec: 2},
			{Name: "whois", Capacity: 2, RatePerSec: 0.5},
		},
		OpsAddr: ":8080",
	}
}

// Load reads path (if non-empty and present) over the defaults, then
// applies environment variable overrides, and returns the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("API_CALLBACK_URL"); ok {
		cfg.CallbackURL = v
	}
	if v, ok := os.LookupEnv("API_AUTH_TOKEN"); ok {
		cfg.CallbackToken = v
	}
	if v, ok := os.LookupEnv("DOMAIN_API_URL"); ok {
		cfg.ListAPIURL = v
	}
	if v, ok := os.LookupEnv("DOMAIN_API_REFRESH_INTERVAL"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ListAPIInterval = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("INSTANCE_ID"); ok {
		cfg.InstanceID = v
	}
	if v, ok := os.LookupEnv("STATE_DIR"); ok {
		cfg.StateDir = v
	}
	if v, ok := os.LookupEnv("WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if d, ok := durationFromSecondsEnv("T_LOW"); ok {
		cfg.TLow = d
	}
	if d, ok := durationFromSecondsEnv("T_HIGH"); ok {
		cfg.THigh = d
	}
	if d, ok := durationFromSecondsEnv("T_CONFIRMED"); ok {
		cfg.TConfirmed = d
	}
	if d, ok := durationFromSecondsEnv("T_CAP"); ok {
		cfg.TCap = d
	}

	for i := range cfg.RateClasses {
		applyRateClassEnvOverride(&cfg.RateClasses[i])
	}
}

// applyRateClassEnvOverride reads RATE_<CLASS>_CAPACITY and
// RATE_<CLASS>_PER_SEC, matching the RATE_* per-class env vars.
func applyRateClassEnvOverride(c *RateClass) {
	prefix := "RATE_" + upperSnake(c.Name)
	if v, ok := os.LookupEnv(prefix + "_CAPACITY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Capacity = n
		}
	}
	if v, ok := os.LookupEnv(prefix + "_PER_SEC"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSec = f
		}
	}
}

func durationFromSecondsEnv(name string) (time.Duration, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

func upperSnake(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
