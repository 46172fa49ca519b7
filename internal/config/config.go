// Package config loads a load test plan from its on-disk YAML
// representation and applies its defaults: scheme defaults to https,
// http_version to 1.1, users to 1.
package config

import (
	"errors"
	"os"

	"github.com/kadekeh/volley/internal/errs"
	"github.com/kadekeh/volley/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	defaultScheme      = "https"
	defaultHTTPVersion = "1.1"
	defaultUsers       = 1
)

// Load reads and validates the configuration file at path.
func Load(path string) (*model.Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.New(errs.ConfigNotFound, "configuration file "+path+" not found")
		}
		return nil, errs.Wrap(errs.ConfigNotFound, "could not read configuration file "+path, err)
	}

	var cfg model.Configuration
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errs.Wrap(errs.ConfigParseError, "invalid configuration content", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *model.Configuration) {
	if cfg.Scheme == "" {
		cfg.Scheme = defaultScheme
	}
	if cfg.HTTPVersion == "" {
		cfg.HTTPVersion = defaultHTTPVersion
	}
	for i := range cfg.Groups {
		if cfg.Groups[i].Users == 0 {
			cfg.Groups[i].Users = defaultUsers
		}
	}
}

func validate(cfg *model.Configuration) error {
	if cfg.Target == "" {
		return errs.New(errs.ConfigParseError, "target is required")
	}
	if cfg.Scheme != "http" && cfg.Scheme != "https" {
		return errs.New(errs.ConfigParseError, "scheme must be http or https, got "+cfg.Scheme)
	}
	for _, g := range cfg.Groups {
		if g.Duration <= 0 {
			return errs.New(errs.InvalidDuration, "group "+g.Name+" has a non-positive duration")
		}
		if g.Users <= 0 {
			return errs.New(errs.InvalidDuration, "group "+g.Name+" has a non-positive user count")
		}
	}
	return nil
}
