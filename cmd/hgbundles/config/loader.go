// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration is missing a
// required field.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the YAML configuration at path on top of the defaults. An
// empty path yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	// Testing backdoor so results are deterministic.
	if os.Getenv("SINGLE_THREADED") != "" {
		cfg.Concurrency = 1
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.HG == "":
		return fmt.Errorf("%w: hg executable not set", ErrInvalidConfig)
	case c.RepositoryRoot == "":
		return fmt.Errorf("%w: repository_root not set", ErrInvalidConfig)
	case c.BundleRoot == "":
		return fmt.Errorf("%w: bundle_root not set", ErrInvalidConfig)
	case c.CDN == "":
		return fmt.Errorf("%w: cdn not set", ErrInvalidConfig)
	}
	for i, b := range c.S3 {
		if b.Host == "" || b.Bucket == "" || b.Region == "" {
			return fmt.Errorf("%w: s3 entry %d is incomplete", ErrInvalidConfig, i)
		}
	}
	for i, b := range c.GCS {
		if b.Bucket == "" || b.Region == "" {
			return fmt.Errorf("%w: gcs entry %d is incomplete", ErrInvalidConfig, i)
		}
	}
	return nil
}
