// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"trustengine.yaml",
	"trustengine.yml",
	"/etc/trustengine/config.yaml",
	"/etc/trustengine/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "TRUSTENGINE_CONFIG"

// envPrefix namespaces the engine's environment variables:
// TRUSTENGINE_RISK_AUTO_BLOCK_THRESHOLD -> risk.auto_block_threshold.
const envPrefix = "TRUSTENGINE_"

// Load builds the configuration from layered sources:
//  1. Defaults: Default()
//  2. Config file: optional YAML (first of DefaultConfigPaths, or
//     $TRUSTENGINE_CONFIG)
//  3. Environment variables: highest priority
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct.
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables.
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the config file path to use, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sectionNames anchors the first underscore split of an env var. Sections
// never contain underscores, so everything after the section is the key:
// TRUSTENGINE_SPOOFING_MAX_ACCURACY_M -> spoofing.max_accuracy_m.
var sectionNames = []string{
	"engine", "weights", "risk", "spoofing", "temporal", "location",
	"device", "behavioral", "baseline", "geo", "logging",
}

// envTransform maps TRUSTENGINE_SECTION_KEY_NAME to section.key_name.
// Variables that do not match a known section are dropped so unrelated
// environment noise cannot leak into the configuration.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, section := range sectionNames {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return ""
}
