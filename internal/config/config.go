/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"promptarchitect/internal/reconcile"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
	// CopyStatusMs is how long the "copied" status stays visible after a clipboard copy.
	CopyStatusMs int `yaml:"copy_status_ms"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	// RequireToken guards mutating routes with the bearer token from the OS keychain.
	// The token itself is never stored on disk.
	RequireToken bool `yaml:"require_token"`
}

type ExtractionConfig struct {
	// CharacterMerge selects how extracted characters join the roster: evict_seed or dedup_id.
	CharacterMerge string `yaml:"character_merge"`
	UndoDepth      int    `yaml:"undo_depth"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       GeneralConfig    `yaml:"general"`
	Server        ServerConfig     `yaml:"server"`
	Extraction    ExtractionConfig `yaml:"extraction"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, CopyStatusMs: 1800},
		Server:        ServerConfig{Addr: "127.0.0.1:8787", ReadTimeoutMs: 15000, RequireToken: false},
		Extraction:    ExtractionConfig{CharacterMerge: string(reconcile.EvictSeed), UndoDepth: 100},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile     = "VPA_CONFIG"
	EnvTelemetryOptIn = "VPA_TELEMETRY_OPT_IN"
	EnvCopyStatusMs   = "VPA_COPY_STATUS_MS"
	EnvServerAddr     = "VPA_SERVER_ADDR"
	EnvReadTimeoutMs  = "VPA_SERVER_READ_TIMEOUT_MS"
	EnvRequireToken   = "VPA_REQUIRE_TOKEN"
	EnvCharacterMerge = "VPA_CHARACTER_MERGE"
	EnvUndoDepth      = "VPA_UNDO_DEPTH"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "VPA_LOG_LEVEL"
	EnvLogFormat = "VPA_LOG_FORMAT"
	EnvLogSource = "VPA_LOG_SOURCE"
	EnvLogFile   = "VPA_LOG_FILE"
)

// ConfigPath returns the per-user config file path. VPA_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PromptArchitect")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PromptArchitect")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "promptarchitect")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "promptarchitect")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without replacing variables that are already set. Missing files
// are skipped. With no arguments it looks for .env in the working directory.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A malformed file is reported but the defaults plus overrides are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			fileErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, fileErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks values that have a closed set of options.
func (c AppConfig) Validate() error {
	if _, err := c.Extraction.Law(); err != nil {
		return err
	}
	if c.Extraction.UndoDepth < 0 {
		return fmt.Errorf("extraction.undo_depth must not be negative, got %d", c.Extraction.UndoDepth)
	}
	return nil
}

// Law parses CharacterMerge.
func (e ExtractionConfig) Law() (reconcile.CharacterLaw, error) {
	return reconcile.ParseCharacterLaw(e.CharacterMerge)
}

// CopyStatus returns how long the copied status is shown.
func (g GeneralConfig) CopyStatus() time.Duration {
	if g.CopyStatusMs <= 0 {
		return time.Duration(Defaults().General.CopyStatusMs) * time.Millisecond
	}
	return time.Duration(g.CopyStatusMs) * time.Millisecond
}

// ReadTimeout returns the HTTP read timeout.
func (s ServerConfig) ReadTimeout() time.Duration {
	if s.ReadTimeoutMs <= 0 {
		return time.Duration(Defaults().Server.ReadTimeoutMs) * time.Millisecond
	}
	return time.Duration(s.ReadTimeoutMs) * time.Millisecond
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.General.CopyStatusMs != 0 {
		dst.General.CopyStatusMs = src.General.CopyStatusMs
	}
	if strings.TrimSpace(src.Server.Addr) != "" {
		dst.Server.Addr = strings.TrimSpace(src.Server.Addr)
	}
	if src.Server.ReadTimeoutMs != 0 {
		dst.Server.ReadTimeoutMs = src.Server.ReadTimeoutMs
	}
	dst.Server.RequireToken = src.Server.RequireToken
	if strings.TrimSpace(src.Extraction.CharacterMerge) != "" {
		dst.Extraction.CharacterMerge = strings.ToLower(strings.TrimSpace(src.Extraction.CharacterMerge))
	}
	if src.Extraction.UndoDepth != 0 {
		dst.Extraction.UndoDepth = src.Extraction.UndoDepth
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCopyStatusMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.General.CopyStatusMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReadTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.ReadTimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRequireToken)); v != "" {
		cfg.Server.RequireToken = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCharacterMerge)); v != "" {
		cfg.Extraction.CharacterMerge = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvUndoDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Extraction.UndoDepth = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var overrideKeys = map[string]string{
	"general.telemetry_opt_in":   EnvTelemetryOptIn,
	"general.copy_status_ms":     EnvCopyStatusMs,
	"server.addr":                EnvServerAddr,
	"server.read_timeout_ms":     EnvReadTimeoutMs,
	"server.require_token":       EnvRequireToken,
	"extraction.character_merge": EnvCharacterMerge,
	"extraction.undo_depth":      EnvUndoDepth,
	"logging.level":              EnvLogLevel,
	"logging.format":             EnvLogFormat,
	"logging.source":             EnvLogSource,
	"logging.file":               EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := overrideKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
