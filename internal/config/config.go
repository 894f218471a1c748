// Package config loads the tunbridge CLI settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Log formats accepted by the CLI.
const (
	LogFormatDefault = "default"
	LogFormatJSON    = "json"
	LogFormatZap     = "zap"
)

// Settings is the YAML settings file. Command line flags override it.
type Settings struct {
	Library LibrarySettings `yaml:"library"`
	Tunnel  TunnelSettings  `yaml:"tunnel"`
	Log     LogSettings     `yaml:"log"`
}

// LibrarySettings selects the engine library.
type LibrarySettings struct {
	Name             string `yaml:"name"`
	SearchProcess    bool   `yaml:"search_process"`
	RetryUnavailable bool   `yaml:"retry_unavailable"`
}

// TunnelSettings describes the tunnel the run command starts.
type TunnelSettings struct {
	// EngineConfig is the path of the engine configuration document. The
	// document is passed to the engine as is.
	EngineConfig string `yaml:"engine_config"`
	Device       string `yaml:"device"`
	FD           int32  `yaml:"fd"`
}

// LogSettings selects the CLI logger.
type LogSettings struct {
	Debug  bool   `yaml:"debug"`
	Format string `yaml:"format"`
}

var errEmptyEngineConfig = errors.New("engine configuration is empty")

// Load reads and validates the settings file at path.
func Load(fsys fs.FS, path string) (Settings, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// LoadFile is Load on the local file system.
func LoadFile(path string) (Settings, error) {
	dir, name := splitPath(path)
	return Load(os.DirFS(dir), name)
}

// Validate checks field values that do not depend on the run mode.
func (s Settings) Validate() error {
	if s.Library.SearchProcess && s.Library.Name != "" {
		return fmt.Errorf("library: name and search_process are mutually exclusive")
	}
	if s.Tunnel.FD < 0 {
		return fmt.Errorf("tunnel: fd must not be negative, got: %d", s.Tunnel.FD)
	}
	if s.Tunnel.FD > 0 && s.Tunnel.Device != "" {
		return fmt.Errorf("tunnel: fd and device are mutually exclusive")
	}
	switch s.Log.Format {
	case "", LogFormatDefault, LogFormatJSON, LogFormatZap:
	default:
		return fmt.Errorf("log: unknown format %q", s.Log.Format)
	}
	return nil
}

// ReadEngineConfig returns the engine configuration document at path. A
// document holding only whitespace is rejected, the engine would refuse it.
func ReadEngineConfig(fsys fs.FS, path string) (string, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("reading engine config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("%s: %w", path, errEmptyEngineConfig)
	}
	return string(data), nil
}

// ReadEngineConfigFile is ReadEngineConfig on the local file system.
func ReadEngineConfigFile(path string) (string, error) {
	dir, name := splitPath(path)
	return ReadEngineConfig(os.DirFS(dir), name)
}

func splitPath(path string) (dir, name string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path), filepath.Base(path)
	}
	return filepath.Dir(abs), filepath.Base(abs)
}
