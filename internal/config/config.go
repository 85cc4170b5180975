package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/varalys/diffgate/internal/rules"
)

// FileConfig is the on-disk YAML configuration shape for diffgate.
// Pointer fields distinguish "unset" from zero values so precedence
// (CLI > local > global) can be resolved field by field.
type FileConfig struct {
	FailOn    *string `yaml:"fail_on,omitempty"`
	Enable    *string `yaml:"enable,omitempty"`
	Disable   *string `yaml:"disable,omitempty"`
	Exclude   *string `yaml:"exclude,omitempty"`
	Format    *string `yaml:"format,omitempty"`
	NoColor   *bool   `yaml:"no_color,omitempty"`
	Strict    *bool   `yaml:"strict,omitempty"`
	Baseline  *string `yaml:"baseline,omitempty"`
	Audit     *bool   `yaml:"audit,omitempty"`
	LogLevel  *string `yaml:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty"`

	// MinCommitScore fails `diffgate commit` below this 0..3 score.
	MinCommitScore *int `yaml:"min_commit_score,omitempty"`

	// Rules are appended to the built-in catalog.
	Rules []rules.Definition `yaml:"rules,omitempty"`
}

// LocalNames are the repo-local config file names, in search order.
var LocalNames = []string{".diffgate.yml", ".diffgate.yaml", "diffgate.yml", "diffgate.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, ErrNotFound
}

var (
	// ErrNotFound is returned when no config file exists at the searched location.
	ErrNotFound = errors.New("config not found")
	// ErrNoConfigDir is returned when neither XDG_CONFIG_HOME nor a home directory is set.
	ErrNoConfigDir = errors.New("no config dir")
)

// GlobalPath returns $XDG_CONFIG_HOME/diffgate/config.yml (or ~/.config/...).
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", ErrNoConfigDir
	}
	return filepath.Join(base, "diffgate", "config.yml"), nil
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p, err := GlobalPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, ErrNotFound
}

// LoadLayered returns global and local configs; missing files are not errors,
// malformed ones are.
func LoadLayered(repoRoot string) (global, local FileConfig, err error) {
	global, err = LoadGlobal()
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNoConfigDir) {
		return FileConfig{}, FileConfig{}, err
	}
	local, err = LoadLocal(repoRoot)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileConfig{}, FileConfig{}, err
	}
	return global, local, nil
}

// CustomRules concatenates global then local rule definitions.
func CustomRules(global, local FileConfig) []rules.Definition {
	var out []rules.Definition
	out = append(out, global.Rules...)
	out = append(out, local.Rules...)
	return out
}

// Write marshals cfg to path as YAML.
func Write(path string, cfg FileConfig) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
