package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/types"
)

// FileConfig is the on-disk YAML configuration shape for textguard.
type FileConfig struct {
	Include          *string `yaml:"include,omitempty"`
	Exclude          *string `yaml:"exclude,omitempty"`
	MaxBytes         *int64  `yaml:"max_bytes,omitempty"`
	Threads          *int    `yaml:"threads,omitempty"`
	Types            *string `yaml:"types,omitempty"`
	FailOn           *string `yaml:"fail_on,omitempty"`
	NoColor          *bool   `yaml:"no_color,omitempty"`
	DefaultExcludes  *bool   `yaml:"default_excludes,omitempty"`
	NoCache          *bool   `yaml:"no_cache,omitempty"`
	DisableMasking   *bool   `yaml:"disable_masking,omitempty"`
	StrictValidators *bool   `yaml:"strict_validators,omitempty"`

	// Custom detection rules registered on top of the built-in catalog.
	Patterns []PatternConfig `yaml:"patterns,omitempty"`
}

// PatternConfig describes one custom pattern.
type PatternConfig struct {
	Type        string `yaml:"type"`
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description,omitempty"`
	Priority    int    `yaml:"priority,omitempty"`
	IgnoreCase  *bool  `yaml:"ignore_case,omitempty"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:default} references.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		if len(sub) >= 3 {
			return sub[2]
		}
		return ""
	})
}

// LoadFile reads a YAML config file from the provided path, expanding
// environment references first.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(b))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ErrNotFound is returned by LoadLocal and LoadGlobal when there is no
// config file to read. Any other error means a file exists but is unusable.
var ErrNotFound = errors.New("config file not found")

// LocalNames lists the file names LoadLocal looks for, in order.
var LocalNames = []string{".textguard.yml", ".textguard.yaml", "textguard.yml", "textguard.yaml"}

// LoadLocal loads the first of LocalNames present in repoRoot.
func LoadLocal(repoRoot string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns the global config location, or "" when neither
// XDG_CONFIG_HOME nor a home directory is available.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "textguard", "config.yml")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNotFound
	}
	if st, err := os.Stat(p); err != nil || st.IsDir() {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// CompilePatterns turns the configured custom rules into catalog patterns.
// The first invalid entry aborts with an error naming its index.
func (fc FileConfig) CompilePatterns() ([]catalog.Pattern, error) {
	out := make([]catalog.Pattern, 0, len(fc.Patterns))
	for i, pc := range fc.Patterns {
		t := types.Custom
		if pc.Type != "" {
			var err error
			if t, err = types.ParseThreatType(pc.Type); err != nil {
				return nil, fmt.Errorf("patterns[%d]: %w", i, err)
			}
		}
		opts := []catalog.Option{catalog.WithDescription(pc.Description), catalog.WithPriority(pc.Priority)}
		if pc.IgnoreCase != nil {
			opts = append(opts, catalog.IgnoreCase(*pc.IgnoreCase))
		}
		p, err := catalog.Compile(t, pc.Pattern, opts...)
		if err != nil {
			return nil, fmt.Errorf("patterns[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
