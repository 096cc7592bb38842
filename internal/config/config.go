// Package config loads diffstack configuration from defaults, a TOML file
// and DIFFSTACK_-prefixed environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the per-repository configuration file name.
const FileName = ".diffstack.toml"

// Config represents the application configuration
type Config struct {
	AssumeYes         bool `koanf:"assume_yes"`
	BrowseOnCreate    bool `koanf:"browse_on_create"`
	DefaultToListMode bool `koanf:"default_to_list_mode"`
	Verbose           bool `koanf:"verbose"`

	// Trunk is the default integration branch for stage.
	Trunk string `koanf:"trunk"`

	Conduit struct {
		URI   string `koanf:"uri"`
		Token string `koanf:"token"`
	} `koanf:"conduit"`
}

// Load reads the configuration. repoRoot may be empty, in which case only the
// home-directory file and the environment are consulted.
func Load(repoRoot string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"assume_yes":           false,
		"browse_on_create":     false,
		"default_to_list_mode": false,
		"verbose":              false,
		"trunk":                "main",
	}, "."), nil)

	for _, path := range candidatePaths(repoRoot) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
		break
	}

	// Environment overrides: DIFFSTACK_CONDUIT_TOKEN -> conduit.token
	k.Load(env.Provider("DIFFSTACK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DIFFSTACK_")
		s = strings.ToLower(s)
		if rest, ok := strings.CutPrefix(s, "conduit_"); ok {
			return "conduit." + rest
		}
		return s
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// candidatePaths returns config file locations in priority order.
func candidatePaths(repoRoot string) []string {
	var paths []string
	if repoRoot != "" {
		paths = append(paths, filepath.Join(repoRoot, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	return paths
}
