// Package config loads pngloss's on-disk defaults, following the same
// discover-or-create convention as larger image/document CLIs: a YAML file
// under the user's config directory supplies defaults that command-line
// flags may override.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Configuration holds pngloss's tunables. Strength and BleedDivider mirror
// the core's Optimize parameters; the rest govern CLI behavior.
type Configuration struct {
	CreationDate string `yaml:"created"`

	Strength     uint8 `yaml:"strength"`
	BleedDivider int16 `yaml:"bleedDivider"`

	OutputExtension string `yaml:"outputExtension"`
	Verbose         bool   `yaml:"verbose"`
}

func defaultConfiguration() *Configuration {
	return &Configuration{
		CreationDate:    time.Now().Format("2006-01-02 15:04"),
		Strength:        20,
		BleedDivider:    2,
		OutputExtension: "-lossy.png",
		Verbose:         false,
	}
}

// configFileName is fixed, matching the pattern of a single well-known
// config.yml under a tool-named subdirectory of the user's config dir.
const configFileName = "config.yml"

// Load resolves the configuration: an explicit path always wins; otherwise
// it looks under os.UserConfigDir()/pngloss/config.yml, creating it with
// defaults on first run. Passing path "disable" bypasses the file
// entirely and returns built-in defaults.
func Load(path string) (*Configuration, error) {
	if path == "disable" {
		return defaultConfiguration(), nil
	}
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "pngloss", configFileName)
	}

	if err := ensureConfigFileAt(path); err != nil {
		return nil, errors.Wrapf(err, "ensuring config file at %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	conf := defaultConfiguration()
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	return conf, nil
}

func ensureConfigFileAt(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	content, err := yaml.Marshal(defaultConfiguration())
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}
