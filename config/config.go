// Package config manages persistent user settings for the webform CLI.
//
// Settings live in a YAML file, $HOME/.webform/config.yaml unless
// WEBFORM_CONFIG names another path. Environment variables with the WEBFORM_
// prefix override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyAPIKey     = "api_key"
	KeyModel      = "model"
	KeySchemasDir = "schemas_dir"
)

// Keys lists every setting that can be stored, in display order.
var Keys = []string{KeyAPIKey, KeyModel, KeySchemasDir}

// Defaults.
const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultSchemasDir = "schemas"
)

// PathEnv names the environment variable that overrides the config file path.
const PathEnv = "WEBFORM_CONFIG"

// Config holds resolved settings.
type Config struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	SchemasDir string `mapstructure:"schemas_dir"`
}

// DefaultPath returns the config file path: $WEBFORM_CONFIG when set,
// otherwise $HOME/.webform/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".webform", "config.yaml"), nil
}

// Manager reads and writes one config file.
type Manager struct {
	path string
	v    *viper.Viper
}

// NewManager loads the config file at path. A missing file is not an error;
// defaults and environment variables still apply.
func NewManager(path string) (*Manager, error) {
	v := viper.New()
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeySchemasDir, DefaultSchemasDir)

	v.SetEnvPrefix("WEBFORM")
	v.AutomaticEnv()

	if err := readFile(v, path); err != nil {
		return nil, err
	}
	return &Manager{path: path, v: v}, nil
}

// Path returns the config file path.
func (m *Manager) Path() string {
	return m.path
}

// Load returns the resolved settings.
func (m *Manager) Load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Set stores value under key in the config file, creating the file and its
// directory when needed. Only values already in the file are written back;
// defaults and environment overrides are not persisted.
// Returns EINVALID for an unknown key.
func (m *Manager) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return webform.Errorf(webform.EINVALID, "unknown config key %q (valid keys: api_key, model, schemas_dir)", key)
	}

	file := viper.New()
	if err := readFile(file, m.path); err != nil {
		return err
	}
	file.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := file.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return readFile(m.v, m.path)
}

// Show returns every setting as display text, with the API key masked.
func (m *Manager) Show() (map[string]string, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyAPIKey:     Mask(cfg.APIKey),
		KeyModel:      cfg.Model,
		KeySchemasDir: cfg.SchemasDir,
	}, nil
}

// Mask hides all but the first and last four characters of a secret.
// Short secrets are hidden completely.
func Mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "****" + secret[len(secret)-4:]
	}
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}
