// Package config loads YAML defaults for conversions.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file when --config is not given.
const EnvConfigPath = "JPEG2PDF_CONFIG"

// Sentinel errors for config loading.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config file")
)

// Config holds defaults applied to every conversion. Command line flags
// that are set explicitly take precedence.
type Config struct {
	Author    string `yaml:"author"`
	Subject   string `yaml:"subject"`
	Language  string `yaml:"language"`
	Keywords  string `yaml:"keywords"`
	Creator   string `yaml:"creator"`
	Normalize bool   `yaml:"normalize"`
}

// Load reads and parses the YAML file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return &cfg, nil
}

// Resolve picks the config file to load: flagPath when set, otherwise the
// JPEG2PDF_CONFIG environment variable. An empty result means no config.
func Resolve(flagPath string, getenv func(string) string) string {
	if flagPath != "" {
		return flagPath
	}
	if getenv == nil {
		return ""
	}
	return getenv(EnvConfigPath)
}
