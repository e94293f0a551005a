package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// envFiles are loaded before the configuration, most specific first. Values
// already in the process environment are never overridden.
var envFiles = []string{".env.local", ".env"}

// Load reads, decodes, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- configPath is chosen by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		msg := "cannot read configuration file"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "configuration file not found: " + configPath
		}
		return nil, ferrors.ConfigError(msg).WithCause(err).WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", logfields.Path(configPath))
	return cfg, nil
}

// Parse decodes a JSON or YAML document and returns the validated config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return nil, ferrors.ConfigError("cannot decode configuration").WithCause(err).Build()
	}
	cfg.expandEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode uses encoding/json for documents that start with "{" and YAML
// otherwise. Unknown keys are rejected by both.
func decode(data []byte, cfg *Config) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandEnv substitutes ${VAR} references in path and URL options. Patterns
// are left alone since "$" is a regular expression anchor.
func (c *Config) expandEnv() {
	for _, field := range []*string{&c.ProjectName, &c.OutputDir, &c.ParseDir, &c.IndexFile, &c.Readme, &c.Events.NATSURL, &c.Events.Subject} {
		*field = os.ExpandEnv(*field)
	}
	for i := range c.Files {
		c.Files[i] = os.ExpandEnv(c.Files[i])
	}
	for i := range c.ExternalReferences {
		c.ExternalReferences[i].Path = os.ExpandEnv(c.ExternalReferences[i].Path)
	}
}

func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.Path(name))
	}
}
