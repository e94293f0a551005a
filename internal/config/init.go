package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		ProjectName:            "My Project",
		Files:                  []string{"src/**/*.ts", "README.md"},
		OutputDir:              DefaultOutputDir,
		Readme:                 "README.md",
		AnchorRegExp:           DefaultAnchorRegExp,
		LinkRegExp:             DefaultLinkRegExp,
		CommentRegExp:          DefaultCommentRegExp,
		LongCommentOpenRegExp:  DefaultLongCommentOpenRegExp,
		LongCommentLineRegExp:  DefaultLongCommentLineRegExp,
		LongCommentCloseRegExp: DefaultLongCommentCloseRegExp,
		ExternalReferences: []resolver.ExternalReference{
			{Anchor: "issue", Path: "https://github.com/example/project/issues/::"},
			{Anchor: "authors", Path: "https://github.com/::"},
		},
		Generators: []Generator{GeneratorHTML, GeneratorMarkdown},
		MarkdownGeneratorOptions: MarkdownOptions{
			HTMLAnchors:           true,
			GitHubMarkdownAnchors: true,
		},
	}
}

// Init writes Example to configPath as YAML for .yaml/.yml files and JSON
// otherwise. An existing file is only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists: " + configPath + " (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := Marshal(Example(), configPath)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "cannot encode example configuration").Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot create configuration directory").Fatal().Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// Marshal encodes cfg in the format implied by the extension of name.
func Marshal(cfg *Config, name string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
