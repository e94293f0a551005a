// Package config loads and validates the duly-noted configuration file.
package config

import (
	"regexp"

	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "duly-noted.json"

// Config is the project configuration. JSON and YAML files use the same
// camelCase keys.
type Config struct {
	ProjectName string   `yaml:"projectName" json:"projectName"`
	Files       []string `yaml:"files" json:"files"`
	OutputDir   string   `yaml:"outputDir" json:"outputDir"`
	ParseDir    string   `yaml:"parseDir,omitempty" json:"parseDir,omitempty"`
	IndexFile   string   `yaml:"indexFile,omitempty" json:"indexFile,omitempty"`
	Readme      string   `yaml:"readme,omitempty" json:"readme,omitempty"`

	AnchorRegExp           string `yaml:"anchorRegExp" json:"anchorRegExp"`
	LinkRegExp             string `yaml:"linkRegExp" json:"linkRegExp"`
	CommentRegExp          string `yaml:"commentRegExp" json:"commentRegExp"`
	LongCommentOpenRegExp  string `yaml:"longCommentOpenRegExp" json:"longCommentOpenRegExp"`
	LongCommentLineRegExp  string `yaml:"longCommentLineRegExp" json:"longCommentLineRegExp"`
	LongCommentCloseRegExp string `yaml:"longCommentCloseRegExp" json:"longCommentCloseRegExp"`

	ExternalReferences []resolver.ExternalReference `yaml:"externalReferences" json:"externalReferences"`

	Generators               []Generator     `yaml:"generators" json:"generators"`
	LeaveJSONFiles           bool            `yaml:"leaveJSONFiles" json:"leaveJSONFiles"`
	MarkdownGeneratorOptions MarkdownOptions `yaml:"markdownGeneratorOptions" json:"markdownGeneratorOptions"`

	Strict  bool          `yaml:"strict" json:"strict"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Events  EventsConfig  `yaml:"events" json:"events"`
	Preview PreviewConfig `yaml:"preview" json:"preview"`

	patterns *Patterns
}

// MarkdownOptions tunes the Markdown generator.
type MarkdownOptions struct {
	// HTMLAnchors writes an inline <a> element at every anchor declaration.
	HTMLAnchors bool `yaml:"htmlAnchors" json:"htmlAnchors"`
	// GitHubMarkdownAnchors prefixes fragments with "user-content-".
	GitHubMarkdownAnchors bool `yaml:"gitHubMarkdownAnchors" json:"gitHubMarkdownAnchors"`
	// FrontMatter prepends a YAML front matter block to every document.
	FrontMatter bool `yaml:"frontMatter" json:"frontMatter"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty" json:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty" json:"format,omitempty"`
}

// MetricsConfig enables Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// EventsConfig enables run-summary publication over NATS.
type EventsConfig struct {
	NATSURL string `yaml:"natsUrl,omitempty" json:"natsUrl,omitempty"`
	Subject string `yaml:"subject,omitempty" json:"subject,omitempty"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Port int `yaml:"port,omitempty" json:"port,omitempty"`
	// RebuildInterval is a Go duration such as "30s"; empty disables the
	// periodic rebuild check.
	RebuildInterval string `yaml:"rebuildInterval,omitempty" json:"rebuildInterval,omitempty"`
}

// Patterns holds the compiled regular expressions.
type Patterns struct {
	Anchor           *regexp.Regexp
	Link             *regexp.Regexp
	Comment          *regexp.Regexp
	LongCommentOpen  *regexp.Regexp
	LongCommentLine  *regexp.Regexp
	LongCommentClose *regexp.Regexp
}

// Patterns returns the compiled expressions. It is nil until Validate succeeds.
func (c *Config) Patterns() *Patterns {
	return c.patterns
}

// HasGenerator reports whether g is enabled.
func (c *Config) HasGenerator(g Generator) bool {
	for _, existing := range c.Generators {
		if existing == g {
			return true
		}
	}
	return false
}

// IndexFileFor returns the index document name for g. A configured IndexFile
// is used when its extension matches the generator's output.
func (c *Config) IndexFileFor(g Generator) string {
	if c.IndexFile != "" && hasExtension(c.IndexFile, g.Extension()) {
		return c.IndexFile
	}
	return g.DefaultIndexFile()
}
