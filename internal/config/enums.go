package config

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Generator names an output format.
type Generator string

const (
	GeneratorHTML     Generator = "html"
	GeneratorMarkdown Generator = "markdown"
)

var generatorValues = map[string]Generator{
	"html":     GeneratorHTML,
	"markdown": GeneratorMarkdown,
	"md":       GeneratorMarkdown,
}

// NormalizeGenerator maps a raw name onto a Generator, or "" when unknown.
func NormalizeGenerator(raw string) Generator {
	return generatorValues[normalizeKey(raw)]
}

// Extension is the document extension the generator writes.
func (g Generator) Extension() string {
	if g == GeneratorMarkdown {
		return ".md"
	}
	return ".html"
}

// DefaultIndexFile is the index document name used when none is configured.
func (g Generator) DefaultIndexFile() string {
	if g == GeneratorMarkdown {
		return "README.md"
	}
	return "index.html"
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelValues = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel maps raw onto a LogLevel, or "" when unknown.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelValues[normalizeKey(raw)]
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatValues = map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}

// NormalizeLogFormat maps raw onto a LogFormat, or "" when unknown.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatValues[normalizeKey(raw)]
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validKeys[T any](values map[string]T) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprint(keys)
}

func hasExtension(name, ext string) bool {
	return strings.EqualFold(path.Ext(name), ext)
}
