package config

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
)

// Validate checks the configuration and compiles its patterns. It expects
// ApplyDefaults to have run.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return invalid("files", "files must list at least one file, directory or pattern")
	}

	if dir := path.Clean(filepath.ToSlash(c.ParseDir)); dir == "." || dir == "/" || dir == ".." || strings.HasPrefix(dir, "../") {
		return invalid("parseDir", "parseDir is removed after a build and must be a dedicated subdirectory")
	}

	generators := make([]Generator, 0, len(c.Generators))
	seen := map[Generator]bool{}
	for _, raw := range c.Generators {
		g := NormalizeGenerator(string(raw))
		if g == "" {
			return invalid("generators", fmt.Sprintf("unknown generator %q, valid options: %s", raw, validKeys(generatorValues)))
		}
		if !seen[g] {
			seen[g] = true
			generators = append(generators, g)
		}
	}
	c.Generators = generators

	level := NormalizeLogLevel(string(c.Logging.Level))
	if level == "" {
		return invalid("logging.level", fmt.Sprintf("unknown log level %q, valid options: %s", c.Logging.Level, validKeys(logLevelValues)))
	}
	c.Logging.Level = level
	format := NormalizeLogFormat(string(c.Logging.Format))
	if format == "" {
		return invalid("logging.format", fmt.Sprintf("unknown log format %q, valid options: %s", c.Logging.Format, validKeys(logFormatValues)))
	}
	c.Logging.Format = format

	for i, ref := range c.ExternalReferences {
		if ref.Anchor == "" {
			return invalid(fmt.Sprintf("externalReferences[%d]", i), "external reference has an empty anchor")
		}
	}

	if c.Preview.RebuildInterval != "" {
		d, err := time.ParseDuration(c.Preview.RebuildInterval)
		if err != nil || d <= 0 {
			return ferrors.ValidationError("preview.rebuildInterval must be a positive duration").
				WithCause(err).
				WithContext("field", "preview.rebuildInterval").
				Build()
		}
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return invalid("preview.port", fmt.Sprintf("invalid port %d", c.Preview.Port))
	}

	return c.compilePatterns()
}

func (c *Config) compilePatterns() error {
	p := &Patterns{}
	for _, spec := range []struct {
		field   string
		source  string
		target  **regexp.Regexp
		capture bool
	}{
		{"anchorRegExp", c.AnchorRegExp, &p.Anchor, true},
		{"linkRegExp", c.LinkRegExp, &p.Link, true},
		{"commentRegExp", c.CommentRegExp, &p.Comment, true},
		{"longCommentOpenRegExp", c.LongCommentOpenRegExp, &p.LongCommentOpen, false},
		{"longCommentLineRegExp", c.LongCommentLineRegExp, &p.LongCommentLine, true},
		{"longCommentCloseRegExp", c.LongCommentCloseRegExp, &p.LongCommentClose, false},
	} {
		re, err := regexp.Compile(spec.source)
		if err != nil {
			return ferrors.ValidationError(spec.field+" does not compile").
				WithCause(err).
				WithContext("field", spec.field).
				Build()
		}
		if spec.capture {
			switch n := re.NumSubexp(); {
			case n == 0:
				return invalid(spec.field, spec.field+" has no capture group")
			case n > 1:
				return invalid(spec.field, fmt.Sprintf("%s has %d capture groups; exactly one is required", spec.field, n))
			}
		}
		*spec.target = re
	}
	c.patterns = p
	return nil
}

func invalid(field, message string) error {
	return ferrors.ValidationError(message).WithContext("field", field).Build()
}
