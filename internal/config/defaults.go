package config

import "path"

const (
	DefaultOutputDir    = "docs"
	DefaultParseDirName = ".dulynoted"
	DefaultProjectName  = "Documentation"

	DefaultAnchorRegExp           = `!([\w/-]+)`
	DefaultLinkRegExp             = `@([\w/-]+)`
	DefaultCommentRegExp          = `//\s?(.*)$`
	DefaultLongCommentOpenRegExp  = `/\*\*?`
	DefaultLongCommentLineRegExp  = `^\s*\*?\s?(.*)$`
	DefaultLongCommentCloseRegExp = `\*/`

	DefaultEventsSubject = "dulynoted.runs"
	DefaultPreviewPort   = 8080
)

// ApplyDefaults fills every unset option.
func (c *Config) ApplyDefaults() {
	if c.ProjectName == "" {
		c.ProjectName = DefaultProjectName
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ParseDir == "" {
		c.ParseDir = path.Join(c.OutputDir, DefaultParseDirName)
	}
	if len(c.Generators) == 0 {
		c.Generators = []Generator{GeneratorHTML}
	}

	setDefault(&c.AnchorRegExp, DefaultAnchorRegExp)
	setDefault(&c.LinkRegExp, DefaultLinkRegExp)
	setDefault(&c.CommentRegExp, DefaultCommentRegExp)
	setDefault(&c.LongCommentOpenRegExp, DefaultLongCommentOpenRegExp)
	setDefault(&c.LongCommentLineRegExp, DefaultLongCommentLineRegExp)
	setDefault(&c.LongCommentCloseRegExp, DefaultLongCommentCloseRegExp)

	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
