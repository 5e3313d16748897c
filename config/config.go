// Package config loads tagsplit job configuration from YAML.
//
// A job file looks like:
//
//	input: mem://localhost/dumps/pages.xml
//	startTag: "<page>"
//	endTag: "</page>"
//	splitSize: 67108864
//	concurrency: 8
//	output: pages.tsrf
//	compression: zstd
//	logLevel: info
//
// Config implements scanner.Config: the tags are served under scanner.StartTagKey
// and scanner.EndTagKey, and any other key is looked up in Properties.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/tagsplit/errs"
	"github.com/arloliu/tagsplit/format"
	"github.com/arloliu/tagsplit/scanner"
	"github.com/arloliu/tagsplit/split"
)

// DefaultConcurrency is the number of splits processed at once when unset.
const DefaultConcurrency = 4

// Config describes one extraction job.
type Config struct {
	Input         string            `yaml:"input"`
	StartTag      string            `yaml:"startTag"`
	EndTag        string            `yaml:"endTag"`
	SplitSize     int64             `yaml:"splitSize"`
	Concurrency   int               `yaml:"concurrency"`
	MaxRecordSize int               `yaml:"maxRecordSize"`
	Output        string            `yaml:"output"`
	Compression   string            `yaml:"compression"`
	VerifySplits  bool              `yaml:"verifySplits"`
	LogLevel      string            `yaml:"logLevel"`
	LogFormat     string            `yaml:"logFormat"`
	Properties    map[string]string `yaml:"properties"`
}

var _ scanner.Config = (*Config)(nil)

// Get implements scanner.Config. Empty tag fields count as unset.
func (c *Config) Get(key string) (string, bool) {
	switch key {
	case scanner.StartTagKey:
		if c.StartTag != "" {
			return c.StartTag, true
		}
	case scanner.EndTagKey:
		if c.EndTag != "" {
			return c.EndTag, true
		}
	}

	v, ok := c.Properties[key]

	return v, ok
}

// Load reads a YAML job file from a local path or any afs-supported URL, fills
// defaults and validates it.
func Load(ctx context.Context, location string) (*Config, error) {
	cfg, err := Read(ctx, location)
	if err != nil {
		return nil, err
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read reads and decodes a YAML job file without filling defaults or validating,
// so that callers can merge further settings first.
func Read(ctx context.Context, location string) (*Config, error) {
	var (
		data []byte
		err  error
	)
	if url.Scheme(location, "") == "" {
		data, err = os.ReadFile(location)
	} else {
		data, err = afs.New().DownloadWithURL(ctx, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", location, err)
	}

	return Decode(data)
}

// Parse decodes a YAML job description, fills defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Decode decodes a YAML job description as is.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func (c *Config) finish() error {
	c.ApplyDefaults()

	return c.Validate()
}

// ApplyDefaults fills unset numeric and enum fields.
func (c *Config) ApplyDefaults() {
	if c.SplitSize == 0 {
		c.SplitSize = split.DefaultSplitSize
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Compression == "" {
		c.Compression = "none"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks the job description. Tag checks go through Get, so tags given
// only in Properties are accepted.
func (c *Config) Validate() error {
	if _, ok := c.Get(scanner.StartTagKey); !ok {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, errs.ErrMissingStartTag)
	}
	if _, ok := c.Get(scanner.EndTagKey); !ok {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, errs.ErrMissingEndTag)
	}
	if c.SplitSize < 0 {
		return fmt.Errorf("%w: splitSize must not be negative", errs.ErrInvalidConfig)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", errs.ErrInvalidConfig)
	}
	if c.MaxRecordSize < 0 {
		return fmt.Errorf("%w: maxRecordSize must not be negative", errs.ErrInvalidConfig)
	}
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown logFormat %q", errs.ErrInvalidConfig, c.LogFormat)
	}

	return nil
}

// CompressionType returns the parsed output compression.
func (c *Config) CompressionType() (format.CompressionType, error) {
	ct, ok := format.ParseCompression(c.Compression)
	if !ok {
		return 0, fmt.Errorf("%w: unknown compression %q", errs.ErrInvalidConfig, c.Compression)
	}

	return ct, nil
}

// NewLogger builds a structured logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: unknown logLevel %q", errs.ErrInvalidConfig, s)
	}

	return level, nil
}
