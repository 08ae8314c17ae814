package config

import (
	"fmt"
	"time"
)

// Config represents a cdxq.yaml configuration file.
// All values are optional and act as defaults for cdxq query flags.
// CLI flags always override config values.
type Config struct {
	Index     string       `yaml:"index"`
	Endpoint  string       `yaml:"endpoint"`
	Match     string       `yaml:"match"`
	Limit     int          `yaml:"limit"`
	Timeout   Duration     `yaml:"timeout"`
	Delay     Duration     `yaml:"delay"`
	Output    string       `yaml:"output"`
	Fields    string       `yaml:"fields"`
	UserAgent string       `yaml:"user_agent"`
	Retry     *bool        `yaml:"retry_variants,omitempty"`
	Filter    FilterConfig `yaml:"filter"`
	Export    ExportConfig `yaml:"export"`
}

// FilterConfig holds server-side filter defaults from the config file.
type FilterConfig struct {
	Status string `yaml:"status"`
	Mime   string `yaml:"mime"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// ExportConfig holds export destination defaults from the config file.
type ExportConfig struct {
	Snapshot    string `yaml:"snapshot"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Prefix    string `yaml:"s3_prefix"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// RetryVariants reports the retry default, treating an absent key as enabled.
func (c *Config) RetryVariants() bool {
	if c.Retry == nil {
		return true
	}
	return *c.Retry
}
