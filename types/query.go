// Package types defines core domain types for the cdxq query pipeline.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"fmt"
	"strings"
	"time"
)

// MatchType is the URL matching mode sent to the CDX server.
type MatchType string

// Match types per the CDX Server API.
const (
	// MatchExact matches the URL exactly.
	MatchExact MatchType = "exact"
	// MatchPrefix matches URLs starting with the given prefix.
	MatchPrefix MatchType = "prefix"
	// MatchHost matches all URLs from the given host.
	MatchHost MatchType = "host"
	// MatchDomain matches the domain and all subdomains.
	MatchDomain MatchType = "domain"
)

// ParseMatchType parses a match type string, returning an error for
// values the CDX server does not accept.
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(strings.ToLower(s)) {
	case MatchExact:
		return MatchExact, nil
	case MatchPrefix:
		return MatchPrefix, nil
	case MatchHost:
		return MatchHost, nil
	case MatchDomain:
		return MatchDomain, nil
	default:
		return "", fmt.Errorf("invalid match type: %q (must be exact, prefix, host, or domain)", s)
	}
}

// OutputEncoding is the CDX response body encoding.
type OutputEncoding string

// Output encodings per the CDX Server API.
const (
	// OutputJSON requests newline-delimited JSON objects.
	OutputJSON OutputEncoding = "json"
	// OutputText requests newline-delimited whitespace-separated rows.
	OutputText OutputEncoding = "text"
)

// ParseOutputEncoding parses an output encoding string.
func ParseOutputEncoding(s string) (OutputEncoding, error) {
	switch OutputEncoding(strings.ToLower(s)) {
	case OutputJSON:
		return OutputJSON, nil
	case OutputText:
		return OutputText, nil
	default:
		return "", fmt.Errorf("invalid output encoding: %q (must be json or text)", s)
	}
}

// DefaultFields is the default fl parameter, matching the seven positional
// columns of the text encoding.
const DefaultFields = "urlkey,timestamp,url,mime,status,digest,length"

// MaxLimit is the largest per-URL result limit the CDX server accepts.
const MaxLimit = 1000

// QueryConfig is the immutable configuration bundle for one query batch.
// Built once from user input before the batch starts and read-only after.
type QueryConfig struct {
	// Endpoint is the CDX index base URL.
	Endpoint string `json:"endpoint"`
	// Match is the URL matching mode.
	Match MatchType `json:"match_type"`
	// Limit is the maximum number of capture rows per URL (1..MaxLimit).
	Limit int `json:"limit"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `json:"timeout"`
	// FilterStatus restricts captures to an HTTP status code (optional).
	FilterStatus string `json:"filter_status,omitempty"`
	// FilterMime restricts captures to a MIME type (optional).
	FilterMime string `json:"filter_mime,omitempty"`
	// From is the inclusive lower timestamp bound, YYYYMMDDHHMMSS (optional).
	From string `json:"from,omitempty"`
	// To is the inclusive upper timestamp bound, YYYYMMDDHHMMSS (optional).
	To string `json:"to,omitempty"`
	// Output is the response body encoding.
	Output OutputEncoding `json:"output"`
	// Fields is the comma-separated fl parameter (optional, server default
	// when empty).
	Fields string `json:"fields,omitempty"`
	// RetryVariants enables the URL-variant retry path on a no-captures
	// result. Only meaningful when Match is MatchExact.
	RetryVariants bool `json:"retry_variants"`
	// Delay is the fixed pause after each URL's full retry sequence.
	Delay time.Duration `json:"delay"`
	// UserAgent identifies the tool to the CDX server.
	UserAgent string `json:"user_agent"`
}

// Validate ensures all configuration values are coherent.
func (c *QueryConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("endpoint must be an http(s) URL: %q", c.Endpoint)
	}
	if _, err := ParseMatchType(string(c.Match)); err != nil {
		return err
	}
	if c.Limit < 1 || c.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, c.Limit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if _, err := ParseOutputEncoding(string(c.Output)); err != nil {
		return err
	}
	if err := validTimestamp("from", c.From); err != nil {
		return err
	}
	if err := validTimestamp("to", c.To); err != nil {
		return err
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// RetryApplicable reports whether the variant-retry path is active for this
// configuration. Non-exact match modes disable retry regardless of the flag:
// host and domain queries already match broadly, so a normalization mismatch
// cannot produce a false negative.
func (c *QueryConfig) RetryApplicable() bool {
	return c.RetryVariants && c.Match == MatchExact
}

// validTimestamp accepts empty or a digit string up to the full
// YYYYMMDDHHMMSS precision. The CDX server pads partial timestamps itself.
func validTimestamp(name, ts string) error {
	if ts == "" {
		return nil
	}
	if len(ts) < 4 || len(ts) > 14 {
		return fmt.Errorf("%s timestamp must be 4 to 14 digits (YYYYMMDDHHMMSS), got %q", name, ts)
	}
	for _, r := range ts {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s timestamp must contain only digits, got %q", name, ts)
		}
	}
	return nil
}
