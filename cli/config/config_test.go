package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `index: CC-MAIN-2026-04
match: prefix
limit: 50
timeout: 45s
delay: 2s
output: json
fields: urlkey,timestamp,url,status
user_agent: cdxq-tests/1.0
retry_variants: false

filter:
  status: "200"
  mime: text/html
  from: "2026"
  to: "20260315"

export:
  snapshot: ./batch.msgpack
  s3_bucket: my-bucket
  s3_prefix: cdxq/exports
  s3_region: us-east-1
  s3_endpoint: https://example.com
  s3_path_style: true
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "index", cfg.Index, "CC-MAIN-2026-04")
	assertEqual(t, "match", cfg.Match, "prefix")
	if cfg.Limit != 50 {
		t.Errorf("expected limit=50, got %d", cfg.Limit)
	}
	if cfg.Timeout.Duration != 45*time.Second {
		t.Errorf("expected timeout=45s, got %v", cfg.Timeout.Duration)
	}
	if cfg.Delay.Duration != 2*time.Second {
		t.Errorf("expected delay=2s, got %v", cfg.Delay.Duration)
	}
	assertEqual(t, "output", cfg.Output, "json")
	assertEqual(t, "fields", cfg.Fields, "urlkey,timestamp,url,status")
	assertEqual(t, "user_agent", cfg.UserAgent, "cdxq-tests/1.0")
	if cfg.RetryVariants() {
		t.Error("expected retry_variants=false")
	}

	assertEqual(t, "filter.status", cfg.Filter.Status, "200")
	assertEqual(t, "filter.mime", cfg.Filter.Mime, "text/html")
	assertEqual(t, "filter.from", cfg.Filter.From, "2026")
	assertEqual(t, "filter.to", cfg.Filter.To, "20260315")

	assertEqual(t, "export.snapshot", cfg.Export.Snapshot, "./batch.msgpack")
	assertEqual(t, "export.s3_bucket", cfg.Export.S3Bucket, "my-bucket")
	assertEqual(t, "export.s3_prefix", cfg.Export.S3Prefix, "cdxq/exports")
	assertEqual(t, "export.s3_region", cfg.Export.S3Region, "us-east-1")
	assertEqual(t, "export.s3_endpoint", cfg.Export.S3Endpoint, "https://example.com")
	if !cfg.Export.S3PathStyle {
		t.Error("expected export.s3_path_style=true")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Index != "" {
		t.Errorf("expected empty index, got %q", cfg.Index)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/cdxq.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_INDEX", "CC-MAIN-2025-51")

	yaml := `index: ${TEST_INDEX}`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "index", cfg.Index, "CC-MAIN-2025-51")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	yaml := `index: CC-MAIN-2026-04
bogus_key: should_fail
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "bogus_key") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_UnknownNestedKeyRejected(t *testing.T) {
	yaml := `filter:
  status: "200"
  unknown_field: bad
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown nested key, got nil")
	}
	if !strings.Contains(err.Error(), "unknown_field") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_WhitespaceOnlyConfig(t *testing.T) {
	path := writeTemp(t, "   \n  \n  \n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed for whitespace-only config: %v", err)
	}
	if cfg.Index != "" {
		t.Errorf("expected empty index, got %q", cfg.Index)
	}
}

func TestLoad_CommentsOnlyConfig(t *testing.T) {
	path := writeTemp(t, "# This is a comment\n# Another comment\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed for comments-only config: %v", err)
	}
	if cfg.Index != "" {
		t.Errorf("expected empty index, got %q", cfg.Index)
	}
}

func TestLoad_RetryFalseDistinctFromOmitted(t *testing.T) {
	// retry_variants: false should parse as *bool(false), while omitting
	// the key leaves the pointer nil and the default enabled.
	path := writeTemp(t, "retry_variants: false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry == nil {
		t.Fatal("expected retry_variants to be non-nil (*bool(false)), got nil")
	}
	if cfg.RetryVariants() {
		t.Error("expected RetryVariants()=false")
	}

	path = writeTemp(t, "index: CC-MAIN-2026-04\n")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry != nil {
		t.Errorf("expected retry_variants to be nil, got %v", *cfg.Retry)
	}
	if !cfg.RetryVariants() {
		t.Error("expected RetryVariants() default=true")
	}
}

func TestDuration_InvalidFormat(t *testing.T) {
	path := writeTemp(t, "timeout: not-a-duration\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error should mention invalid duration, got: %v", err)
	}
}

func TestDuration_EmptyIsZero(t *testing.T) {
	path := writeTemp(t, "timeout: \"\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timeout.Duration != 0 {
		t.Errorf("expected zero duration, got %v", cfg.Timeout.Duration)
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	path := writeTemp(t, "delay: 1m30s\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Delay.Duration != 90*time.Second {
		t.Errorf("expected 1m30s, got %v", cfg.Delay.Duration)
	}
}

func TestLoad_EndpointOverridesIndex(t *testing.T) {
	yaml := `index: CC-MAIN-2026-04
endpoint: https://index.example.org/custom-index
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "endpoint", cfg.Endpoint, "https://index.example.org/custom-index")
	assertEqual(t, "index", cfg.Index, "CC-MAIN-2026-04")
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cdxq.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
