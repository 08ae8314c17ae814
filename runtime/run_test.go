package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/pithecene-io/cdxq/types"
)

// fakeClient is a scripted cdx.Querier. Targets without a scripted response
// come back as no_captures.
type fakeClient struct {
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	rows   []types.CaptureRow
	class  types.Classification
	detail string
}

func (f *fakeClient) Query(_ context.Context, _ *types.QueryConfig, target string) ([]types.CaptureRow, types.Classification, string) {
	f.calls = append(f.calls, target)
	resp, ok := f.responses[target]
	if !ok {
		return nil, types.ClassNoCaptures, ""
	}
	return resp.rows, resp.class, resp.detail
}

func batchConfig(urls []string, client *fakeClient, mutate func(*types.QueryConfig)) *BatchConfig {
	cfg := &types.QueryConfig{
		Endpoint:  "https://index.test/CC-MAIN-2026-04-index",
		Match:     types.MatchExact,
		Limit:     10,
		Timeout:   5 * time.Second,
		Output:    types.OutputJSON,
		UserAgent: "cdxq/test",
	}
	if mutate != nil {
		mutate(cfg)
	}
	return &BatchConfig{
		BatchID: "test-batch",
		Query:   cfg,
		URLs:    urls,
		Client:  client,
		Sleep:   func(time.Duration) {},
	}
}

func mustRun(t *testing.T, config *BatchConfig) *types.ResultBatch {
	t.Helper()
	o, err := NewOrchestrator(config)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}
	batch, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return batch
}

func TestRun_DomainModeNeverRetriesVariants(t *testing.T) {
	client := &fakeClient{}
	config := batchConfig([]string{"missing.example"}, client, func(c *types.QueryConfig) {
		c.Match = types.MatchDomain
		c.RetryVariants = true
	})

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Type != types.ResultNoCaptures || recs[0].QueryURL != "missing.example" {
		t.Errorf("record = %+v, want no_captures for missing.example", recs[0])
	}
	if len(client.calls) != 1 {
		t.Errorf("client called %d times, want 1 (no variant retries in domain mode)", len(client.calls))
	}
}

func TestRun_VariantRetryRecovers(t *testing.T) {
	client := &fakeClient{
		responses: map[string]fakeResponse{
			"https://missing.example": {
				rows: []types.CaptureRow{{
					URLKey:    "example,missing)/",
					Timestamp: "20260101120000",
					URL:       "https://missing.example/",
					Status:    "200",
				}},
				class: types.ClassSuccess,
			},
		},
	}
	config := batchConfig([]string{"missing.example"}, client, func(c *types.QueryConfig) {
		c.RetryVariants = true
	})

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Type != types.ResultCapture {
		t.Fatalf("record type = %v, want capture", rec.Type)
	}
	if rec.QueryURL != "missing.example" {
		t.Errorf("QueryURL = %q, want the original input, not the variant", rec.QueryURL)
	}
	if rec.MatchedURL != "https://missing.example" {
		t.Errorf("MatchedURL = %q, want https://missing.example", rec.MatchedURL)
	}
	if rec.Capture == nil || rec.Capture.Timestamp != "20260101120000" {
		t.Errorf("capture fields not taken from the matched response: %+v", rec.Capture)
	}
}

func TestRun_NoRetryWhenFlagDisabled(t *testing.T) {
	client := &fakeClient{}
	config := batchConfig([]string{"missing.example"}, client, nil)

	batch := mustRun(t, config)

	if len(client.calls) != 1 {
		t.Errorf("client called %d times, want 1", len(client.calls))
	}
	if recs := batch.Records(); recs[0].Type != types.ResultNoCaptures {
		t.Errorf("record type = %v, want no_captures", recs[0].Type)
	}
}

func TestRun_AllTimeoutsEmitOneErrorPerURL(t *testing.T) {
	urls := []string{"a.example", "b.example", "c.example"}
	client := &fakeClient{responses: map[string]fakeResponse{}}
	for _, u := range urls {
		client.responses[u] = fakeResponse{class: types.ClassTimeout, detail: "timeout: request exceeded 5s"}
	}
	config := batchConfig(urls, client, nil)

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3 (one per URL, no early abort)", len(recs))
	}
	for i, rec := range recs {
		if rec.Type != types.ResultError {
			t.Errorf("record %d type = %v, want error", i, rec.Type)
		}
		if rec.QueryURL != urls[i] {
			t.Errorf("record %d QueryURL = %q, want %q (input order)", i, rec.QueryURL, urls[i])
		}
		if rec.ErrorMessage == "" {
			t.Errorf("record %d missing error message", i)
		}
	}
	if stats := batch.Stats(); stats.Errors != 3 {
		t.Errorf("error count = %d, want 3", stats.Errors)
	}
}

func TestRun_SuccessEmitsOneRecordPerCapture(t *testing.T) {
	client := &fakeClient{
		responses: map[string]fakeResponse{
			"http://example.com": {
				rows: []types.CaptureRow{
					{URL: "http://example.com/", Status: "200"},
					{URL: "http://example.com/", Status: "301"},
				},
				class: types.ClassSuccess,
			},
		},
	}
	config := batchConfig([]string{"http://example.com"}, client, nil)

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for _, rec := range recs {
		if rec.CaptureCount != 2 {
			t.Errorf("CaptureCount = %d, want 2", rec.CaptureCount)
		}
		if rec.MatchedURL != "" {
			t.Errorf("MatchedURL = %q, want empty for a direct hit", rec.MatchedURL)
		}
	}
}

func TestRun_VariantTransportErrorIsTerminal(t *testing.T) {
	client := &fakeClient{
		responses: map[string]fakeResponse{
			"http://missing.example": {class: types.ClassError, detail: "connection error: dial tcp: refused"},
		},
	}
	config := batchConfig([]string{"missing.example"}, client, func(c *types.QueryConfig) {
		c.RetryVariants = true
	})

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 1 || recs[0].Type != types.ResultError {
		t.Fatalf("records = %+v, want one error record", recs)
	}
	if recs[0].QueryURL != "missing.example" {
		t.Errorf("QueryURL = %q, want original", recs[0].QueryURL)
	}
	// Original plus the first variant only: the transport error stops the
	// variant walk.
	if len(client.calls) != 2 {
		t.Errorf("client called %d times, want 2, calls: %v", len(client.calls), client.calls)
	}
}

func TestRun_ExhaustedVariantsYieldSingleNoCaptures(t *testing.T) {
	client := &fakeClient{}
	config := batchConfig([]string{"missing.example"}, client, func(c *types.QueryConfig) {
		c.RetryVariants = true
	})

	batch := mustRun(t, config)

	recs := batch.Records()
	if len(recs) != 1 || recs[0].Type != types.ResultNoCaptures {
		t.Fatalf("records = %+v, want a single no_captures sentinel", recs)
	}
	if len(client.calls) < 3 {
		t.Errorf("expected variant attempts after the original, calls: %v", client.calls)
	}
	for i, call := range client.calls {
		if i > 0 && call == "missing.example" {
			t.Errorf("original form retried at call %d", i)
		}
	}
}

func TestRun_EveryInputURLAccountedFor(t *testing.T) {
	urls := []string{"a.example", "b.example", "c.example", "d.example"}
	client := &fakeClient{
		responses: map[string]fakeResponse{
			"a.example": {rows: []types.CaptureRow{{URL: "http://a.example/"}}, class: types.ClassSuccess},
			"c.example": {class: types.ClassError, detail: "HTTP 500: boom"},
		},
	}
	config := batchConfig(urls, client, nil)

	batch := mustRun(t, config)

	seen := make(map[string]struct{})
	for _, rec := range batch.Records() {
		seen[rec.QueryURL] = struct{}{}
	}
	for _, u := range urls {
		if _, ok := seen[u]; !ok {
			t.Errorf("input URL %q missing from batch", u)
		}
	}
	if stats := batch.Stats(); stats.DistinctURLs != len(urls) {
		t.Errorf("distinct URLs = %d, want %d", stats.DistinctURLs, len(urls))
	}
}

func TestRun_InterRequestPause(t *testing.T) {
	var pauses []time.Duration
	client := &fakeClient{}
	config := batchConfig([]string{"a.example", "b.example", "c.example"}, client, func(c *types.QueryConfig) {
		c.Delay = 300 * time.Millisecond
	})
	config.Sleep = func(d time.Duration) { pauses = append(pauses, d) }

	mustRun(t, config)

	if len(pauses) != 2 {
		t.Fatalf("slept %d times, want 2 (between URLs, not after the last)", len(pauses))
	}
	for _, d := range pauses {
		if d != 300*time.Millisecond {
			t.Errorf("pause = %v, want 300ms", d)
		}
	}
}

func TestRun_ProgressAdvances(t *testing.T) {
	client := &fakeClient{}
	config := batchConfig([]string{"a.example", "b.example"}, client, nil)

	o, err := NewOrchestrator(config)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}

	if p := o.Progress(); p.Completed != 0 || p.Total != 2 || p.Done() {
		t.Errorf("initial progress = %+v", p)
	}

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	p := o.Progress()
	if !p.Done() || p.Fraction() != 1.0 || p.CurrentURL != "" {
		t.Errorf("final progress = %+v, want done", p)
	}
}

func TestRun_CanceledContextStopsBetweenURLs(t *testing.T) {
	client := &fakeClient{}
	config := batchConfig([]string{"a.example", "b.example"}, client, nil)

	o, err := NewOrchestrator(config)
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := o.Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if batch == nil {
		t.Fatal("partial batch should still be returned")
	}
	if len(client.calls) != 0 {
		t.Errorf("no URL should be attempted on a pre-canceled context, calls: %v", client.calls)
	}
}

func TestNewOrchestrator_Validation(t *testing.T) {
	client := &fakeClient{}

	if _, err := NewOrchestrator(batchConfig(nil, client, nil)); err == nil {
		t.Error("expected error for empty URL list")
	}

	bad := batchConfig([]string{"a.example"}, client, func(c *types.QueryConfig) { c.Limit = 0 })
	if _, err := NewOrchestrator(bad); err == nil {
		t.Error("expected error for invalid query config")
	}

	noClient := batchConfig([]string{"a.example"}, client, nil)
	noClient.Client = nil
	if _, err := NewOrchestrator(noClient); err == nil {
		t.Error("expected error for missing client")
	}
}
