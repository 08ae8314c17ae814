package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cdxq/cdx"
	"github.com/pithecene-io/cdxq/cli/config"
	"github.com/pithecene-io/cdxq/cli/export"
	"github.com/pithecene-io/cdxq/cli/reader"
	"github.com/pithecene-io/cdxq/cli/render"
	"github.com/pithecene-io/cdxq/cli/tui"
	"github.com/pithecene-io/cdxq/metrics"
	"github.com/pithecene-io/cdxq/runtime"
	"github.com/pithecene-io/cdxq/types"
)

// Exit codes.
const (
	// exitSuccess means the batch ran and every URL resolved cleanly
	// (captures or no_captures).
	exitSuccess = 0
	// exitBatchErrors means the batch ran but at least one URL produced a
	// transport or server error.
	exitBatchErrors = 1
	// exitUsage means invalid input or configuration; nothing was queried.
	exitUsage = 2
)

// Built-in query defaults, overridable by config file and flags.
const (
	defaultLimit   = 10
	defaultTimeout = 10 * time.Second
	defaultDelay   = 300 * time.Millisecond
)

// defaultUserAgent identifies cdxq to the CDX server.
var defaultUserAgent = "cdxq/" + types.Version

// QueryCommand returns the query command, the only command that performs
// network work.
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Query a CDX index for a batch of URLs",
		ArgsUsage: "[URL ...]",
		Flags: append(RenderFlags(),
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to cdxq.yaml config file with flag defaults",
			},
			&cli.StringSliceFlag{
				Name:    "url-file",
				Aliases: []string{"u"},
				Usage:   "Newline-delimited URL list file ('-' for stdin, repeatable)",
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Common Crawl collection name (e.g. CC-MAIN-2026-04)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Custom CDX index URL (overrides --index)",
			},
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "URL match mode: exact, prefix, host, domain",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: fmt.Sprintf("Maximum captures per URL (1-%d)", types.MaxLimit),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause between URLs",
			},
			&cli.StringFlag{
				Name:  "filter-status",
				Usage: "Restrict captures to an HTTP status code (e.g. 200)",
			},
			&cli.StringFlag{
				Name:  "filter-mime",
				Usage: "Restrict captures to a MIME type (e.g. text/html)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Inclusive lower timestamp bound (YYYYMMDDHHMMSS prefix)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Inclusive upper timestamp bound (YYYYMMDDHHMMSS prefix)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Response encoding requested from the server: json or text",
			},
			&cli.StringFlag{
				Name:  "fields",
				Usage: "Comma-separated fl field list (server default when empty)",
			},
			&cli.BoolFlag{
				Name:  "no-retry",
				Usage: "Disable URL-variant retry on no_captures (exact match only)",
			},
			&cli.StringFlag{
				Name:  "user-agent",
				Usage: "User-Agent header sent to the CDX server",
			},
			&cli.StringFlag{
				Name:  "batch-id",
				Usage: "Batch identifier for logs and snapshots (generated when empty)",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Save the finished batch to a msgpack snapshot file",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write the finished batch to a CSV file",
			},
			&cli.StringFlag{
				Name:  "json",
				Usage: "Write the finished batch to a JSON file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress record output (summary and exports only)",
			},
		),
		Action: queryAction,
	}
}

func queryAction(c *cli.Context) error {
	fileCfg, err := loadFileConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	queryCfg, err := buildQueryConfig(c, fileCfg)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	urls, err := gatherURLs(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if len(urls) == 0 {
		return cli.Exit("no URLs given: pass URL arguments or --url-file", exitUsage)
	}

	batchID := c.String("batch-id")
	if batchID == "" {
		batchID = uuid.NewString()
	}

	orchestrator, err := runtime.NewOrchestrator(&runtime.BatchConfig{
		BatchID: batchID,
		Query:   queryCfg,
		URLs:    urls,
		Client:  cdx.NewClient(),
		Metrics: metrics.New(),
	})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	start := time.Now()
	batch, runErr := runBatch(ctx, c.Bool("tui"), orchestrator)
	if runErr != nil && batch == nil {
		return cli.Exit(fmt.Sprintf("batch failed: %v", runErr), exitUsage)
	}

	if err := writeExports(c, batchID, queryCfg, fileCfg, batch); err != nil {
		return cli.Exit(err.Error(), exitBatchErrors)
	}

	if err := renderBatch(c, orchestrator, batch, time.Since(start)); err != nil {
		return err
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("batch interrupted: %v", runErr), exitBatchErrors)
	}
	if batch.Stats().Errors > 0 {
		return cli.Exit("", exitBatchErrors)
	}
	return nil
}

// runBatch executes the batch, optionally under a live progress view.
func runBatch(ctx context.Context, withTUI bool, o *runtime.Orchestrator) (*types.ResultBatch, error) {
	if !withTUI {
		return o.Run(ctx)
	}

	type result struct {
		batch *types.ResultBatch
		err   error
	}
	done := make(chan result, 1)
	go func() {
		batch, err := o.Run(ctx)
		done <- result{batch, err}
	}()

	if err := tui.RunProgressTUI(o.Progress); err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}
	res := <-done
	return res.batch, res.err
}

// renderBatch prints records and the summary, or opens the results browser.
func renderBatch(c *cli.Context, o *runtime.Orchestrator, batch *types.ResultBatch, duration time.Duration) error {
	if c.Bool("tui") {
		return tui.RunResultsTUI(batch)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	if !c.Bool("quiet") {
		if err := r.RenderRecords(batch.Records()); err != nil {
			return err
		}
	}

	// Summary goes to stderr in table mode so piped output stays parseable.
	report := o.Report(batch, duration)
	if r.Format() == render.FormatTable {
		stats := report.Stats
		fmt.Fprintf(os.Stderr, "\n%d URLs, %d captures, %d without captures, %d errors (%s)\n",
			stats.DistinctURLs, stats.Captures, stats.NoCaptures, stats.Errors,
			duration.Round(time.Millisecond))
		return nil
	}
	if c.Bool("quiet") {
		return r.Render(report)
	}
	return nil
}

// writeExports saves the batch to any requested destinations. The config
// file's export section supplies defaults: a standing snapshot path and an
// S3 bucket every batch is uploaded to.
func writeExports(c *cli.Context, batchID string, cfg *types.QueryConfig, fileCfg *config.Config, batch *types.ResultBatch) error {
	records := batch.Records()

	if path := c.String("csv"); path != "" {
		if err := export.WriteCSVFile(path, records); err != nil {
			return err
		}
	}
	if path := c.String("json"); path != "" {
		if err := export.WriteJSONFile(path, records); err != nil {
			return err
		}
	}

	snapshotPath := c.String("snapshot")
	if snapshotPath == "" {
		snapshotPath = fileCfg.Export.Snapshot
	}
	if snapshotPath != "" {
		if err := export.SaveSnapshot(snapshotPath, export.NewSnapshot(batchID, cfg, batch)); err != nil {
			return err
		}
	}

	if fileCfg.Export.S3Bucket != "" {
		return uploadBatchJSON(c.Context, batchID, fileCfg.Export, records)
	}
	return nil
}

// uploadBatchJSON puts the batch records as a JSON object into the bucket
// configured in the export section.
func uploadBatchJSON(ctx context.Context, batchID string, exp config.ExportConfig, records []types.OutcomeRecord) error {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, records); err != nil {
		return err
	}

	uploader, err := export.NewS3Uploader(ctx, export.S3Config{
		Bucket:       exp.S3Bucket,
		Prefix:       exp.S3Prefix,
		Region:       exp.S3Region,
		Endpoint:     exp.S3Endpoint,
		UsePathStyle: exp.S3PathStyle,
	})
	if err != nil {
		return err
	}

	_, err = uploader.Upload(ctx, batchID+".json", "application/json", buf.Bytes())
	return err
}

// loadFileConfig loads --config when given, or ./cdxq.yaml when present.
func loadFileConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("cdxq.yaml"); err == nil {
		return config.Load("cdxq.yaml")
	}
	return &config.Config{}, nil
}

// buildQueryConfig merges built-in defaults, the config file, and flags,
// in that order of increasing precedence.
func buildQueryConfig(c *cli.Context, fileCfg *config.Config) (*types.QueryConfig, error) {
	cfg := &types.QueryConfig{
		Match:         types.MatchExact,
		Limit:         defaultLimit,
		Timeout:       defaultTimeout,
		Delay:         defaultDelay,
		Output:        types.OutputJSON,
		UserAgent:     defaultUserAgent,
		RetryVariants: fileCfg.RetryVariants(),
	}

	// Config file layer.
	if fileCfg.Match != "" {
		m, err := types.ParseMatchType(fileCfg.Match)
		if err != nil {
			return nil, err
		}
		cfg.Match = m
	}
	if fileCfg.Limit > 0 {
		cfg.Limit = fileCfg.Limit
	}
	if fileCfg.Timeout.Duration > 0 {
		cfg.Timeout = fileCfg.Timeout.Duration
	}
	if fileCfg.Delay.Duration > 0 {
		cfg.Delay = fileCfg.Delay.Duration
	}
	if fileCfg.Output != "" {
		o, err := types.ParseOutputEncoding(fileCfg.Output)
		if err != nil {
			return nil, err
		}
		cfg.Output = o
	}
	cfg.Fields = fileCfg.Fields
	if fileCfg.UserAgent != "" {
		cfg.UserAgent = fileCfg.UserAgent
	}
	cfg.FilterStatus = fileCfg.Filter.Status
	cfg.FilterMime = fileCfg.Filter.Mime
	cfg.From = fileCfg.Filter.From
	cfg.To = fileCfg.Filter.To

	endpoint, err := resolveEndpoint(c.String("endpoint"), c.String("index"), fileCfg)
	if err != nil {
		return nil, err
	}
	cfg.Endpoint = endpoint

	// Flag layer.
	if c.IsSet("match") {
		m, err := types.ParseMatchType(c.String("match"))
		if err != nil {
			return nil, err
		}
		cfg.Match = m
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("delay") {
		cfg.Delay = c.Duration("delay")
	}
	if c.IsSet("output") {
		o, err := types.ParseOutputEncoding(c.String("output"))
		if err != nil {
			return nil, err
		}
		cfg.Output = o
	}
	if c.IsSet("fields") {
		cfg.Fields = c.String("fields")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("filter-status") {
		cfg.FilterStatus = c.String("filter-status")
	}
	if c.IsSet("filter-mime") {
		cfg.FilterMime = c.String("filter-mime")
	}
	if c.IsSet("from") {
		cfg.From = c.String("from")
	}
	if c.IsSet("to") {
		cfg.To = c.String("to")
	}
	if c.Bool("no-retry") {
		cfg.RetryVariants = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveEndpoint picks the CDX endpoint: explicit URL beats named index,
// flags beat the config file, and the newest known collection is the final
// fallback.
func resolveEndpoint(endpointFlag, indexFlag string, fileCfg *config.Config) (string, error) {
	switch {
	case endpointFlag != "":
		return cdx.ResolveIndex(endpointFlag)
	case indexFlag != "":
		return cdx.ResolveIndex(indexFlag)
	case fileCfg.Endpoint != "":
		return cdx.ResolveIndex(fileCfg.Endpoint)
	case fileCfg.Index != "":
		return cdx.ResolveIndex(fileCfg.Index)
	default:
		return cdx.DefaultCollection().Endpoint, nil
	}
}

// gatherURLs combines positional arguments and --url-file lists, arguments
// first.
func gatherURLs(c *cli.Context) ([]string, error) {
	urls := append([]string(nil), c.Args().Slice()...)
	for _, path := range c.StringSlice("url-file") {
		fromFile, err := reader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	return urls, nil
}
