package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cdxq/cli/export"
	"github.com/pithecene-io/cdxq/cli/render"
	"github.com/pithecene-io/cdxq/cli/tui"
	"github.com/pithecene-io/cdxq/types"
)

// ShowCommand returns the show command: browse a saved batch snapshot.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a saved batch snapshot",
		ArgsUsage: "SNAPSHOT",
		Flags: append(RenderFlags(),
			&cli.BoolFlag{
				Name:  "captures",
				Usage: "Include only capture records (combinable with --no-captures/--errors)",
			},
			&cli.BoolFlag{
				Name:  "no-captures",
				Usage: "Include only no_captures records (combinable)",
			},
			&cli.BoolFlag{
				Name:  "errors",
				Usage: "Include only error records (combinable)",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Show batch statistics instead of records",
			},
		),
		Action: showAction,
	}
}

func showAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one snapshot path", exitUsage)
	}

	snap, err := export.LoadSnapshot(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	batch := snap.Batch()

	if c.Bool("tui") {
		return tui.RunResultsTUI(batch)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	if c.Bool("stats") {
		return r.Render(snapshotSummary(snap, batch))
	}

	return r.RenderRecords(batch.Filtered(recordFilter(c)))
}

// recordFilter derives the inclusion filter from flags. No flags means
// everything.
func recordFilter(c *cli.Context) types.RecordFilter {
	filter := types.RecordFilter{
		Captures:   c.Bool("captures"),
		NoCaptures: c.Bool("no-captures"),
		Errors:     c.Bool("errors"),
	}
	if !filter.Captures && !filter.NoCaptures && !filter.Errors {
		return types.AllRecords
	}
	return filter
}

// SnapshotSummary is the stats payload for show --stats.
type SnapshotSummary struct {
	BatchID   string           `json:"batch_id"`
	CreatedAt string           `json:"created_at"`
	Endpoint  string           `json:"endpoint"`
	MatchType string           `json:"match_type"`
	Stats     types.BatchStats `json:"stats"`
}

func snapshotSummary(snap *export.Snapshot, batch *types.ResultBatch) SnapshotSummary {
	return SnapshotSummary{
		BatchID:   snap.BatchID,
		CreatedAt: snap.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		Endpoint:  snap.Endpoint,
		MatchType: snap.MatchType,
		Stats:     batch.Stats(),
	}
}
