package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cdxq/cdx"
	"github.com/pithecene-io/cdxq/cli/render"
)

// IndexesCommand returns the indexes command: list known Common Crawl
// monthly collections.
func IndexesCommand() *cli.Command {
	return &cli.Command{
		Name:   "indexes",
		Usage:  "List known Common Crawl index collections",
		Flags:  RenderFlags(),
		Action: indexesAction,
	}
}

func indexesAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for indexes", exitUsage)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	return r.Render(cdx.Collections)
}
