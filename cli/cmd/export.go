package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cdxq/cli/export"
)

// ExportCommand returns the export command: write a saved snapshot to a CSV
// or JSON file, or upload it to S3.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a saved batch snapshot to CSV, JSON, or S3",
		ArgsUsage: "SNAPSHOT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write records to a CSV file",
			},
			&cli.StringFlag{
				Name:  "json",
				Usage: "Write records to a JSON file",
			},
			&cli.StringFlag{
				Name:  "s3",
				Usage: "Upload to S3: bucket or bucket/prefix",
			},
			&cli.StringFlag{
				Name:  "s3-format",
				Usage: "Object format for --s3: csv or json",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:  "s3-region",
				Usage: "AWS region (optional, uses default chain)",
			},
			&cli.StringFlag{
				Name:  "s3-endpoint",
				Usage: "Custom S3 endpoint URL (R2, MinIO)",
			},
			&cli.BoolFlag{
				Name:  "s3-path-style",
				Usage: "Force path-style S3 addressing",
			},
		},
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one snapshot path", exitUsage)
	}
	if c.String("csv") == "" && c.String("json") == "" && c.String("s3") == "" {
		return cli.Exit("nothing to do: pass --csv, --json, or --s3", exitUsage)
	}

	snap, err := export.LoadSnapshot(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	// Exports always carry the unfiltered batch.
	records := snap.Records

	if path := c.String("csv"); path != "" {
		if err := export.WriteCSVFile(path, records); err != nil {
			return cli.Exit(err.Error(), exitBatchErrors)
		}
		fmt.Fprintf(c.App.Writer, "wrote %d records to %s\n", len(records), path)
	}
	if path := c.String("json"); path != "" {
		if err := export.WriteJSONFile(path, records); err != nil {
			return cli.Exit(err.Error(), exitBatchErrors)
		}
		fmt.Fprintf(c.App.Writer, "wrote %d records to %s\n", len(records), path)
	}

	if s3path := c.String("s3"); s3path != "" {
		key, err := uploadToS3(c, snap)
		if err != nil {
			return cli.Exit(err.Error(), exitBatchErrors)
		}
		bucket, _ := export.ParseS3Path(s3path)
		fmt.Fprintf(c.App.Writer, "uploaded %d records to s3://%s/%s\n", len(records), bucket, key)
	}

	return nil
}

func uploadToS3(c *cli.Context, snap *export.Snapshot) (string, error) {
	var (
		buf         bytes.Buffer
		contentType string
		ext         string
	)
	switch strings.ToLower(c.String("s3-format")) {
	case "csv":
		if err := export.WriteCSV(&buf, snap.Records); err != nil {
			return "", err
		}
		contentType, ext = "text/csv", "csv"
	case "json":
		if err := export.WriteJSON(&buf, snap.Records); err != nil {
			return "", err
		}
		contentType, ext = "application/json", "json"
	default:
		return "", fmt.Errorf("invalid --s3-format: %q (must be csv or json)", c.String("s3-format"))
	}

	bucket, prefix := export.ParseS3Path(c.String("s3"))
	uploader, err := export.NewS3Uploader(c.Context, export.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       c.String("s3-region"),
		Endpoint:     c.String("s3-endpoint"),
		UsePathStyle: c.Bool("s3-path-style"),
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s.%s", snap.BatchID, ext)
	return uploader.Upload(c.Context, key, contentType, buf.Bytes())
}
