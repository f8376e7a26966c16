package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/courtside/internal/app"
	"github.com/abelbrown/courtside/internal/feeds"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the pipeline once and print the result",
	Long: `Fetch every enabled adapter once, merge, and write the GET envelope
to stdout. Adapter failures are logged to stderr.

Examples:
  courtside fetch
  courtside fetch --compact | jq '.data[].title'`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().Bool("compact", false, "single-line JSON")
}

type fetchOutput struct {
	Success   bool         `json:"success"`
	Data      []feeds.Item `json:"data"`
	Timestamp string       `json:"timestamp"`
	Fallback  bool         `json:"fallback,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	compact, _ := cmd.Flags().GetBool("compact")

	logger, err := newLogger(os.Stderr, "fetch")
	if err != nil {
		return err
	}
	obs, err := app.NewObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer obs.Close()

	pipeline, err := app.Pipeline(cfg, obs.Sink)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := pipeline.RunReport(ctx)
	for _, f := range report.Failures {
		logger.Warn("adapter failed", "source", f.Source, "err", f.Err)
	}
	logger.Info("pipeline complete", "items", len(report.Items), "fallback", report.Fallback, "dur", report.Dur.Round(time.Millisecond))

	out := fetchOutput{
		Success:   true,
		Data:      report.Items,
		Timestamp: feeds.CaptureTime(time.Now()).Format(feeds.TimestampLayout),
		Fallback:  report.Fallback,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
