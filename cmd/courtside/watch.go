package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/courtside/internal/client"
	"github.com/abelbrown/courtside/internal/logging"
	"github.com/abelbrown/courtside/internal/otel"
	"github.com/abelbrown/courtside/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Terminal client for a running endpoint",
	Long: `Show news, scores and schedule from a courtside endpoint. Reloads
every client.refresh_interval; press r to force a refresh. When the endpoint
is unreachable the bundled static data is shown with a warning. Press D for
the debug overlay.

Logs go to log.dir since the terminal is taken.

Examples:
  courtside watch
  courtside watch --endpoint http://news.example.com`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("endpoint", "", "endpoint base URL (overrides client.endpoint)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}

	logFile, err := logging.OpenFile(os.ExpandEnv(cfg.Log.Dir), "watch")
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "watch")
	if err != nil {
		return err
	}
	logger.Info("starting", "endpoint", cfg.Client.Endpoint, "refresh", cfg.Client.RefreshInterval)

	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	loader := client.NewLoader(
		client.New(cfg.Client.Endpoint, cfg.Client.Timeout),
		client.WithSink(otel.Tee(ring, logging.Sink(logger))),
	)
	model := ui.NewApp(ui.Options{
		Loader:   loader,
		Interval: cfg.Client.RefreshInterval,
		Timeout:  cfg.Client.Timeout,
		Ring:     ring,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running terminal client: %w", err)
	}
	return nil
}
