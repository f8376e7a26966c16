package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/courtside/internal/config"
	"github.com/abelbrown/courtside/internal/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "NBA news, scores and schedule aggregator",
	Long: `courtside collects basketball headlines, final scores and upcoming games
from several upstream sites, merges them into one deduplicated list and
serves it over HTTP with a static fallback when every upstream fails.

Example usage:
  courtside serve                    # Serve /api/news on :8888
  courtside fetch > news.json        # One pipeline run to stdout
  courtside watch                    # Terminal client for a running server
  courtside events -kind adapter.    # Inspect the event log`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./courtside.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initConfig loads configuration from file and COURTSIDE_* variables.
func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

// newLogger builds the process logger at the configured level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	logger, err := logging.New(w, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger.SetPrefix(prefix)
	return logger, nil
}
