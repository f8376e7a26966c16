package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abelbrown/courtside/internal/app"
	"github.com/abelbrown/courtside/internal/otel"
	"github.com/abelbrown/courtside/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the news endpoint",
	Long: `Serve the merged feed over HTTP.

Routes:
  GET|POST|OPTIONS /api/news       merged items
  GET|POST|OPTIONS /api/refresh    same contract as /api/news
  GET /api/events                  recent observability events
  GET /healthz                     liveness
  GET /metrics                     Prometheus metrics

Examples:
  courtside serve
  courtside serve --addr :9000
  COURTSIDE_LOG_EVENTS_FILE=events.jsonl courtside serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := newLogger(os.Stderr, "serve")
	if err != nil {
		return err
	}

	obs, err := app.NewObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if dropped := obs.Close(); dropped > 0 {
			logger.Warn("events dropped", "count", dropped)
		}
	}()

	pipeline, err := app.Pipeline(cfg, obs.Sink)
	if err != nil {
		return err
	}
	for _, name := range pipeline.Sources() {
		logger.Debug("adapter enabled", "name", name)
	}

	srv := server.New(server.Options{
		Runner:  pipeline,
		Sink:    obs.Sink,
		Logger:  logger,
		Ring:    obs.Ring,
		Metrics: obs.Metrics.Handler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Addr)
	}()
	logger.Info("listening", "addr", cfg.Server.Addr, "adapters", len(pipeline.Sources()), "session", obs.SessionID())

	select {
	case err := <-errCh:
		if err != nil {
			otel.Error(obs.Sink, otel.KindError, "serve", err)
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		otel.Warn(obs.Sink, otel.KindShutdown, "serve", "shutdown incomplete: "+err.Error())
		return err
	}
	return <-errCh
}
