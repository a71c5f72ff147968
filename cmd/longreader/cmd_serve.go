package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/longreader/server"
	"github.com/kbukum/longreader/version"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the speech API over HTTP",
	Long: `Starts the HTTP API. POST /v1/speech with {"text": "...", "voice": "..."}
returns the narrated audio as WAV. /health reports stage availability.

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	o, err := a.orchestrator(ctx, false)
	if err != nil {
		return err
	}

	srv := server.New(a.cfg.Server, a.log)
	srv.SetMetrics(a.metrics)
	srv.ApplyMiddleware()
	server.RegisterSpeech(srv.GinEngine(), o, a.log)
	srv.RegisterDefaultEndpoints(a.cfg.Base.Name, version.Get().Version, o.HealthCheckers()...)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
