package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyeh/recordstats/internal/exitcode"
	"github.com/gyeh/recordstats/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	Long:  "Serves metrics and patient lookups over HTTP. The sources under --data-dir are reloaded on every request.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := server.DirSource{Dir: cfg.DataDir, Sources: cfg.Sources, Options: cfg.CSVOptions()}
	srv := server.New(src, log, server.Options{SelfPayPayerID: cfg.SelfPayPayerID})
	if err := srv.Start(ctx, serveAddr); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(exitcode.ServeError)
	}
	return nil
}
