package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server that shows the report page.

The dataset is fetched once when the server starts. Until it resolves the
page shows a loading indicator; a failed fetch shows a fixed error message.
POST /reload starts a fresh load.

Routes:
  GET  /             report page (HTML, print-ready)
  GET  /report.pdf   report as A4 PDF
  GET  /report.svg   report as SVG
  GET  /api/report   series and insights as JSON
  POST /reload       replace the dataset with a fresh load
  GET  /healthz      liveness`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe(cmd)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the server on (default from config)")
}

func runServe(cmd *cobra.Command) {
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		HandleError(err, "Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting onepager web server...\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", cfg.Source.Kind)
	fmt.Fprintf(cmd.OutOrStdout(), "Port: %d\n\n", cfg.Server.Port)

	// StartServer is provided by package main
	if err := StartServer(ctx, cfg, newSource(cfg)); err != nil {
		HandleError(err, "Server failed")
	}
}
