package main

import (
	"os"

	"onepager/cmd"
)

func main() {
	// Set up cmd package callbacks
	cmd.LaunchTUI = launchTUI
	cmd.StartServer = startServer
	cmd.SetupLogger = setupLogger

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
