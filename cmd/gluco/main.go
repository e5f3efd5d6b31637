package main

import (
	"os"

	"github.com/spf13/cobra"

	"gluco/internal/interfaces/cli/migrate"
	"gluco/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gluco",
		Short: "Gluco subscription service",
		Long:  `Subscription lifecycle and payment reconciliation service for the Gluco app.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
