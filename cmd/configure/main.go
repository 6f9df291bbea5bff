package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenhill-dev/estates-api/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "estates-configure",
		Short: "Configuration tool for the estates API",
		Long:  "CLI tool for managing site settings and checking service connectivity",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewSetCmd())
	rootCmd.AddCommand(commands.NewDeleteCmd())
	rootCmd.AddCommand(commands.NewExportCmd())
	rootCmd.AddCommand(commands.NewImportCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
