package main

import (
	"fmt"
	"os"

	"github.com/kotoba-study/kotoba-api/cmd/admin/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "kotoba-admin",
		Short: "Administration tool for the Kotoba API",
		Long:  "CLI tool for inspecting the category tree and repairing daily summaries",
	}

	rootCmd.AddCommand(commands.NewCheckCmd())
	rootCmd.AddCommand(commands.NewTreeCmd())
	rootCmd.AddCommand(commands.NewRebuildCmd())
	rootCmd.AddCommand(commands.NewWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
