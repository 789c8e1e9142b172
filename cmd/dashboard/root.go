package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard - leaderboards and frontier charts for AI model evaluations",
		Long: `Dashboard computes leaderboards, capability frontiers and chart labels
from a catalog of benchmark datasets and model scores.

It can print views in the terminal, pick datasets interactively, validate
catalog files and serve the computed views over a REST API.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newViewCommand())
	cmd.AddCommand(newSelectCommand())
	cmd.AddCommand(newCategoriesCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
