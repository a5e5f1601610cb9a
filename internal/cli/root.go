// Package cli defines Cobra command definitions for the mull CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mull-dev/mull/internal/api"
	"github.com/mull-dev/mull/internal/config"
	"github.com/mull-dev/mull/internal/log"
	"github.com/mull-dev/mull/internal/tui"
	"github.com/mull-dev/mull/internal/tui/app"
)

var version = "dev" // set via ldflags at build time

var rootCmd = &cobra.Command{
	Use:   "mull",
	Short: "Should-I-buy-it advice sessions in your terminal",
	Long: `Mull asks a short survey about an item you are tempted to buy and
comes back with a verdict. Chats are kept on the advice service, so
you can reopen or delete them later.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		cfg, client, err := buildClient()
		if err != nil {
			return err
		}

		logger, err := buildLogger()
		if err != nil {
			return err
		}

		tuiApp := app.New(cfg, client, logger)
		defer tuiApp.Close()
		return tui.Run(tuiApp)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildClient loads the config from the working directory, falling back to
// defaults when the project is not initialized, and builds the service
// client from it.
func buildClient() (*config.Config, *api.Client, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	return cfg, api.NewClient(cfg.Service.BaseURL, cfg.Timeout()), nil
}

// buildLogger creates the JSONL event logger in the working directory.
func buildLogger() (*log.Logger, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return log.NewLogger(dir)
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(deleteCmd)
}
