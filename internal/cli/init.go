package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mull-dev/mull/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Creates .mull/config.yaml in the current directory with the default
service address and timing settings. Existing config is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		if _, err := config.ReadConfig(dir); err == nil {
			fmt.Println("Config already exists, nothing to do.")
			return nil
		}

		if err := config.WriteConfig(dir, config.DefaultConfig()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Println("Wrote .mull/config.yaml")
		return nil
	},
}
