package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/goblin-physics/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Print the settings in use as YAML, preceded by where they came from.
Redirect the output to ~/.goblin/settings.yaml to start a custom file.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		data, err := config.Encode(app.settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "# source: %s\n", app.source)
		_, err = os.Stdout.Write(data)
		return err
	},
}
