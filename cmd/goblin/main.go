// goblin runs 2D platformer physics scenes headless or in a terminal
// debug viewer and records every run.
//
// Usage:
//
//	goblin list                  - List available scenes and rooms
//	goblin view [scene]          - Watch a scene in the wireframe viewer
//	goblin simulate <scene>      - Run a scene headless and record the run
//	goblin check <files...>      - Validate room files
//	goblin runs [scene]          - Show recorded runs
//	goblin config                - Print the effective settings
//
// Global flags:
//
//	--config <path>     - Settings file (default: search order)
//	--db <path>         - Runs database (default: ~/.goblin/runs.db)
//	--log-file <path>   - Write logs to a file
//	--log-level <name>  - Override the settings log level
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	// Import scenes to register them
	_ "github.com/vovakirdan/goblin-physics/internal/scenes/sandbox"
	_ "github.com/vovakirdan/goblin-physics/internal/scenes/sweep"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
	flagRooms    string
)

var app = &appState{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if cerr := app.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "goblin",
	Short: "Goblin physics - GJK collision sandbox for the terminal",
	Long: `Goblin physics runs 2D platformer scenes built on GJK collision
detection and a fixed-step accumulator.

Available commands:
  list      - Show all scenes and rooms
  view      - Watch a scene in the wireframe viewer
  simulate  - Run a scene headless and record the run
  check     - Validate room files
  runs      - Show recorded runs
  config    - Print the effective settings

Examples:
  goblin list
  goblin view sandbox --room pit
  goblin simulate gjk --seconds 30 --jitter 0.5
  goblin check rooms/*.yaml
  goblin runs sandbox`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		interactive := cmd == viewCmd || (cmd == runsCmd && flagBrowse)
		return app.Setup(interactive)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.goblin/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&flagRooms, "rooms", "", "Directory of room files (default: built-in rooms)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}
