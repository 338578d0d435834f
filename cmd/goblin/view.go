package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/goblin-physics/internal/config"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/platform/tui"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

var (
	flagRoom  string
	flagDebug bool
)

var viewCmd = &cobra.Command{
	Use:   "view [scene]",
	Short: "Watch a scene in the wireframe viewer",
	Long: `Start the terminal debug viewer. Without a scene a picker menu is shown,
and you return to it when the viewer closes.

Controls:
  Left/Right, A/D  - Walk
  Up/Down, W/S     - Nudge (gjk scene)
  Space            - Jump
  P/Esc            - Pause
  R                - Reload settings
  G                - Toggle debug bounds
  ?                - Help
  Q/Ctrl+C         - Quit

Examples:
  goblin view
  goblin view sandbox --room pit
  goblin view gjk --debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&flagRoom, "room", "", "Room ID for room-based scenes")
	viewCmd.Flags().BoolVar(&flagDebug, "debug", false, "Start with debug bounds shown")
}

func runView(_ *cobra.Command, args []string) error {
	store, err := app.OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig(app.settings)
	if len(args) == 1 {
		return viewScene(args[0], store, cfg)
	}

	// Menu loop
	for {
		res, err := tui.RunMenu(cfg, runCounts(store))
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil
		case res.WantsRuns:
			goBack, err := tui.RunRunsBrowser(store, "", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
		default:
			if err := viewScene(res.SceneID, store, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func viewScene(id string, store *storage.Store, cfg core.RuntimeConfig) error {
	scene, err := newScene(id)
	if err != nil {
		return err
	}
	return tui.Run(scene, tui.Options{
		Settings: app.settings,
		Runtime:  cfg,
		Env:      app.Env(flagRoom),
		Store:    store,
		Reload: func() (config.Settings, error) {
			return config.Load(flagConfig)
		},
	})
}

// runtimeConfig sizes the viewer to the terminal.
func runtimeConfig(s config.Settings) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = s.TickRate()
	cfg.Debug = flagDebug
	return cfg
}

// runCounts returns recorded runs per scene, or nil without a database.
func runCounts(store *storage.Store) map[string]int {
	if store == nil {
		return nil
	}
	sums, err := store.Summaries()
	if err != nil {
		app.logger.Warn("run summaries unavailable", "error", err)
		return nil
	}
	counts := make(map[string]int, len(sums))
	for id, s := range sums {
		counts[id] = s.Runs
	}
	return counts
}
