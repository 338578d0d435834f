package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/goblin-physics/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenes and rooms",
	Long:  `Shows every registered scene and the rooms the sandbox can load.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	scenes := registry.List()
	if len(scenes) == 0 {
		fmt.Println("No scenes available.")
		return nil
	}

	fmt.Println("Available scenes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range scenes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	loader := app.Loader()
	rooms, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading rooms from %s: %w", loader.Root, err)
	}
	fmt.Println()
	fmt.Printf("Rooms (%s):\n", loader.Root)
	fmt.Println()
	for _, r := range rooms {
		fmt.Printf("  %-*s  %s  %gx%g px  %s\n", maxIDLen, r.ID, r.Name, r.Width, r.Height, r.Fingerprint())
	}

	fmt.Println()
	fmt.Println("Run 'goblin view <id>' to watch a scene.")
	return nil
}
