package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/goblin-physics/internal/platform/tui"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

var (
	flagRunsLimit int
	flagBrowse    bool
	flagClear     bool
	flagYes       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scene]",
	Short: "Show recorded runs",
	Long: `List the most recent recorded runs, optionally for one scene.

Examples:
  goblin runs
  goblin runs sandbox --limit 5
  goblin runs --browse
  goblin runs gjk --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to list")
	runsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive runs browser")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the listed scene's runs (all runs without a scene)")
	runsCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask before clearing")
}

func runRuns(_ *cobra.Command, args []string) error {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		if !registry.Exists(sceneID) {
			return fmt.Errorf("unknown scene %q (run 'goblin list' to see available scenes)", sceneID)
		}
	}

	store, err := app.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagClear:
		what := "all runs"
		if sceneID != "" {
			what = "runs of " + sceneID
		}
		if !flagYes && !confirm(fmt.Sprintf("Delete %s?", what)) {
			fmt.Println("Nothing deleted.")
			return nil
		}
		n, err := store.ClearRuns(sceneID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d runs.\n", n)
		return nil

	case flagBrowse:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		_, err := tui.RunRunsBrowser(store, sceneID, width, height)
		return err
	}

	runs := store.RecentRuns
	if sceneID != "" {
		runs = func(limit int) ([]storage.Run, error) { return store.RunsForScene(sceneID, limit) }
	}
	list, err := runs(flagRunsLimit)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'goblin simulate <scene>' to record one.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %8s  %8s  %8s  %7s  %s\n", "Date", "Scene", "Steps", "Contacts", "Sim s", "Wall ms", "ID")
	fmt.Printf("  %-16s  %-8s  %8s  %8s  %8s  %7s  %s\n", "----", "-----", "-----", "--------", "-----", "-------", "--")
	for _, r := range list {
		fmt.Printf("  %-16s  %-8s  %8d  %8d  %8.2f  %7d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.SceneID, r.Steps, r.Contacts, r.SimulatedSeconds, r.WallMillis, r.ID)
	}

	sums, err := store.Summaries()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, info := range registry.List() {
		if s, ok := sums[info.ID]; ok && (sceneID == "" || sceneID == info.ID) {
			fmt.Printf("%s: %d runs, %d steps, %.1fs simulated, avg wall %.0fms\n",
				info.ID, s.Runs, s.TotalSteps, s.SimulatedSeconds, s.AvgWallMillis)
		}
	}
	return nil
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
