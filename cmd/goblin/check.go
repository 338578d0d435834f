package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/goblin-physics/internal/level"
)

var checkCmd = &cobra.Command{
	Use:   "check <room files...>",
	Short: "Validate room files",
	Long: `Parse each room file and build its collision geometry, reporting
every file that would be skipped at load time.

Examples:
  goblin check rooms/cave.yaml
  goblin check rooms/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// checkResult is the outcome for one file.
type checkResult struct {
	room level.Level
	err  error
}

func runCheck(_ *cobra.Command, args []string) error {
	ppm := app.settings.Physics.PixelsPerMeter
	loader := level.NewLoader("")
	results := make([]checkResult, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			room, err := loader.LoadFile(path)
			if err == nil {
				err = room.Validate(ppm)
			}
			results[i] = checkResult{room: room, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("  FAIL  %s: %v\n", args[i], r.err)
			continue
		}
		fmt.Printf("  ok    %s  id=%s  %d polygons  %d rects  %d movers  %s\n",
			args[i], r.room.ID, len(r.room.Polygons), len(r.room.Rects), len(r.room.Movers), r.room.Fingerprint())
	}
	app.logger.Info("rooms checked", "files", len(args), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d room files invalid", failed, len(args))
	}
	return nil
}
