package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/sim"
)

var (
	simOpts    = sim.DefaultOptions()
	flagHold   []string
	flagNoSave bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scene>",
	Short: "Run a scene headless and record the run",
	Long: `Drive a scene with emulated render frames whose length varies by the
jitter fraction, then print the physics statistics and save the run.

Examples:
  goblin simulate sandbox
  goblin simulate sandbox --hold right --seconds 5
  goblin simulate gjk --frame-rate 144 --jitter 0.5 --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&simOpts.Seconds, "seconds", simOpts.Seconds, "Emulated seconds to run")
	simulateCmd.Flags().Float64Var(&simOpts.FrameRate, "frame-rate", simOpts.FrameRate, "Emulated render frames per second")
	simulateCmd.Flags().Float64Var(&simOpts.Jitter, "jitter", simOpts.Jitter, "Frame time variation, 0 to <1")
	simulateCmd.Flags().Int64Var(&simOpts.Seed, "seed", simOpts.Seed, "Jitter RNG seed")
	simulateCmd.Flags().StringSliceVar(&flagHold, "hold", nil, "Actions held every frame (left, right, up, down, jump)")
	simulateCmd.Flags().StringVar(&flagRoom, "room", "", "Room ID for room-based scenes")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	opts := simOpts
	opts.Hold = opts.Hold[:0]
	for _, name := range flagHold {
		a, ok := core.ParseAction(name)
		if !ok {
			return fmt.Errorf("unknown action %q", name)
		}
		opts.Hold = append(opts.Hold, a)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	scene, err := app.scene(args[0], flagRoom)
	if err != nil {
		return err
	}

	res, err := sim.Run(cmd.Context(), scene, opts)
	if err != nil {
		return err
	}
	printResult(res)

	if flagNoSave {
		return nil
	}
	store, err := app.OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return nil
	}
	defer store.Close()

	id, err := store.SaveRun(res.Record())
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Recorded run %s\n", id)
	return nil
}

func printResult(res sim.Result) {
	st := res.Stats
	fmt.Printf("Scene %s", res.SceneID)
	if res.Fingerprint != "" {
		fmt.Printf("  room %s", res.Fingerprint)
	}
	fmt.Println()
	fmt.Println()
	fmt.Printf("  %-18s %d (%.3fs emulated)\n", "frames", res.Frames, res.FrameTime)
	fmt.Printf("  %-18s %d at %.0f Hz (%.3fs simulated)\n", "steps", st.Steps, res.RefreshRate, st.SimulatedTime)
	fmt.Printf("  %-18s %d\n", "pair checks", st.PairChecks)
	fmt.Printf("  %-18s %d\n", "broad-phase rejects", st.BroadPhaseRejects)
	fmt.Printf("  %-18s %d\n", "contacts", st.Contacts)
	fmt.Printf("  %-18s %d\n", "narrow-phase errors", st.Errors)
	fmt.Printf("  %-18s %s\n", "wall time", res.Wall.Round(time.Microsecond))

	if len(st.Profile) == 0 {
		return
	}
	activities := make([]string, 0, len(st.Profile))
	for a := range st.Profile {
		activities = append(activities, a)
	}
	sort.Strings(activities)
	fmt.Println()
	fmt.Printf("  %-10s  %12s  %10s\n", "Activity", "Total", "Per step")
	fmt.Printf("  %-10s  %12s  %10s\n", "--------", "-----", "--------")
	for _, a := range activities {
		total := st.Profile[a]
		perStep := time.Duration(0)
		if st.Steps > 0 {
			perStep = total / time.Duration(st.Steps)
		}
		fmt.Printf("  %-10s  %12s  %10s\n", a, total.Round(time.Microsecond), perStep)
	}
}
