package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"gander/graph"
)

var ssspDelta float32

var ssspCmd = &cobra.Command{
	Use:   "sssp <source> [target]",
	Short: "Delta-stepping single-source shortest paths",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad source vertex %q: %w", args[0], err)
		}

		ex := newExecutor()
		forward, _, err := loadGraph(ex, false)
		if err != nil {
			return err
		}
		if uint32(source) >= forward.NumVertices() {
			return fmt.Errorf("source %d out of range [0, %d)", source, forward.NumVertices())
		}

		dist := graph.DeltaStepping(forward, uint32(source), ssspDelta,
			graph.DeltaSteppingOptions{Executor: ex})

		if len(args) == 2 {
			target, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("bad target vertex %q: %w", args[1], err)
			}
			if uint32(target) >= forward.NumVertices() {
				return fmt.Errorf("target %d out of range [0, %d)", target, forward.NumVertices())
			}
			fmt.Printf("%d -> %d: %s\n", source, target, formatDistance(dist[target]))
			return nil
		}

		reached := 0
		for v, d := range dist {
			if !math.IsInf(float64(d), 1) {
				reached++
			}
			if len(dist) <= 32 {
				fmt.Printf("%d: %s\n", v, formatDistance(d))
			}
		}
		fmt.Printf("reached %d of %d vertices\n", reached, forward.NumVertices())
		return nil
	},
}

func formatDistance(d float32) string {
	if math.IsInf(float64(d), 1) {
		return "unreachable"
	}
	return strconv.FormatFloat(float64(d), 'g', -1, 32)
}

func init() {
	ssspCmd.Flags().Float32Var(&ssspDelta, "delta", 1, "bucket width for the distance windows")
	rootCmd.AddCommand(ssspCmd)
}
