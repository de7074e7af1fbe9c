package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"gander/graph"
)

var (
	bcNormalize bool
	bcTop       int
)

var bcCmd = &cobra.Command{
	Use:   "bc [source...]",
	Short: "Brandes betweenness centrality from the given sources (default: all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := newExecutor()
		forward, _, err := loadGraph(ex, false)
		if err != nil {
			return err
		}
		n := forward.NumVertices()

		sources := make([]uint32, 0, len(args))
		for _, arg := range args {
			v, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("bad source vertex %q: %w", arg, err)
			}
			if uint32(v) >= n {
				return fmt.Errorf("source %d out of range [0, %d)", v, n)
			}
			sources = append(sources, uint32(v))
		}
		if len(sources) == 0 {
			sources = make([]uint32, n)
			for v := uint32(0); v < n; v++ {
				sources[v] = v
			}
		}

		scores := graph.Betweenness(forward, sources, graph.BetweennessOptions{
			Normalize: bcNormalize,
			Executor:  ex,
		})

		order := make([]int, len(scores))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool {
			return scores[order[i]] > scores[order[j]]
		})
		top := bcTop
		if top > len(order) {
			top = len(order)
		}
		for _, v := range order[:top] {
			fmt.Printf("%d: %g\n", v, scores[v])
		}
		return nil
	},
}

func init() {
	bcCmd.Flags().BoolVar(&bcNormalize, "normalize", false, "scale scores by the maximum")
	bcCmd.Flags().IntVar(&bcTop, "top", 10, "number of highest-scoring vertices to print")
	rootCmd.AddCommand(bcCmd)
}
