package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gander/graph"
)

var bfsVerify bool

var bfsCmd = &cobra.Command{
	Use:   "bfs <root>",
	Short: "Direction-optimizing breadth-first search from a root vertex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad root vertex %q: %w", args[0], err)
		}

		ex := newExecutor()
		forward, reverse, err := loadGraph(ex, true)
		if err != nil {
			return err
		}
		if uint32(root) >= forward.NumVertices() {
			return fmt.Errorf("root %d out of range [0, %d)", root, forward.NumVertices())
		}

		parents := graph.BFS(forward, reverse, uint32(root), graph.BFSOptions{Executor: ex})

		if bfsVerify {
			if err := graph.VerifyBFS(forward, reverse, uint32(root), parents); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			fmt.Println("verified")
		}

		reached := 0
		for v, parent := range parents {
			if parent != graph.Unreached {
				reached++
			}
			if len(parents) <= 32 {
				fmt.Printf("%d: parent %s\n", v, formatVertex(parent))
			}
		}
		fmt.Printf("reached %d of %d vertices\n", reached, forward.NumVertices())
		return nil
	},
}

func formatVertex(v uint32) string {
	if v == graph.Unreached {
		return "unreached"
	}
	return strconv.FormatUint(uint64(v), 10)
}

func init() {
	bfsCmd.Flags().BoolVar(&bfsVerify, "verify", false, "check the parent tree against a sequential search")
	rootCmd.AddCommand(bfsCmd)
}
