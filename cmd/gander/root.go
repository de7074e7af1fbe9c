package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gander/graph"
	"gander/mmio"
)

var rootCmd = &cobra.Command{
	Use:   "gander",
	Short: "Shared-memory graph analytics",
	Long: "Gander runs breadth-first search, delta-stepping shortest paths and\n" +
		"betweenness centrality over Matrix Market graphs, in parallel.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .gander.yaml)")
	rootCmd.PersistentFlags().StringP("graph", "g", "", "path to a Matrix Market graph file")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "worker goroutines (default GOMAXPROCS)")
	viper.BindPFlag("graph", rootCmd.PersistentFlags().Lookup("graph"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gander")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("GANDER")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadGraph reads the configured graph file and builds the adjacency and,
// when withReverse is set, its transpose.
func loadGraph(ex *graph.Executor, withReverse bool) (*graph.Adjacency, *graph.Adjacency, error) {
	path := viper.GetString("graph")
	if path == "" {
		return nil, nil, fmt.Errorf("no graph file: pass --graph or set GANDER_GRAPH")
	}
	el, err := mmio.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	opts := graph.BuildOptions{Executor: ex}
	forward := graph.BuildAdjacency(el, opts)
	var reverse *graph.Adjacency
	if withReverse {
		reverse = forward.Transpose(opts)
	}
	return forward, reverse, nil
}

func newExecutor() *graph.Executor {
	return graph.NewExecutor(viper.GetInt("workers"))
}
