package main

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"gander/graph"
	"gander/util"
)

func main() {
	// read config
	var config graph.ClientConfig
	err := util.ReadJSONConfig("config/client_config.json", &config)
	util.CheckErr(err, "Error reading client config: %v\n", err)

	// create a log file and log to both console and terminal
	logFile, err := os.OpenFile(
		"gander.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	// logs all start with ClientId from config
	log.SetPrefix(config.ClientId + ": ")

	log.Printf("Client: main.go: args: %v\n", os.Args)

	query, ok := parseArgs(os.Args)
	if !ok {
		log.Println("Usage: ./bin/client <graph> [bfs|shortestpath|betweenness] [vertexId...]")
		log.Println("Example: ./bin/client roads bfs 11")
		log.Println("Example: ./bin/client roads shortestpath 11 54")
		log.Println("Example: ./bin/client roads betweenness")
		return
	}

	client := graph.NewClient()
	notifyCh, err := client.Start(
		config.ClientId, config.CoordAddr, config.ClientAddr,
	)
	util.CheckErr(err, "Error connecting to coord: %v\n", err)

	numQueries := 1
	err = client.SendQuery(query)
	util.CheckErr(err, "Error sending query: %v\n", err)
	log.Printf("Client sent %v with %v\n", query.QueryType, query.Nodes)

	for i := 0; i < numQueries; i++ {
		result := <-notifyCh
		if result.Error != "" {
			log.Printf("Client: SendQuery error: %v\n", result.Error)
		}
		log.Printf("Client: SendQuery received result: %v\n", result.Result)
	}
}

func parseArgs(args []string) (graph.Query, bool) {
	var query graph.Query
	if len(args) < 3 {
		return query, false
	}
	query.Graph = args[1]

	nodes := make([]uint32, 0, len(args)-3)
	for _, arg := range args[3:] {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			log.Println("Provided vertex could not be converted to integer")
			return query, false
		}
		nodes = append(nodes, uint32(v))
	}
	query.Nodes = nodes

	switch {
	case strings.EqualFold(args[2], "bfs"):
		query.QueryType = graph.BREADTH_FIRST_SEARCH
		return query, len(nodes) == 1
	case strings.EqualFold(args[2], "shortestpath"):
		query.QueryType = graph.SHORTEST_PATH
		return query, len(nodes) == 1 || len(nodes) == 2
	case strings.EqualFold(args[2], "betweenness"):
		query.QueryType = graph.BETWEENNESS
		return query, true
	}
	return query, false
}
