package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gander/database"
	"gander/database/mongodb"
	"gander/graph"
	"gander/mmio"
	"gander/util"
)

func main() {
	var config graph.CoordConfig
	err := util.ReadJSONConfig("config/coord_config.json", &config)
	util.CheckErr(err, "Error reading coord config: %v\n", err)

	logFile, err := os.OpenFile("gander.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetPrefix("Coord: ")

	coord := graph.NewCoord(config.Workers)
	for _, source := range config.Graphs {
		el, err := loadSource(source)
		util.CheckErr(err, "Error loading graph %q: %v\n", source.Name, err)
		err = coord.RegisterGraph(source.Name, el)
		util.CheckErr(err, "Error registering graph %q: %v\n", source.Name, err)
	}

	if config.HTTPAPIListenAddr != "" {
		go func() {
			err := coord.ServeHTTP(config.HTTPAPIListenAddr)
			util.CheckErr(err, "Error serving HTTP API: %v\n", err)
		}()
	}

	err = coord.ListenClientRPC(config.ClientAPIListenAddr)
	util.CheckErr(err, "Error serving client RPC: %v\n", err)
}

func loadSource(source graph.GraphSource) (*graph.EdgeList, error) {
	switch source.Kind {
	case "mtx":
		return mmio.ReadFile(source.Path)
	case "sqlite":
		store, err := database.OpenSQLite(source.Path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadEdgeList()
	case "sql":
		var dbConfig database.DatabaseConfig
		if err := util.ReadJSONConfig(source.Path, &dbConfig); err != nil {
			return nil, err
		}
		store, err := database.ConnectSQL(dbConfig)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadEdgeList()
	case "dynamodb":
		svc := database.GetDynamoClient()
		return database.LoadEdgeListDynamo(svc, source.Path)
	case "mongodb":
		client, err := mongodb.Connect(source.Path)
		if err != nil {
			return nil, err
		}
		return mongodb.LoadEdgeList(mongodb.GetCollection(client, source.Name))
	default:
		return nil, fmt.Errorf("unknown graph source kind: %q", source.Kind)
	}
}
