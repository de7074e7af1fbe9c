package main

import (
	"io"
	"log"
	"os"

	"gander/database"
	"gander/database/mongodb"
	"gander/graph"
	"gander/mmio"
	"gander/util"
)

// loader ingests a Matrix Market file into one of the edge stores so the
// coordinator can load it back without re-parsing text.
func main() {
	logFile, err := os.OpenFile("gander.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetPrefix("Loader: ")

	if len(os.Args) != 4 {
		log.Println("Usage: ./bin/loader [sqlite|sql|dynamodb|mongodb] [target] [graph.mtx]")
		log.Println("Example: ./bin/loader sqlite graphs.db web-Google.mtx")
		log.Println("Example: ./bin/loader dynamodb roads-table roads.mtx")
		return
	}
	kind, target, path := os.Args[1], os.Args[2], os.Args[3]

	el, err := mmio.ReadFile(path)
	util.CheckErr(err, "Error reading %v: %v\n", path, err)
	log.Printf("Loader: read %v vertices, %v edges from %v\n",
		el.NumVertices(), el.NumEdges(), path)

	switch kind {
	case "sqlite":
		store, err := database.OpenSQLite(target)
		util.CheckErr(err, "Error opening sqlite store: %v\n", err)
		defer store.Close()
		err = store.StoreEdgeList(el)
		util.CheckErr(err, "Error storing edges: %v\n", err)
	case "sql":
		var dbConfig database.DatabaseConfig
		err := util.ReadJSONConfig(target, &dbConfig)
		util.CheckErr(err, "Error reading database config: %v\n", err)
		store, err := database.ConnectSQL(dbConfig)
		util.CheckErr(err, "Error connecting to database: %v\n", err)
		defer store.Close()
		err = store.CreateAdjacencyTable()
		util.CheckErr(err, "Error creating adjacency table: %v\n", err)
		err = storeEdgeListSQL(store, el)
		util.CheckErr(err, "Error storing edges: %v\n", err)
	case "dynamodb":
		svc := database.GetDynamoClient()
		if err := database.CreateVertexTable(svc, target); err != nil {
			log.Printf("Loader: create table: %v (continuing)\n", err)
		}
		err = database.StoreEdgeListDynamo(svc, target, el)
		util.CheckErr(err, "Error storing edges: %v\n", err)
	case "mongodb":
		uri := os.Getenv("GANDER_MONGO_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		client, err := mongodb.Connect(uri)
		util.CheckErr(err, "Error connecting to mongodb: %v\n", err)
		err = mongodb.StoreEdgeList(mongodb.GetCollection(client, target), el)
		util.CheckErr(err, "Error storing edges: %v\n", err)
	default:
		log.Printf("Loader: unknown store kind: %v\n", kind)
		return
	}

	log.Printf("Loader: stored %v edges into %v %v\n", el.NumEdges(), kind, target)
}

func storeEdgeListSQL(store *database.SQLStore, el *graph.EdgeList) error {
	adjacency := make(map[uint64][]uint64)
	for i := 0; i < el.NumEdges(); i++ {
		src, dst, _ := el.Edge(i)
		adjacency[uint64(src)] = append(adjacency[uint64(src)], uint64(dst))
	}
	for id, neighbors := range adjacency {
		if err := store.InsertVertex(id, neighbors); err != nil {
			return err
		}
	}
	return nil
}
