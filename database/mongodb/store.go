package mongodb

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gander/graph"
	"gander/util"
)

const DEFAULT_DATABASE = "gander-db"

// DBVertex is the stored document shape; ids travel as strings because the
// original ingest pipeline wrote them that way and existing collections
// keep that format.
type DBVertex struct {
	ID    string
	Edges []string
	Hash  string
}

type Vertex struct {
	ID    uint64
	Edges []uint64
	Hash  uint64
}

func Connect(uri string) (*mongo.Client, error) {
	return mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
}

func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DEFAULT_DATABASE).Collection(collectionName)
}

func GetVertexById(collection *mongo.Collection, vertexId uint64) (Vertex, error) {
	var dbVertex DBVertex
	err := collection.FindOne(
		context.Background(), bson.M{"id": strconv.FormatUint(vertexId, 10)},
	).Decode(&dbVertex)
	if err != nil {
		return Vertex{}, err
	}
	return parseDBVertex(dbVertex), nil
}

// GetPartitionForWorkerX returns the vertices whose hash falls to worker
// workerId of numPartitions.
func GetPartitionForWorkerX(
	collection *mongo.Collection, numPartitions int, workerId int,
) ([]Vertex, error) {
	cursor, err := collection.Find(context.Background(), bson.M{
		"$expr": bson.M{
			"$eq": bson.A{
				bson.M{"$mod": bson.A{bson.M{"$toLong": "$hash"}, numPartitions}},
				workerId,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())
	return decodeVertices(cursor)
}

func InsertVertices(collection *mongo.Collection, vertices []Vertex) error {
	docs := make([]interface{}, len(vertices))
	for i, v := range vertices {
		docs[i] = formatDBVertex(v)
	}
	_, err := collection.InsertMany(context.Background(), docs)
	return err
}

// StoreEdgeList groups edges by source and inserts one document per
// vertex.
func StoreEdgeList(collection *mongo.Collection, el *graph.EdgeList) error {
	adjacency := make(map[uint64][]uint64)
	for i := 0; i < el.NumEdges(); i++ {
		src, dst, _ := el.Edge(i)
		adjacency[uint64(src)] = append(adjacency[uint64(src)], uint64(dst))
	}
	vertices := make([]Vertex, 0, len(adjacency))
	for id, edges := range adjacency {
		vertices = append(vertices, Vertex{ID: id, Edges: edges, Hash: util.HashId(id)})
	}
	return InsertVertices(collection, vertices)
}

// LoadEdgeList reads every document back into an edge list with unit
// weights.
func LoadEdgeList(collection *mongo.Collection) (*graph.EdgeList, error) {
	cursor, err := collection.Find(context.Background(), bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())

	vertices, err := decodeVertices(cursor)
	if err != nil {
		return nil, err
	}

	el := graph.NewEdgeList()
	for _, vertex := range vertices {
		for _, edge := range vertex.Edges {
			el.Push(uint32(vertex.ID), uint32(edge), 1)
		}
	}
	el.Close()
	return el, nil
}

func decodeVertices(cursor *mongo.Cursor) ([]Vertex, error) {
	var vertices []Vertex
	for cursor.Next(context.Background()) {
		var dbVertex DBVertex
		if err := cursor.Decode(&dbVertex); err != nil {
			return nil, err
		}
		vertices = append(vertices, parseDBVertex(dbVertex))
	}
	return vertices, cursor.Err()
}

func parseDBVertex(dbVertex DBVertex) Vertex {
	id, _ := strconv.ParseUint(dbVertex.ID, 10, 64)
	edges := make([]uint64, len(dbVertex.Edges))
	for idx, edge := range dbVertex.Edges {
		edges[idx], _ = strconv.ParseUint(edge, 10, 64)
	}
	hash, _ := strconv.ParseUint(dbVertex.Hash, 10, 64)
	return Vertex{ID: id, Edges: edges, Hash: hash}
}

func formatDBVertex(v Vertex) DBVertex {
	edges := make([]string, len(v.Edges))
	for idx, edge := range v.Edges {
		edges[idx] = strconv.FormatUint(edge, 10)
	}
	return DBVertex{
		ID:    strconv.FormatUint(v.ID, 10),
		Edges: edges,
		Hash:  strconv.FormatUint(v.Hash, 10),
	}
}
