package database

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"gander/graph"
	"gander/util"
)

const DEFAULT_REGION = "us-east-2"
const MAXIMUM_ITEMS_PER_BATCH = 25

// Vertex is the DynamoDB item shape: a vertex id, its out-neighbors and a
// stable hash used for partitioned scans.
type Vertex struct {
	ID    uint64
	Edges []uint64
	Hash  uint64
}

func GetDynamoClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(DEFAULT_REGION))
	if err != nil {
		log.Fatalf("unable to load SDK config %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetDynamoClientWithCredentials targets a non-default endpoint (a local
// DynamoDB, typically) with static credentials.
func GetDynamoClientWithCredentials(region, accessKey, secretKey string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func CreateVertexTable(svc *dynamodb.Client, tableName string) error {
	_, err := svc.CreateTable(context.TODO(), &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String("ID"),
			AttributeType: types.ScalarAttributeTypeN,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String("ID"),
			KeyType:       types.KeyTypeHash,
		}},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

func GetVertexByID(svc *dynamodb.Client, vertexId uint64, tableName string) (Vertex, error) {
	res, err := svc.GetItem(context.TODO(), &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberN{Value: strconv.FormatUint(vertexId, 10)},
		},
	})
	if err != nil {
		return Vertex{}, err
	}
	if res.Item == nil {
		return Vertex{}, fmt.Errorf("%d: unknown vertex", vertexId)
	}

	vertex := Vertex{}
	if err := attributevalue.UnmarshalMap(res.Item, &vertex); err != nil {
		return Vertex{}, err
	}
	return vertex, nil
}

// BatchWriteVertices uploads vertices in chunks of the DynamoDB batch
// maximum.
func BatchWriteVertices(svc *dynamodb.Client, tableName string, vertices []Vertex) error {
	for begin := 0; begin < len(vertices); begin += MAXIMUM_ITEMS_PER_BATCH {
		end := begin + MAXIMUM_ITEMS_PER_BATCH
		if end > len(vertices) {
			end = len(vertices)
		}

		writes := make([]types.WriteRequest, 0, end-begin)
		for _, vertex := range vertices[begin:end] {
			item, err := attributevalue.MarshalMap(vertex)
			if err != nil {
				return err
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		_, err := svc.BatchWriteItem(context.TODO(), &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{tableName: writes},
		})
		if err != nil {
			return fmt.Errorf("batch write starting at %d: %w", begin, err)
		}
	}
	return nil
}

// StoreEdgeList groups the edges by source vertex and batch-writes one
// item per vertex.
func StoreEdgeListDynamo(svc *dynamodb.Client, tableName string, el *graph.EdgeList) error {
	adjacency := make(map[uint64][]uint64)
	for i := 0; i < el.NumEdges(); i++ {
		src, dst, _ := el.Edge(i)
		adjacency[uint64(src)] = append(adjacency[uint64(src)], uint64(dst))
	}

	vertices := make([]Vertex, 0, len(adjacency))
	for id, edges := range adjacency {
		vertices = append(vertices, Vertex{
			ID:    id,
			Edges: edges,
			Hash:  util.HashId(id) % modBase,
		})
	}
	return BatchWriteVertices(svc, tableName, vertices)
}

// LoadEdgeListDynamo scans the whole table back into an edge list with
// unit weights.
func LoadEdgeListDynamo(svc *dynamodb.Client, tableName string) (*graph.EdgeList, error) {
	el := graph.NewEdgeList()

	p := dynamodb.NewScanPaginator(svc, &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(context.TODO())
		if err != nil {
			return nil, err
		}
		var vertices []Vertex
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &vertices); err != nil {
			return nil, err
		}
		for _, vertex := range vertices {
			for _, edge := range vertex.Edges {
				el.Push(uint32(vertex.ID), uint32(edge), 1)
			}
		}
	}
	el.Close()
	return el, nil
}
