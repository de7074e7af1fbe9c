package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"

	"gander/graph"
	"gander/util"
)

// DatabaseConfig selects and addresses the shared relational store. Driver
// is "mysql" or "sqlserver".
type DatabaseConfig struct {
	Driver     string
	ServerAddr string
	Port       int
	Username   string
	Password   string
	Database   string
	TableName  string
}

// DBVertexResult is one adjacency-list row: a source vertex, its id hash
// used for partitioned reads, and its neighbors.
type DBVertexResult struct {
	VertexID     uint64
	VertexIDHash uint64
	Neighbors    []uint64
}

// SQLStore holds an adjacency-list table, one row per source vertex with
// the neighbor ids packed into a comma-separated text column.
type SQLStore struct {
	db    *sql.DB
	table string
}

func connString(config DatabaseConfig) string {
	switch config.Driver {
	case "sqlserver":
		return fmt.Sprintf("server=%s;user id=%s;password=%s;port=%d;database=%s;",
			config.ServerAddr, config.Username, config.Password, config.Port, config.Database)
	default: // mysql
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			config.Username, config.Password, config.ServerAddr, config.Port, config.Database)
	}
}

func ConnectSQL(config DatabaseConfig) (*SQLStore, error) {
	driver := config.Driver
	if driver == "" {
		driver = "mysql"
	}
	db, err := sql.Open(driver, connString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{db: db, table: config.TableName}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) CreateAdjacencyTable() error {
	create := "CREATE TABLE IF NOT EXISTS " + s.table + ` (
	  srcVertex BIGINT NOT NULL PRIMARY KEY,
	  vertexHash BIGINT NOT NULL,
	  neighbors TEXT NOT NULL
	  );`
	_, err := s.db.Exec(create)
	return err
}

func (s *SQLStore) InsertVertex(vertexId uint64, neighbors []uint64) error {
	_, err := s.db.Exec(
		"INSERT INTO "+s.table+" (srcVertex, vertexHash, neighbors) VALUES (?, ?, ?)",
		vertexId, util.HashId(vertexId)%modBase, joinNeighbors(neighbors),
	)
	return err
}

func (s *SQLStore) GetVertexById(vertexId uint64) (*DBVertexResult, error) {
	var searchID uint64
	var hash uint64
	var neighbors string
	row := s.db.QueryRow(
		"SELECT srcVertex, vertexHash, neighbors FROM "+s.table+" WHERE srcVertex = ?",
		vertexId,
	)
	if err := row.Scan(&searchID, &hash, &neighbors); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%d: unknown vertex", vertexId)
		}
		return nil, err
	}
	parsed, err := parseNeighborsString(neighbors)
	if err != nil {
		return nil, err
	}
	return &DBVertexResult{VertexID: searchID, VertexIDHash: hash, Neighbors: parsed}, nil
}

// GetVerticesModulo returns the partition of rows whose hash falls to
// worker workerId out of numWorkers.
func (s *SQLStore) GetVerticesModulo(workerId int, numWorkers int) ([]DBVertexResult, error) {
	rows, err := s.db.Query(
		"SELECT srcVertex, vertexHash, neighbors FROM "+s.table+" WHERE vertexHash % ? = ?",
		numWorkers, workerId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVertexRows(rows)
}

// LoadEdgeList expands every adjacency row back into directed edges with
// unit weight.
func (s *SQLStore) LoadEdgeList() (*graph.EdgeList, error) {
	rows, err := s.db.Query("SELECT srcVertex, vertexHash, neighbors FROM " + s.table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vertices, err := scanVertexRows(rows)
	if err != nil {
		return nil, err
	}

	el := graph.NewEdgeList()
	for _, v := range vertices {
		for _, neighbor := range v.Neighbors {
			el.Push(uint32(v.VertexID), uint32(neighbor), 1)
		}
	}
	el.Close()
	return el, nil
}

func scanVertexRows(rows *sql.Rows) ([]DBVertexResult, error) {
	var vertices []DBVertexResult
	for rows.Next() {
		var id, hash uint64
		var neighbors string
		if err := rows.Scan(&id, &hash, &neighbors); err != nil {
			return nil, err
		}
		parsed, err := parseNeighborsString(neighbors)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, DBVertexResult{
			VertexID: id, VertexIDHash: hash, Neighbors: parsed,
		})
	}
	return vertices, rows.Err()
}

// modBase keeps stored hashes inside BIGINT range.
const modBase = uint64(1) << 62

func joinNeighbors(neighbors []uint64) string {
	parts := make([]string, len(neighbors))
	for i, n := range neighbors {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ",")
}

func parseNeighborsString(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	neighbors := make([]uint64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad neighbors column %q: %w", s, err)
		}
		neighbors[i] = n
	}
	return neighbors, nil
}
