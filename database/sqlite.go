package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"gander/graph"
)

// SQLiteStore is the local edge cache: one flat edges table, loaded back
// in insertion order so the builder sees the same sequence that was stored.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	const createEdges string = `
	  CREATE TABLE IF NOT EXISTS edges (
	  src INTEGER NOT NULL,
	  dst INTEGER NOT NULL,
	  weight REAL NOT NULL
	  );`
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createEdges); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create edges table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// StoreEdgeList writes every edge in one transaction.
func (s *SQLiteStore) StoreEdgeList(el *graph.EdgeList) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO edges(src, dst, weight) VALUES(?,?,?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < el.NumEdges(); i++ {
		src, dst, weight := el.Edge(i)
		if _, err := stmt.Exec(int64(src), int64(dst), float64(weight)); err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting edge %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadEdgeList() (*graph.EdgeList, error) {
	rows, err := s.db.Query("SELECT src, dst, weight FROM edges ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	el := graph.NewEdgeList()
	for rows.Next() {
		var src, dst int64
		var weight float64
		if err := rows.Scan(&src, &dst, &weight); err != nil {
			return nil, err
		}
		el.Push(uint32(src), uint32(dst), float32(weight))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	el.Close()
	return el, nil
}

// CountEdges reports the number of stored edges.
func (s *SQLiteStore) CountEdges() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}
