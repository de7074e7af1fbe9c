package graph

import (
	"container/heap"
	"fmt"
)

// Dijkstra computes single-source shortest paths with a binary heap. It is
// the sequential baseline delta-stepping is checked against: for any
// delta > 0 the two must return identical distances.
func Dijkstra(g Graph, source uint32, weight WeightFn) []float32 {
	if weight == nil {
		weight = func(g Graph, e int) float32 { return g.Weight(e) }
	}
	n := int(g.NumVertices())
	if int(source) >= n {
		panic(fmt.Sprintf("graph: dijkstra source %d out of range [0, %d)", source, n))
	}

	dist := make([]float32, n)
	for v := range dist {
		dist[v] = InfiniteDistance
	}
	dist[source] = 0

	pq := &distanceQueue{{vertex: source, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(distanceItem)
		if item.dist > dist[item.vertex] {
			continue // stale entry
		}
		nr := g.Neighbors(item.vertex)
		for e := nr.Begin; e < nr.End; e++ {
			v := g.Target(e)
			next := item.dist + weight(g, e)
			if next < dist[v] {
				dist[v] = next
				heap.Push(pq, distanceItem{vertex: v, dist: next})
			}
		}
	}
	return dist
}

type distanceItem struct {
	vertex uint32
	dist   float32
}

type distanceQueue []distanceItem

func (q distanceQueue) Len() int            { return len(q) }
func (q distanceQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distanceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x interface{}) { *q = append(*q, x.(distanceItem)) }
func (q *distanceQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
