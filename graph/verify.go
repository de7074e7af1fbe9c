package graph

import "fmt"

// VerifyBFS checks a parent array against a sequential recomputation of
// depths: the root must be its own parent at depth zero, every reached
// vertex must have a parent one level shallower with a real edge to it, and
// reachability must agree. It is a testing oracle, not a production error
// path.
func VerifyBFS(g, gt Graph, root uint32, parents []uint32) error {
	n := int(g.NumVertices())
	depth := make([]uint32, n)
	for v := range depth {
		depth[v] = Unreached
	}
	depth[root] = 0
	toVisit := make([]uint32, 0, n)
	toVisit = append(toVisit, root)
	for i := 0; i < len(toVisit); i++ {
		u := toVisit[i]
		nr := g.Neighbors(u)
		for e := nr.Begin; e < nr.End; e++ {
			v := g.Target(e)
			if depth[v] == Unreached {
				depth[v] = depth[u] + 1
				toVisit = append(toVisit, v)
			}
		}
	}

	for u := uint32(0); u < uint32(n); u++ {
		if depth[u] != Unreached && parents[u] != Unreached {
			if u == root {
				if parents[u] != u || depth[u] != 0 {
					return fmt.Errorf("root %d has parent %d at depth %d", u, parents[u], depth[u])
				}
				continue
			}
			parentFound := false
			nr := gt.Neighbors(u)
			for e := nr.Begin; e < nr.End; e++ {
				v := gt.Target(e)
				if v == parents[u] {
					if depth[v] != depth[u]-1 {
						return fmt.Errorf("wrong depths for %d (%d) and parent %d (%d)",
							u, depth[u], v, depth[v])
					}
					parentFound = true
					break
				}
			}
			if !parentFound {
				return fmt.Errorf("no edge from claimed parent %d to %d", parents[u], u)
			}
		} else if depth[u] != parents[u] {
			// Both must be Unreached together.
			return fmt.Errorf("reachability mismatch at %d: depth %d, parent %d",
				u, depth[u], parents[u])
		}
	}
	return nil
}
