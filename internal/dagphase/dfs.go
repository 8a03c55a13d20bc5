package dagphase

import "sort"

// EnumeratePaths performs the length-guided DFS of spec section 4.5: at
// each node, successor edges are explored in ascending order of
// |targetSize - (curLen + succ.size)|. This only orders the search; it
// never prunes a reachable path. At most maxPaths interior-node paths
// are returned before the budget is exhausted. A direct src->snk edge
// (no interior nodes) is never yielded.
func EnumeratePaths(g *Graph, targetSize, maxPaths int) [][]int {
	src, snk := g.Src(), g.Snk()
	var out [][]int
	budget := maxPaths

	type cand struct {
		diff int
		node int
	}

	var walk func(node, curLen int, path []int, isSrc bool)
	walk = func(node, curLen int, path []int, isSrc bool) {
		if budget <= 0 {
			return
		}
		curLen += g.Nodes[node].Size

		succs := g.Adj[node]
		cands := make([]cand, len(succs))
		for i, s := range succs {
			cands[i] = cand{abs(targetSize - (curLen + g.Nodes[s].Size)), s}
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].diff < cands[j].diff })

		for _, c := range cands {
			if budget <= 0 {
				return
			}
			if c.node == snk {
				if !isSrc {
					out = append(out, append([]int(nil), path...))
					budget--
				}
				continue
			}
			walk(c.node, curLen, append(path, c.node), false)
		}
	}

	walk(src, 0, nil, true)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
