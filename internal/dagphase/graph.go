// Package dagphase builds the per-region candidate-variant DAG and
// enumerates, scores and selects src->snk paths against a target
// haplotype, per spec sections 3 (DAG/PhasePath data model), 4.4
// (DAG Builder), 4.5 (DFS enumerator) and 4.6 (scorer/picker).
//
// The graph uses a dense node-slice plus adjacency-list representation
// (spec section 9's design note) rather than named/hashed graph nodes:
// src is always node 0, snk is always the last node, which keeps
// path-sum operations a simple slice walk.
package dagphase

import (
	"github.com/dgryski/go-farm"
	"github.com/grailbio/kfphase/internal/kmer"
	"github.com/grailbio/kfphase/internal/vcfio"
)

// NodeData is one DAG node. VariantIdx is -1 for the two virtual
// src/snk nodes; otherwise it indexes the candidate slice BuildGraph
// was given.
type NodeData struct {
	VariantIdx int
	ID         uint64
	KFeat      []float64
	Size       int
	Start, End int
}

// Graph is the per-region candidate DAG: a dense node slice (src=0,
// snk=len(Nodes)-1) plus a successor adjacency list.
type Graph struct {
	Nodes []NodeData
	Adj   [][]int
}

// Src and Snk return the graph's virtual source/sink node indices.
func (g *Graph) Src() int { return 0 }
func (g *Graph) Snk() int { return len(g.Nodes) - 1 }

// variantHash derives the content hash of a variant's (chrom, pos, ref,
// alt) tuple, the node identity spec section 3 names.
func variantHash(v *vcfio.Variant) uint64 {
	key := v.Chrom + "\x00" + itoa(v.Pos) + "\x00" + v.Ref + "\x00" + v.Alt
	return farm.Hash64([]byte(key))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// BuildGraph builds the DAG over a position-sorted slice of candidate
// variants. Variants whose net kfeat is zero (e.g. a balanced MNP)
// carry no DAG-distinguishing signal and are returned separately as
// unused, per spec section 4.1/4.4.
func BuildGraph(variants []*vcfio.Variant, k int) (*Graph, []*vcfio.Variant) {
	type kept struct {
		origIdx int
		v       *vcfio.Variant
		kf      kmer.KFeat
		size    int
	}
	var keep []kept
	var unused []*vcfio.Variant
	for i, v := range variants {
		kf, size := kmer.VariantToKFeat(v.Ref, v.Alt, k)
		if kf.IsZero() {
			unused = append(unused, v)
			continue
		}
		keep = append(keep, kept{i, v, kf, size})
	}

	n := len(keep)
	g := &Graph{
		Nodes: make([]NodeData, n+2),
		Adj:   make([][]int, n+2),
	}
	src, snk := 0, n+1
	g.Nodes[src] = NodeData{VariantIdx: -1}
	g.Nodes[snk] = NodeData{VariantIdx: -1}

	for i, kv := range keep {
		g.Nodes[i+1] = NodeData{
			VariantIdx: kv.origIdx,
			ID:         variantHash(kv.v),
			KFeat:      kv.kf.Counts,
			Size:       kv.size,
			Start:      kv.v.Start(),
			End:        kv.v.End(),
		}
	}

	for i := 1; i <= n; i++ {
		g.Adj[src] = append(g.Adj[src], i)
		g.Adj[i] = append(g.Adj[i], snk)
	}
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			if !overlaps(g.Nodes[i].Start, g.Nodes[i].End, g.Nodes[j].Start, g.Nodes[j].End) {
				g.Adj[i] = append(g.Adj[i], j)
			}
		}
	}

	return g, unused
}

// Variant returns the candidate variant BuildGraph(variants,...)[idx]
// that produced this node, given the original candidate slice.
func (g *Graph) Variant(variants []*vcfio.Variant, node int) *vcfio.Variant {
	idx := g.Nodes[node].VariantIdx
	if idx < 0 {
		return nil
	}
	return variants[idx]
}
