// Package phaser implements the per-region orchestration of spec
// section 4.7: it builds the candidate DAG, enumerates and scores paths
// against each of the two inferred haplotypes, merges the two best
// paths' node sets into diploid genotypes, and writes the result back
// onto the candidate records.
package phaser

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/dagphase"
	"github.com/grailbio/kfphase/internal/haplotype"
	"github.com/grailbio/kfphase/internal/vcfio"
)

// Result carries the final state reached for a region, useful for
// logging/metrics; it never changes the fact that every candidate gets
// a definite genotype.
type Result struct {
	State       State
	NumUnused   int
	NumPhased   int
	PhaseGroups int
}

// PhaseRegion assigns genotypes to every candidate in variants against
// the two haplotypes h1, h2, mutating variants in place, per spec
// section 4.7. The state machine never aborts a chunk: any stage
// failure falls through to AllRef00 (internally, via setAllRef) and
// still returns Written.
func PhaseRegion(variants []*vcfio.Variant, h1, h2 haplotype.Haplotype, chunkID string, cfg *config.Opts) Result {
	state := Init

	if len(variants) == 0 {
		return Result{State: Written}
	}

	// No evidence at all: everything is (0,0), unphased.
	if h1.N == 0 && h2.N == 0 {
		setAllRef(variants)
		return Result{State: Written, NumUnused: len(variants)}
	}

	graph, unused := dagphase.BuildGraph(variants, cfg.Kmer)
	state = DAGBuilt
	for _, v := range unused {
		v.SetGenotype(0, 0, false)
	}

	used := map[int]bool{}
	groups := 0
	remainingExcluded := map[int]bool{}

	for {
		best1, best2 := pickBestPair(graph, h1, h2, cfg, remainingExcluded)
		state = Picked

		roundUsed := map[int]bool{}
		for _, n := range best1.Path {
			roundUsed[n] = true
		}
		for _, n := range best2.Path {
			roundUsed[n] = true
		}
		if len(roundUsed) == 0 {
			break
		}

		pg := chunkID
		if cfg.PG {
			pg = fmt.Sprintf("%s.%d", chunkID, groups)
		}
		writeGroup(graph, variants, best1, best2, h1, h2, pg)
		for n := range roundUsed {
			used[n] = true
			remainingExcluded[n] = true
		}
		groups++

		if !cfg.PG {
			break
		}
	}

	for node := 1; node < graph.Snk(); node++ {
		if used[node] {
			continue
		}
		v := graph.Variant(variants, node)
		v.SetGenotype(0, 0, false)
	}

	state = Written
	return Result{State: state, NumUnused: len(unused), NumPhased: len(used), PhaseGroups: groups}
}

// setAllRef implements the ALL_REF_0_0 fallback: every candidate gets
// an unphased (0,0) genotype.
func setAllRef(variants []*vcfio.Variant) {
	for _, v := range variants {
		v.SetGenotype(0, 0, false)
	}
}

// pickBestPair enumerates and scores paths for each haplotype with
// n>0 and returns the best disjoint pair, honoring an exclusion set
// carried over from a prior phase-group round.
func pickBestPair(graph *dagphase.Graph, h1, h2 haplotype.Haplotype, cfg *config.Opts, exclude map[int]bool) (dagphase.PhasePath, dagphase.PhasePath) {
	best1 := bestForHaplotype(graph, h1, cfg, exclude)
	best2 := bestForHaplotype(graph, h2, cfg, mergeExclude(exclude, best1.Path))
	return best1, best2
}

func mergeExclude(base map[int]bool, path []int) map[int]bool {
	out := make(map[int]bool, len(base)+len(path))
	for k := range base {
		out[k] = true
	}
	for _, n := range path {
		out[n] = true
	}
	return out
}

func bestForHaplotype(graph *dagphase.Graph, h haplotype.Haplotype, cfg *config.Opts, exclude map[int]bool) dagphase.PhasePath {
	if h.N == 0 {
		return dagphase.PhasePath{}
	}
	paths := dagphase.EnumeratePaths(graph, h.Size, cfg.MaxPaths)
	target := dagphase.TargetHaplotype{KFeat: h.KFeat.Counts, Size: h.Size}
	scored := dagphase.ScoreAll(graph, paths, target, cfg)
	return dagphase.BestPath(scored, cfg.CosSim, cfg.PctSize, exclude)
}

func writeGroup(graph *dagphase.Graph, variants []*vcfio.Variant, best1, best2 dagphase.PhasePath, h1, h2 haplotype.Haplotype, pg string) {
	in1 := pathSet(best1.Path)
	in2 := pathSet(best2.Path)
	for node := range union(in1, in2) {
		v := graph.Variant(variants, node)
		g1, g2 := int8(0), int8(0)
		var sz1, sz2, cs1, cs2 *float64
		if in1[node] {
			g1 = 1
			s := best1.SizeSim
			c := best1.CosSim
			sz1, cs1 = &s, &c
		}
		if in2[node] {
			g2 = 1
			s := best2.SizeSim
			c := best2.CosSim
			sz2, cs2 = &s, &c
		}
		v.SetGenotype(g1, g2, true)
		v.PG = pg
		v.SZ = [2]*float64{sz1, sz2}
		v.CS = [2]*float64{cs1, cs2}
		v.AD = [2]int{h1.Coverage, h2.Coverage}
		if likelihoods := GenotypeLikelihoods(h1.Coverage+h2.Coverage, v.AD[1], nil); likelihoods != nil {
			v.GL = likelihoods
		}
		log.Debug.Printf("phased %s:%d %s>%s -> (%d,%d) pg=%s", v.Chrom, v.Pos, v.Ref, v.Alt, g1, g2, pg)
	}
}

func pathSet(path []int) map[int]bool {
	m := make(map[int]bool, len(path))
	for _, n := range path {
		m[n] = true
	}
	return m
}

func union(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}
