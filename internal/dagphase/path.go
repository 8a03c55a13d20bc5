package dagphase

import (
	"math"
	"sort"

	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/similarity"
)

// PhasePath holds one scored candidate path, per spec section 3. The
// empty PhasePath{} (sizesim=0, cossim=0, Path=nil) is the neutral
// element returned when nothing qualifies.
type PhasePath struct {
	SizeSim float64
	CosSim  float64
	Path    []int
}

// round4 matches spec section 9's rounding rule: ties in the ordering
// are compared at four decimal places so the "best" selection is
// deterministic across platforms.
func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// less reports whether a sorts before b under the PhasePath order:
// primary key sizesim ascending, ties (at 4 decimals) broken by cossim
// ascending. "Best" is the maximum under this order.
func less(a, b PhasePath) bool {
	ra, rb := round4(a.SizeSim), round4(b.SizeSim)
	if ra == rb {
		return a.CosSim < b.CosSim
	}
	return ra < rb
}

// TargetHaplotype is the minimal view ScorePath needs of a haplotype,
// decoupling this package from internal/haplotype.
type TargetHaplotype struct {
	KFeat []float64
	Size  int
}

func signMismatch(a, b int) bool { return (a < 0) != (b < 0) }

// ScorePath scores one enumerated path against a target haplotype,
// implementing spec section 4.6 steps 1-4. It returns the neutral
// PhasePath{} if the path fails the sign or size-similarity gate.
func ScorePath(g *Graph, path []int, target TargetHaplotype, cfg *config.Opts) PhasePath {
	size := 0
	for _, n := range path {
		size += g.Nodes[n].Size
	}
	if signMismatch(target.Size, size) {
		return PhasePath{}
	}
	sizeSim := similarity.SizeSim(abs(target.Size), abs(size))
	if sizeSim < cfg.PctSize {
		return PhasePath{}
	}

	k := make([]float64, len(target.KFeat))
	for _, n := range path {
		for i, v := range g.Nodes[n].KFeat {
			k[i] += v
		}
	}

	var cosSim float64
	if abs(size) < cfg.WCosLen {
		cosSim = similarity.WeightedCosineSim(k, target.KFeat)
	} else {
		cosSim = similarity.CosineSim(k, target.KFeat)
	}

	return PhasePath{SizeSim: sizeSim, CosSim: cosSim, Path: path}
}

// ScoreAll scores every DFS-enumerated path against target.
func ScoreAll(g *Graph, paths [][]int, target TargetHaplotype, cfg *config.Opts) []PhasePath {
	out := make([]PhasePath, len(paths))
	for i, p := range paths {
		out[i] = ScorePath(g, p, target, cfg)
	}
	return out
}

// BestPath implements spec section 4.6's get_best_path: filter to paths
// meeting both thresholds, then return the best (by the PhasePath
// order) whose node set is disjoint from exclude. Returns the neutral
// PhasePath{} if nothing qualifies.
func BestPath(paths []PhasePath, cosSimThresh, pctSize float64, exclude map[int]bool) PhasePath {
	var candidates []PhasePath
	for _, p := range paths {
		if p.SizeSim >= pctSize && p.CosSim >= cosSimThresh {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return less(candidates[j], candidates[i]) })
	for _, p := range candidates {
		if !intersects(p.Path, exclude) {
			return p
		}
	}
	return PhasePath{}
}

func intersects(path []int, exclude map[int]bool) bool {
	if len(exclude) == 0 {
		return false
	}
	for _, n := range path {
		if exclude[n] {
			return true
		}
	}
	return false
}
