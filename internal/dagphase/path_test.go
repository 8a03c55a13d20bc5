package dagphase

import (
	"testing"

	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/kmer"
)

func testCfg() *config.Opts {
	return &config.Opts{PctSize: 0.9, WCosLen: 2000, Kmer: 2}
}

func TestScorePathRejectsSignMismatch(t *testing.T) {
	g := &Graph{Nodes: []NodeData{
		{Size: 5, KFeat: kmer.SeqToKmer("GGGG", 2).Counts},
	}}
	target := TargetHaplotype{KFeat: kmer.SeqToKmer("GGGG", 2).Counts, Size: -5}
	p := ScorePath(g, []int{0}, target, testCfg())
	if p.Path != nil {
		t.Errorf("expected the neutral PhasePath on sign mismatch, got %+v", p)
	}
}

func TestScorePathRejectsLowSizeSim(t *testing.T) {
	g := &Graph{Nodes: []NodeData{
		{Size: 2, KFeat: kmer.SeqToKmer("GG", 2).Counts},
	}}
	target := TargetHaplotype{KFeat: kmer.SeqToKmer("GG", 2).Counts, Size: 100}
	cfg := testCfg()
	p := ScorePath(g, []int{0}, target, cfg)
	if p.Path != nil {
		t.Errorf("expected the neutral PhasePath when size similarity is below threshold, got %+v", p)
	}
}

func TestScorePathAcceptsGoodMatch(t *testing.T) {
	g := &Graph{Nodes: []NodeData{
		{Size: 2, KFeat: kmer.SeqToKmer("GG", 2).Counts},
	}}
	target := TargetHaplotype{KFeat: kmer.SeqToKmer("GG", 2).Counts, Size: 2}
	p := ScorePath(g, []int{0}, target, testCfg())
	if p.Path == nil {
		t.Fatalf("expected a non-neutral PhasePath for an exact match")
	}
	if p.SizeSim != 1.0 {
		t.Errorf("SizeSim = %v, want 1.0", p.SizeSim)
	}
	if p.CosSim < 0.999999 {
		t.Errorf("CosSim = %v, want ~1.0", p.CosSim)
	}
}

func TestBestPathFiltersByThresholds(t *testing.T) {
	paths := []PhasePath{
		{SizeSim: 0.5, CosSim: 0.95, Path: []int{1}},
		{SizeSim: 0.95, CosSim: 0.95, Path: []int{2}},
	}
	best := BestPath(paths, 0.9, 0.9, nil)
	if best.Path == nil || best.Path[0] != 2 {
		t.Fatalf("expected the second path to win, got %+v", best)
	}
}

func TestBestPathReturnsNeutralWhenNoneQualify(t *testing.T) {
	paths := []PhasePath{
		{SizeSim: 0.5, CosSim: 0.5, Path: []int{1}},
	}
	best := BestPath(paths, 0.9, 0.9, nil)
	if best.Path != nil {
		t.Errorf("expected the neutral PhasePath, got %+v", best)
	}
}

func TestBestPathSkipsExcludedNodes(t *testing.T) {
	paths := []PhasePath{
		{SizeSim: 0.95, CosSim: 0.99, Path: []int{2}},
		{SizeSim: 0.91, CosSim: 0.91, Path: []int{3}},
	}
	best := BestPath(paths, 0.9, 0.9, map[int]bool{2: true})
	if best.Path == nil || best.Path[0] != 3 {
		t.Fatalf("expected the excluded-free path to win, got %+v", best)
	}
}

func TestBestPathOrdersBySizeSimThenCosSim(t *testing.T) {
	paths := []PhasePath{
		{SizeSim: 0.95, CosSim: 0.91, Path: []int{1}},
		{SizeSim: 0.95, CosSim: 0.99, Path: []int{2}},
	}
	best := BestPath(paths, 0.9, 0.9, nil)
	if best.Path == nil || best.Path[0] != 2 {
		t.Fatalf("expected the tie-break-by-cossim winner (node 2), got %+v", best)
	}
}
