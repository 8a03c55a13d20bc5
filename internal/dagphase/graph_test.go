package dagphase

import (
	"testing"

	"github.com/grailbio/kfphase/internal/vcfio"
)

func mkVariant(chrom string, pos int, ref, alt string) *vcfio.Variant {
	return &vcfio.Variant{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt}
}

func TestBuildGraphNodeCountAndSrcSnk(t *testing.T) {
	variants := []*vcfio.Variant{
		mkVariant("chr1", 10, "A", "AGG"),
		mkVariant("chr1", 50, "A", "ATT"),
		mkVariant("chr1", 100, "AAA", "A"),
	}
	g, unused := BuildGraph(variants, 2)
	if len(unused) != 0 {
		t.Fatalf("expected no unused variants, got %d", len(unused))
	}
	if len(g.Nodes) != 5 {
		t.Fatalf("expected 5 nodes (src + 3 + snk), got %d", len(g.Nodes))
	}
	if g.Src() != 0 {
		t.Errorf("Src() = %d, want 0", g.Src())
	}
	if g.Snk() != 4 {
		t.Errorf("Snk() = %d, want 4", g.Snk())
	}
	for _, n := range g.Adj[g.Src()] {
		if n == g.Snk() {
			t.Errorf("src should not connect directly to snk when interior nodes exist")
		}
	}
}

func TestBuildGraphSkipsZeroKFeatVariants(t *testing.T) {
	variants := []*vcfio.Variant{
		mkVariant("chr1", 10, "A", "AGG"),
		mkVariant("chr1", 50, "A", "A"), // no-op edit: zero kfeat
	}
	g, unused := BuildGraph(variants, 2)
	if len(unused) != 1 {
		t.Fatalf("expected 1 unused variant, got %d", len(unused))
	}
	if unused[0].Pos != 50 {
		t.Errorf("unused variant = %+v, want the no-op edit at pos 50", unused[0])
	}
	if len(g.Nodes) != 3 {
		t.Errorf("expected 3 nodes (src + 1 kept + snk), got %d", len(g.Nodes))
	}
}

func TestBuildGraphExcludesOverlappingEdges(t *testing.T) {
	// v1 spans [9,10) and v2 spans [9,12): they overlap, so no edge
	// should connect them in either direction.
	variants := []*vcfio.Variant{
		mkVariant("chr1", 10, "A", "AGG"),
		mkVariant("chr1", 10, "AAA", "A"),
	}
	g, _ := BuildGraph(variants, 2)
	for _, n := range g.Adj[1] {
		if n == 2 {
			t.Errorf("overlapping nodes must not have a direct edge")
		}
	}
}

func TestGraphVariantReturnsOriginal(t *testing.T) {
	variants := []*vcfio.Variant{
		mkVariant("chr1", 10, "A", "AGG"),
	}
	g, _ := BuildGraph(variants, 2)
	if v := g.Variant(variants, 1); v != variants[0] {
		t.Errorf("Variant(node 1) did not return the original candidate")
	}
	if v := g.Variant(variants, g.Src()); v != nil {
		t.Errorf("Variant(src) = %v, want nil", v)
	}
}
