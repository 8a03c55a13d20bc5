package haplotype

import (
	"testing"

	"github.com/grailbio/kfphase/internal/kmer"
)

func TestNewIsZero(t *testing.T) {
	h := New(3, 10)
	if h.N != 0 {
		t.Errorf("N = %d, want 0", h.N)
	}
	if h.Size != 0 {
		t.Errorf("Size = %d, want 0", h.Size)
	}
	if !h.KFeat.IsZero() {
		t.Errorf("expected zero kfeat")
	}
	if h.Coverage != 10 {
		t.Errorf("Coverage = %d, want 10", h.Coverage)
	}
}

func TestCombineAddsComponentwise(t *testing.T) {
	a := Haplotype{KFeat: kmer.SeqToKmer("ACGT", 2), Size: 4, N: 1, Coverage: 1}
	b := Haplotype{KFeat: kmer.SeqToKmer("ACGT", 2), Size: 4, N: 1, Coverage: 1}
	out := Combine(a, b)
	if out.Size != 8 {
		t.Errorf("Size = %d, want 8", out.Size)
	}
	if out.N != 2 {
		t.Errorf("N = %d, want 2", out.N)
	}
	for i, v := range a.KFeat.Counts {
		if out.KFeat.Counts[i] != 2*v {
			t.Fatalf("Counts[%d] = %v, want %v", i, out.KFeat.Counts[i], 2*v)
		}
	}
	// Combine must not mutate its inputs.
	if a.Size != 4 {
		t.Errorf("Combine mutated its first argument")
	}
}

func TestEqual(t *testing.T) {
	a := Haplotype{KFeat: kmer.SeqToKmer("ACGT", 2)}
	b := Haplotype{KFeat: kmer.SeqToKmer("ACGT", 2)}
	c := Haplotype{KFeat: kmer.SeqToKmer("TTTT", 2)}
	if !Equal(a, b) {
		t.Errorf("expected equal kfeats to compare equal")
	}
	if Equal(a, c) {
		t.Errorf("expected distinct kfeats to compare unequal")
	}
}

func TestFromPhasedVCFSplitsByAllele(t *testing.T) {
	records := []PhasedRecord{
		{Ref: "A", Alt: "AGG", GT0: 1, HasGT1: true, GT1: 0},
		{Ref: "A", Alt: "ACC", GT0: 0, HasGT1: true, GT1: 1},
		{Ref: "A", Alt: "AT", GT0: 0, HasGT1: true, GT1: 0},
	}
	h1, h2 := FromPhasedVCF(records, 2)
	if h1.N != 1 {
		t.Errorf("h1.N = %d, want 1 (only the first record has GT0==1)", h1.N)
	}
	if h2.N != 1 {
		t.Errorf("h2.N = %d, want 1 (only the second record has GT1==1)", h2.N)
	}
	if h1.Size != 2 {
		t.Errorf("h1.Size = %d, want 2", h1.Size)
	}
}

func TestFromPhasedVCFHaploidSkipsH2(t *testing.T) {
	records := []PhasedRecord{
		{Ref: "A", Alt: "AGG", GT0: 1, HasGT1: false},
	}
	h1, h2 := FromPhasedVCF(records, 2)
	if h1.N != 1 {
		t.Errorf("h1.N = %d, want 1", h1.N)
	}
	if h2.N != 0 {
		t.Errorf("h2.N = %d, want 0 for a haploid record", h2.N)
	}
}
