// Package kmer implements the k-mer count featurization used to turn a
// nucleotide sequence, or a REF->ALT edit, into a dense signed count
// vector suitable for cosine and size-delta comparisons.
package kmer

import "strings"

// MaxK is the largest k-mer length this package will index. 4^8 entries
// (65536 float64s) is still small enough to keep per-variant and
// per-haplotype vectors cheap to allocate and sum.
const MaxK = 8

// MinK is the smallest supported k-mer length.
const MinK = 2

// encodeBase maps a single upper-cased base to its 2-bit code.
// A=0, G=1, C=2, T=3; anything else (N, IUPAC ambiguity codes, lower
// case already folded by the caller) collapses to A.
func encodeBase(b byte) uint64 {
	switch b {
	case 'A':
		return 0
	case 'G':
		return 1
	case 'C':
		return 2
	case 'T':
		return 3
	default:
		return 0
	}
}

// KFeat is a dense k-mer count vector of length 4^k. It is signed: for a
// pure sequence every entry is a non-negative count, but for a variant's
// featurization (ALT - REF) entries may be negative.
type KFeat struct {
	K       int
	Counts  []float64
}

// NewKFeat allocates a zero vector for the given k.
func NewKFeat(k int) KFeat {
	return KFeat{K: k, Counts: make([]float64, 1<<uint(2*k))}
}

// Add accumulates other into f in place. Addition is commutative and
// associative, so summing a path's node kfeats in any order yields the
// same vector.
func (f KFeat) Add(other KFeat) {
	for i, v := range other.Counts {
		f.Counts[i] += v
	}
}

// Sub subtracts other from f in place.
func (f KFeat) Sub(other KFeat) {
	for i, v := range other.Counts {
		f.Counts[i] -= v
	}
}

// Sum returns the sum of all entries. For a pure (non-differenced)
// sequence featurization this equals max(0, len(seq)-k+1).
func (f KFeat) Sum() float64 {
	var s float64
	for _, v := range f.Counts {
		s += v
	}
	return s
}

// IsZero reports whether every entry of f is exactly zero, i.e. whether
// this featurization carries no distinguishing k-mer signal.
func (f KFeat) IsZero() bool {
	for _, v := range f.Counts {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of f.
func (f KFeat) Clone() KFeat {
	c := make([]float64, len(f.Counts))
	copy(c, f.Counts)
	return KFeat{K: f.K, Counts: c}
}

// kmerIter yields the packed 2k-bit integer for every k-mer of seq, in
// order, using a sliding (k-1)-base mask so each successive k-mer is
// produced in O(1) from the previous one.
func kmerIter(seq string, k int) []int {
	if len(seq) < k {
		return nil
	}
	out := make([]int, 0, len(seq)-k+1)
	var cur uint64
	for i := 0; i < k; i++ {
		cur = (cur << 2) | encodeBase(seq[i])
	}
	out = append(out, int(cur))
	mask := uint64(1<<uint(2*(k-1))) - 1
	for i := k; i < len(seq); i++ {
		cur = ((cur & mask) << 2) | encodeBase(seq[i])
		out = append(out, int(cur))
	}
	return out
}

// SeqToKmer counts every k-mer of seq (upper-cased first) into a length
// 4^k vector. Sequences shorter than k produce the zero vector.
func SeqToKmer(seq string, k int) KFeat {
	f := NewKFeat(k)
	if len(seq) < k {
		return f
	}
	up := strings.ToUpper(seq)
	for _, idx := range kmerIter(up, k) {
		f.Counts[idx]++
	}
	return f
}

// trimAnchor removes the leading VCF anchor base from a REF/ALT allele.
// VCF indel representations carry a shared leading base that is not part
// of the actual edit; both variant and haplotype featurizations must
// apply the same trim so their sums stay comparable.
func trimAnchor(s string) string {
	if len(s) == 0 {
		return s
	}
	return s[1:]
}

// VariantToKFeat returns the signed k-mer featurization of a REF->ALT
// edit (ALT-without-anchor minus REF-without-anchor) together with the
// signed net length delta len(alt)-len(ref).
func VariantToKFeat(ref, alt string, k int) (KFeat, int) {
	a := SeqToKmer(trimAnchor(alt), k)
	r := SeqToKmer(trimAnchor(ref), k)
	a.Sub(r)
	return a, len(alt) - len(ref)
}
