// Package haplotype builds the two per-region haplotypes (H1, H2) that
// candidate structural variants are phased against, either from a
// phased base VCF or from a BAM pileup, and implements the merge
// semantics shared by both builders.
package haplotype

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/kmer"
)

// refThreshold is the fraction of coverage above which alt evidence is
// taken to suppress a reference haplotype call.
const refThreshold = 0.85

// Haplotype holds the kfeat and size/count bookkeeping for one inferred
// chromosomal copy over a region.
type Haplotype struct {
	KFeat    kmer.KFeat
	Size     int
	N        int
	Coverage int
}

// New returns the neutral "reference" haplotype: zero kfeat, zero size,
// n=0 (per spec's invariant n==0 iff no changes contributed).
func New(k int, coverage int) Haplotype {
	return Haplotype{KFeat: kmer.NewKFeat(k), Size: 0, N: 0, Coverage: coverage}
}

// Clone returns a deep copy.
func (h Haplotype) Clone() Haplotype {
	return Haplotype{KFeat: h.KFeat.Clone(), Size: h.Size, N: h.N, Coverage: h.Coverage}
}

// Combine returns a+b: component-wise addition of kfeat, size and n.
// Coverage is left untouched on the result (copied from a) since
// coverage bookkeeping is context-dependent (per-read accumulation vs.
// cluster consolidation) and handled explicitly by callers, matching
// the Python prototype's Haplotype.__iadd__ semantics.
func Combine(a, b Haplotype) Haplotype {
	out := a.Clone()
	out.KFeat.Add(b.KFeat)
	out.Size += b.Size
	out.N += b.N
	return out
}

// Equal reports exact equality of kfeat vectors. This is the only
// equality the spec defines for haplotypes, and it is used solely for
// read deduplication.
func Equal(a, b Haplotype) bool {
	if len(a.KFeat.Counts) != len(b.KFeat.Counts) {
		return false
	}
	for i, v := range a.KFeat.Counts {
		if v != b.KFeat.Counts[i] {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func signMismatch(a, b int) bool {
	return (a < 0) != (b < 0)
}

// kfeatKey derives a map key from a kfeat vector's exact bit pattern, so
// distinct Haplotype values with identical kfeat collide as required by
// Equal/dedup semantics, without an O(n^2) pairwise scan.
func kfeatKey(f kmer.KFeat) string {
	buf := make([]byte, 8*len(f.Counts))
	for i, v := range f.Counts {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}

// FromPhasedVCF sums the REF->ALT featurization of every phased record
// whose first allele is ALT into H1, and every record whose second
// allele is ALT into H2. Records with a missing allele at a given
// haplotype position skip that haplotype entirely.
func FromPhasedVCF(records []PhasedRecord, k int) (Haplotype, Haplotype) {
	h1 := New(k, 1)
	h2 := New(k, 1)
	for _, rec := range records {
		kf, sz := kmer.VariantToKFeat(rec.Ref, rec.Alt, k)
		if rec.GT0 == 1 {
			h1.KFeat.Add(kf)
			h1.Size += sz
			h1.N++
		}
		if rec.HasGT1 && rec.GT1 == 1 {
			h2.KFeat.Add(kf)
			h2.Size += sz
			h2.N++
		}
	}
	return h1, h2
}

// PhasedRecord is the minimal view of a phased base-VCF record the
// haplotype builder needs; it decouples this package from any concrete
// VCF I/O library.
type PhasedRecord struct {
	Ref, Alt string
	GT0      int8
	HasGT1   bool
	GT1      int8
}

// consolidate picks the member of group with the highest coverage
// (ties broken by the smaller n), then absorbs every other member's
// coverage into it.
func consolidate(group []*Haplotype) *Haplotype {
	best := group[0]
	for _, h := range group[1:] {
		if h.Coverage > best.Coverage || (h.Coverage == best.Coverage && h.N < best.N) {
			best = h
		}
	}
	out := best.Clone()
	for _, h := range group {
		if h != best {
			out.Coverage += h.Coverage
		}
	}
	return &out
}

// deduplicate consolidates per-read haplotypes that share an identical
// kfeat, summing their coverage, matching hap_deduplicate in the
// prototype.
func deduplicate(perRead map[string]Haplotype) map[string]*Haplotype {
	out := make(map[string]*Haplotype, len(perRead))
	for _, h := range perRead {
		key := kfeatKey(h.KFeat)
		if existing, ok := out[key]; ok {
			existing.Coverage++
			continue
		}
		hc := h
		hc.Coverage = 1
		out[key] = &hc
	}
	return out
}

// sortedKeys returns m's keys in a deterministic order so that
// clustering and consolidation are reproducible across runs.
func sortedKeys(m map[string]*Haplotype) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
