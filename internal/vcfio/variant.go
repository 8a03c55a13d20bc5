// Package vcfio is the minimal VCF record model and line-oriented
// reader/writer this tool needs. VCF I/O is named in spec section 1 as
// an external collaborator specified only at its interface, so this
// package favors a small, direct implementation over a full-featured
// VCF library -- none exists anywhere in the retrieval pack to ground
// a richer one on (see DESIGN.md). Its reader is modeled on the
// line-Scanner shape biogo's gff.Reader uses (kortschak-loopy's
// cmd/catch), and its Read() method mirrors the *sam.Record Read()
// idiom already used throughout this module for BAM access.
package vcfio

// Variant is one VCF data line, trimmed to the fields the phasing core
// and its CLI need. Only the first ALT allele is modeled: spec section
// 3/4 define featurization in terms of a single REF->ALT edit per
// record.
type Variant struct {
	Chrom  string
	Pos    int // 1-based, as in the VCF text format
	ID     string
	Ref    string
	Alt    string
	Qual   string
	Filter string
	Info   string

	// GT0/GT1 are the selected sample's genotype alleles; -1 denotes a
	// missing allele (VCF '.'). HasGT1 is false for haploid genotypes.
	GT0, GT1 int8
	HasGT1   bool
	Phased   bool

	// Auxiliary FORMAT fields this tool writes back (spec section 6).
	PG string
	SZ [2]*float64
	CS [2]*float64
	AD [2]int
	GL []float64

	// otherFormatKeys and otherFields preserve the selected sample's
	// untouched FORMAT key/value pairs so they round-trip on output.
	otherFormatKeys []string
	otherFields     map[string]string
}

// Start returns the 0-based half-open interval start, matching
// truvari.entry_boundaries in the prototype.
func (v *Variant) Start() int { return v.Pos - 1 }

// End returns the 0-based half-open interval end.
func (v *Variant) End() int { return v.Start() + len(v.Ref) }

// PassFilter reports whether the record's FILTER column is PASS or
// unset (".")-- the test --passonly applies against candidates.
func (v *Variant) PassFilter() bool {
	return v.Filter == "PASS" || v.Filter == "." || v.Filter == ""
}

// SetGenotype writes the diploid genotype and sets the phased flag to
// phased, per spec section 6 ("Existing genotype field is overwritten").
func (v *Variant) SetGenotype(g1, g2 int8, phased bool) {
	v.GT0, v.GT1 = g1, g2
	v.HasGT1 = true
	v.Phased = phased
}

// SetMissing marks v's genotype missing (./.), matching
// truvari.entry_size's convention of blanking a candidate's genotype
// before it's decided whether phasing evidence will ever reach it.
func (v *Variant) SetMissing() {
	v.GT0, v.GT1 = -1, -1
	v.HasGT1 = true
	v.Phased = false
}

// Size returns the signed net length delta ALT-REF, matching
// truvari.entry_size; the BAM retry's "largest candidate" is measured
// by its absolute value.
func (v *Variant) Size() int { return len(v.Alt) - len(v.Ref) }
