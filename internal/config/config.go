// Package config holds the typed option set threaded from the CLI down
// into every library package, following the cmd/bio-pileup -> snp.Opts
// split used by the teacher: flag.* variables stay in cmd/kfphase/main.go,
// and everything below main() takes an *Opts.
package config

// Opts bundles every tuning parameter named in the CLI surface.
type Opts struct {
	// Kmer is the k-mer length used for all featurization.
	Kmer int
	// PassOnly restricts candidate variants to FILTER==PASS (or FILTER==.).
	PassOnly bool
	// SizeMin/SizeMax bound which indels are considered as candidates and
	// as BAM-pileup-derived haplotype evidence.
	SizeMin int
	SizeMax int
	// MaxPaths bounds the DFS path enumerator's per-haplotype budget.
	MaxPaths int
	// CosSim is the minimum cosine similarity a path must reach to be
	// considered for selection.
	CosSim float64
	// PctSize is the minimum size similarity a path must reach.
	PctSize float64
	// WCosLen is the |size| threshold below which WeightedCosineSim is
	// used in place of CosineSim.
	WCosLen int
	// ChunkSize pads the BAM pileup/reference fetch window on both sides
	// of a region and is also the grouping distance used by the chunker.
	ChunkSize int
	// NTries bounds BAM-pathway retries when both haplotypes come back
	// with zero changes.
	NTries int
	// PG turns on multi-phase-group mode (spec section 4.7); off by
	// default.
	PG bool
	// Debug enables verbose per-read/per-column tracing.
	Debug bool
	// Sample selects which sample column of a multi-sample VCF is
	// genotyped, by index (when SampleName is empty) or by name.
	Sample     int
	SampleName string
}

// Default returns the CLI's documented defaults.
func Default() *Opts {
	return &Opts{
		Kmer:      4,
		SizeMin:   20,
		SizeMax:   50000,
		MaxPaths:  1000,
		CosSim:    0.90,
		PctSize:   0.90,
		WCosLen:   2000,
		ChunkSize: 100,
		NTries:    5,
	}
}
