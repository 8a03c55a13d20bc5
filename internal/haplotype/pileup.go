package haplotype

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/kmer"
	"github.com/grailbio/kfphase/internal/similarity"
)

// Column is one pileup column: the aggregate depth at a reference
// position, plus the per-read indel evidence observed there. It is the
// boundary type between the BAM I/O collaborator (internal/bamreader)
// and this package's haplotype inference, matching the column/read
// shape named in spec section 6.
type Column struct {
	ReferencePos int
	Depth        int
	Reads        []Read
}

// Read is one read's pileup evidence at a single column.
type Read struct {
	QueryName       string
	ReferenceStart  int
	ReferenceEnd    int
	QueryPosition   int
	QuerySequence   string
	Indel           int
}

// FromPileup infers (H1, H2) from a BAM pileup over
// [regStart-chunksize, regEnd+chunksize], following spec section 4.3.
func FromPileup(cols []Column, refWindow string, regStart, regEnd int, cfg *config.Opts) (Haplotype, Haplotype) {
	totCov := 0
	perRead := map[string]Haplotype{}

	for _, col := range cols {
		totCov += col.Depth
		for _, r := range col.Reads {
			if r.Indel == 0 {
				continue
			}
			if !(r.ReferenceStart < regStart && r.ReferenceEnd > regEnd) {
				continue
			}
			absIndel := absInt(r.Indel)
			if absIndel < cfg.SizeMin || absIndel > cfg.SizeMax {
				continue
			}

			var hap Haplotype
			if r.Indel > 0 {
				seq := r.QuerySequence[r.QueryPosition : r.QueryPosition+r.Indel]
				hap = Haplotype{KFeat: kmer.SeqToKmer(seq, cfg.Kmer), Size: r.Indel, N: 1, Coverage: 1}
				if cfg.Debug {
					log.Debug.Printf("INS %d @ %d -> %s", len(seq), r.QueryPosition, seq)
				}
			} else {
				mStart := col.ReferencePos - (regStart - cfg.ChunkSize) + 1
				mEnd := mStart + absIndel
				seq := refWindow[mStart:mEnd]
				kf := kmer.SeqToKmer(seq, cfg.Kmer)
				for i := range kf.Counts {
					kf.Counts[i] = -kf.Counts[i]
				}
				hap = Haplotype{KFeat: kf, Size: r.Indel, N: 1, Coverage: 1}
				if cfg.Debug {
					log.Debug.Printf("DEL %d @ %d -> %s", absIndel, col.ReferencePos, seq)
				}
			}

			if existing, ok := perRead[r.QueryName]; ok {
				perRead[r.QueryName] = Combine(existing, hap)
			} else {
				perRead[r.QueryName] = hap
			}
		}
	}

	coverage := totCov / (regEnd - regStart + 2*cfg.ChunkSize)
	if cfg.Debug {
		log.Debug.Printf("coverage %d", coverage)
	}
	if coverage == 0 || len(perRead) == 0 {
		ref := New(cfg.Kmer, coverage)
		return ref, ref
	}

	dedup := deduplicate(perRead)
	if len(dedup) == 1 {
		var only *Haplotype
		for _, h := range dedup {
			only = h
		}
		if float64(only.Coverage)/float64(coverage) < refThreshold {
			ref := New(cfg.Kmer, coverage)
			return ref, *only
		}
		return *only, *only
	}

	return readCluster(dedup, coverage, cfg)
}

// readCluster implements the decision tree of spec section 4.3 for two
// or more distinct per-read haplotypes: 2-means clustering into H1/H2
// with reference-fallback and compound-het re-merge rules.
func readCluster(dedup map[string]*Haplotype, coverage int, cfg *config.Opts) (Haplotype, Haplotype) {
	keys := sortedKeys(dedup)
	points := make([][]float64, len(keys))
	weights := make([]float64, len(keys))
	altCov := 0
	for i, k := range keys {
		points[i] = dedup[k].KFeat.Counts
		weights[i] = float64(dedup[k].Coverage)
		altCov += dedup[k].Coverage
	}

	assign := twoMeans(points, weights)
	nGroups := 1
	for _, a := range assign[1:] {
		if a != assign[0] {
			nGroups = 2
			break
		}
	}

	if nGroups == 1 {
		all := make([]*Haplotype, len(keys))
		for i, k := range keys {
			all[i] = dedup[k]
		}
		h := consolidate(all)
		if float64(altCov)/float64(coverage) < refThreshold {
			ref := New(cfg.Kmer, coverage-altCov)
			return ref, *h
		}
		return *h, *h
	}

	var grp0, grp1 []*Haplotype
	for i, k := range keys {
		if assign[i] == 0 {
			grp0 = append(grp0, dedup[k])
		} else {
			grp1 = append(grp1, dedup[k])
		}
	}
	h1 := consolidate(grp0)
	h2 := consolidate(grp1)

	if !signMismatch(h1.Size, h2.Size) {
		sizeSim := similarity.SizeSim(absInt(h1.Size), absInt(h2.Size))
		if sizeSim > cfg.PctSize {
			merged := consolidate([]*Haplotype{h1, h2})
			if float64(altCov)/float64(coverage) < refThreshold {
				ref := New(cfg.Kmer, coverage-altCov)
				return ref, *merged
			}
			return *merged, *merged
		}
	}

	return *h1, *h2
}
