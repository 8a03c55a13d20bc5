// Package bamreader drives grailbio/hts/bam iteration and CIGAR-based
// indel extraction to build the pileup columns internal/haplotype's
// FromPileup consumes, implementing the BAM side of spec section 4.3.
package bamreader

import (
	"io"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/kfphase/internal/haplotype"
)

// BuildColumns reads every record from r aligned to chrom and
// overlapping the half-open window [winStart, winEnd), and returns one
// haplotype.Column per reference position in that window carrying
// depth and indel evidence, per spec section 4.3's pileup-to-haplotype
// input.
func BuildColumns(r io.Reader, chrom string, winStart, winEnd int) ([]haplotype.Column, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	cols := make([]*haplotype.Column, winEnd-winStart)
	colAt := func(pos int) *haplotype.Column {
		i := pos - winStart
		if i < 0 || i >= len(cols) {
			return nil
		}
		if cols[i] == nil {
			cols[i] = &haplotype.Column{ReferencePos: pos}
		}
		return cols[i]
	}

	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec.Ref == nil || rec.Ref.Name() != chrom {
			continue
		}
		recStart, recEnd := rec.Start(), rec.End()
		if recEnd <= winStart || recStart >= winEnd {
			continue
		}
		addDepth(cols, winStart, winEnd, recStart, recEnd)
		addIndels(cols, winStart, winEnd, rec)
	}

	out := make([]haplotype.Column, 0, len(cols))
	for i, c := range cols {
		if c == nil {
			c = &haplotype.Column{ReferencePos: winStart + i}
		}
		out = append(out, *c)
	}
	return out, nil
}

func addDepth(cols []*haplotype.Column, winStart, winEnd, recStart, recEnd int) {
	from := recStart
	if from < winStart {
		from = winStart
	}
	to := recEnd
	if to > winEnd {
		to = winEnd
	}
	for p := from; p < to; p++ {
		i := p - winStart
		if cols[i] == nil {
			cols[i] = &haplotype.Column{ReferencePos: p}
		}
		cols[i].Depth++
	}
}

// addIndels walks rec's CIGAR, emitting one haplotype.Read entry per
// indel operation at the reference position immediately preceding it
// (the anchor base), matching internal/haplotype's expectation that
// r.ReferencePos sits just before the inserted or deleted bases.
func addIndels(cols []*haplotype.Column, winStart, winEnd int, rec *sam.Record) {
	refPos := rec.Start()
	queryPos := 0
	seq := rec.Seq.Expand()
	recStart, recEnd := rec.Start(), rec.End()

	for _, op := range rec.Cigar {
		consumes := op.Type().Consumes()
		switch op.Type() {
		case sam.CigarInsertion:
			anchor := refPos - 1
			if anchor >= winStart && anchor < winEnd {
				c := cols[anchor-winStart]
				if c == nil {
					c = &haplotype.Column{ReferencePos: anchor}
					cols[anchor-winStart] = c
				}
				c.Reads = append(c.Reads, haplotype.Read{
					QueryName:      rec.Name,
					ReferenceStart: recStart,
					ReferenceEnd:   recEnd,
					QueryPosition:  queryPos,
					QuerySequence:  string(seq),
					Indel:          op.Len(),
				})
			}
		case sam.CigarDeletion:
			anchor := refPos - 1
			if anchor >= winStart && anchor < winEnd {
				c := cols[anchor-winStart]
				if c == nil {
					c = &haplotype.Column{ReferencePos: anchor}
					cols[anchor-winStart] = c
				}
				c.Reads = append(c.Reads, haplotype.Read{
					QueryName:      rec.Name,
					ReferenceStart: recStart,
					ReferenceEnd:   recEnd,
					QueryPosition:  queryPos,
					QuerySequence:  string(seq),
					Indel:          -op.Len(),
				})
			}
		}
		refPos += consumes.Reference * op.Len()
		queryPos += consumes.Query * op.Len()
	}
}
