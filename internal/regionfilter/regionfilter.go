// Package regionfilter restricts candidate variants to a set of
// target regions, given either as a BED file or a single region
// string on the command line (spec section 6's --regions/--bed-regions
// flags). It is a thin adapter over grailbio/kfphase/interval's BEDUnion,
// the same disjoint-interval-set representation the rest of this
// module's corpus uses for region membership tests.
package regionfilter

import (
	"io"

	"github.com/grailbio/kfphase/interval"
)

// Filter answers membership queries for a single-contig-at-a-time
// caller, the way a chunker or phaser loop walks a chromosome in
// position order.
type Filter struct {
	union interval.BEDUnion
}

// FromBED builds a Filter from a sorted interval BED file.
func FromBED(r io.Reader) (*Filter, error) {
	u, err := interval.NewBEDUnion(r, interval.NewBEDOpts{})
	if err != nil {
		return nil, err
	}
	return &Filter{union: u}, nil
}

// FromRegionString builds a Filter from a single region string of the
// form "chrom", "chrom:pos" or "chrom:start-end", per
// interval.ParseRegionString.
func FromRegionString(region string) (*Filter, error) {
	entry, err := interval.ParseRegionString(region)
	if err != nil {
		return nil, err
	}
	u, err := interval.NewBEDUnionFromEntries([]interval.Entry{entry}, interval.NewBEDOpts{})
	if err != nil {
		return nil, err
	}
	return &Filter{union: u}, nil
}

// Contains reports whether the 0-based position pos on chrom falls
// inside the filter's region set. A nil Filter contains everything,
// matching the no-restriction default when neither --bed nor --region
// is given.
func (f *Filter) Contains(chrom string, pos int) bool {
	if f == nil {
		return true
	}
	return f.union.ContainsByName(chrom, interval.PosType(pos))
}
