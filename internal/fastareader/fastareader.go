// Package fastareader wraps grailbio/kfphase/encoding/fasta to fetch the
// reference windows the BAM haplotype builder (spec section 4.3) needs
// around each candidate region.
package fastareader

import (
	"io"

	"github.com/grailbio/kfphase/encoding/fasta"
)

// Reference serves 0-based half-open reference windows by contig name.
type Reference struct {
	fa fasta.Fasta
}

// Open reads the whole FASTA from an already-open reader into memory;
// r is not read again after Open returns.
func Open(r io.Reader) (*Reference, error) {
	fa, err := fasta.New(r, fasta.OptClean)
	if err != nil {
		return nil, err
	}
	return &Reference{fa: fa}, nil
}

// Window returns the reference bases covering [start, end) on chrom,
// clamped to the contig length.
func (r *Reference) Window(chrom string, start, end int) (string, error) {
	contigLen, err := r.fa.Len(chrom)
	if err != nil {
		return "", err
	}
	s := uint64(start)
	e := uint64(end)
	if e > contigLen {
		e = contigLen
	}
	if s > e {
		s = e
	}
	if s == e && start >= 0 {
		return "", nil
	}
	return r.fa.Get(chrom, s, e)
}
