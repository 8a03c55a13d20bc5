// Package chunker groups position-sorted variants into chunks of
// nearby candidates, the "upstream chunker" spec sections 1 and 6 name
// as an external collaborator. Two variants join the same chunk when
// they are within ChunkSize bases of each other; base (truth) and
// comparison (candidate) records are kept in separate slices per
// chunk, matching the dict{'base', 'comp'} shape spec section 6
// describes.
package chunker

import "github.com/grailbio/kfphase/internal/vcfio"

// Chunk is one group of nearby variants sharing a phasing region.
type Chunk struct {
	ID   string
	Base []*vcfio.Variant
	Comp []*vcfio.Variant
}

// Bounds returns the 0-based half-open [start, end) span covering every
// variant in the chunk.
func (c *Chunk) Bounds() (start, end int) {
	start, end = -1, -1
	for _, vs := range [][]*vcfio.Variant{c.Base, c.Comp} {
		for _, v := range vs {
			if start == -1 || v.Start() < start {
				start = v.Start()
			}
			if end == -1 || v.End() > end {
				end = v.End()
			}
		}
	}
	return
}

// Chrom returns the chunk's chromosome, taken from whichever of
// base/comp has a record.
func (c *Chunk) Chrom() string {
	if len(c.Comp) > 0 {
		return c.Comp[0].Chrom
	}
	if len(c.Base) > 0 {
		return c.Base[0].Chrom
	}
	return ""
}

// RemoveLargestComp removes and returns the Comp entry with the
// largest |Size()|, the BAM pathway's blind-removal retry step (spec
// section 4.7, and the documented alternative in section 9(c)). It
// reports false if Comp is already empty.
func (c *Chunk) RemoveLargestComp() (*vcfio.Variant, bool) {
	if len(c.Comp) == 0 {
		return nil, false
	}
	largest := 0
	for i := 1; i < len(c.Comp); i++ {
		if absInt(c.Comp[i].Size()) > absInt(c.Comp[largest].Size()) {
			largest = i
		}
	}
	v := c.Comp[largest]
	c.Comp = append(c.Comp[:largest], c.Comp[largest+1:]...)
	return v, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Chunks groups position-sorted base and comp variants (both already
// sorted ascending by (chrom, pos)) into chunks, splitting whenever a
// chromosome changes or a gap larger than chunkSize is seen across the
// union of the two streams. Chunk ids are assigned as ascending decimal
// strings, matching the opaque chunk_id the prototype threads through.
func Chunks(base, comp []*vcfio.Variant, chunkSize int) []*Chunk {
	type tagged = struct {
		v      *vcfio.Variant
		isBase bool
	}
	all := make([]tagged, 0, len(base)+len(comp))
	for _, v := range base {
		all = append(all, tagged{v, true})
	}
	for _, v := range comp {
		all = append(all, tagged{v, false})
	}
	sortTagged(all)

	var chunks []*Chunk
	var cur *Chunk
	var lastChrom string
	lastEnd := -1
	id := 0

	flush := func() {
		if cur != nil {
			chunks = append(chunks, cur)
		}
		cur = nil
	}

	for _, t := range all {
		v := t.v
		newChunk := cur == nil || v.Chrom != lastChrom || v.Start()-lastEnd > chunkSize
		if newChunk {
			flush()
			cur = &Chunk{ID: itoaChunk(id)}
			id++
		}
		if t.isBase {
			cur.Base = append(cur.Base, v)
		} else {
			cur.Comp = append(cur.Comp, v)
		}
		lastChrom = v.Chrom
		if v.End() > lastEnd {
			lastEnd = v.End()
		}
	}
	flush()
	return chunks
}

func sortTagged(all []struct {
	v      *vcfio.Variant
	isBase bool
}) {
	// insertion sort is fine: chunk inputs are already near-sorted
	// per-stream; this only interleaves two sorted runs.
	for i := 1; i < len(all); i++ {
		j := i
		for j > 0 && less(all[j], all[j-1]) {
			all[j], all[j-1] = all[j-1], all[j]
			j--
		}
	}
}

func less(a, b struct {
	v      *vcfio.Variant
	isBase bool
}) bool {
	if a.v.Chrom != b.v.Chrom {
		return a.v.Chrom < b.v.Chrom
	}
	return a.v.Pos < b.v.Pos
}

func itoaChunk(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
