package vcfio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
)

// Header holds the parsed meta-information and column lines of a VCF,
// enough to look up a sample by name or index and to echo the original
// meta-lines (plus our own FORMAT additions) back out on write.
type Header struct {
	MetaLines []string
	Samples   []string
}

// SampleIndex resolves a sample selector (by name if non-empty,
// otherwise by index) to a column index into Samples.
func (h *Header) SampleIndex(name string, idx int) int {
	if name != "" {
		for i, s := range h.Samples {
			if s == name {
				return i
			}
		}
		log.Panicf("vcfio: sample %q not found in header", name)
	}
	return idx
}

// Reader reads VCF records one at a time, mirroring the *sam.Record
// Read() idiom used by this module's BAM access.
type Reader struct {
	sc         *bufio.Scanner
	Header     *Header
	sampleCol  int
	lineNo     int
}

// NewReader consumes meta/header lines from r, resolves the requested
// sample, and returns a Reader positioned at the first data line.
func NewReader(r io.Reader, sampleName string, sampleIdx int) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	hdr := &Header{}
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "##") {
			hdr.MetaLines = append(hdr.MetaLines, line)
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				hdr.Samples = fields[9:]
			}
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &Reader{sc: sc, Header: hdr, sampleCol: hdr.SampleIndex(sampleName, sampleIdx)}, nil
}

// Read returns the next record, or io.EOF when the stream is
// exhausted. Malformed lines are skipped with a warning (spec section
// 7: "Malformed record: silently skip and continue").
func (r *Reader) Read() (*Variant, error) {
	for r.sc.Scan() {
		r.lineNo++
		line := r.sc.Text()
		if line == "" {
			continue
		}
		v, err := parseLine(line, r.sampleCol)
		if err != nil {
			log.Error.Printf("vcfio: skipping malformed record at line %d: %v", r.lineNo, err)
			continue
		}
		return v, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func parseLine(line string, sampleCol int) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, errShortRecord
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, err
	}
	v := &Variant{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    firstAlt(fields[4]),
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
		GT0:    -1,
		GT1:    -1,
	}
	if len(fields) > 9+sampleCol && len(fields) > 8 {
		formatKeys := strings.Split(fields[8], ":")
		sampleFieldIdx := 9 + sampleCol
		if sampleFieldIdx < len(fields) {
			parseSample(v, formatKeys, strings.Split(fields[sampleFieldIdx], ":"))
		}
	}
	return v, nil
}

func firstAlt(alt string) string {
	if i := strings.IndexByte(alt, ','); i >= 0 {
		return alt[:i]
	}
	return alt
}

func parseSample(v *Variant, keys, vals []string) {
	other := map[string]string{}
	var otherKeys []string
	for i, k := range keys {
		if i >= len(vals) {
			break
		}
		if k == "GT" {
			g0, g1, has1, phased := parseGT(vals[i])
			v.GT0, v.GT1, v.HasGT1, v.Phased = g0, g1, has1, phased
			continue
		}
		other[k] = vals[i]
		otherKeys = append(otherKeys, k)
	}
	v.otherFormatKeys = otherKeys
	v.otherFields = other
}

func parseGT(s string) (g0, g1 int8, has1, phased bool) {
	sep := byte('/')
	if idx := strings.IndexByte(s, '|'); idx >= 0 {
		sep = '|'
		phased = true
	}
	parts := strings.SplitN(s, string(sep), 2)
	g0 = parseAllele(parts[0])
	if len(parts) > 1 {
		g1 = parseAllele(parts[1])
		has1 = true
	}
	return
}

func parseAllele(s string) int8 {
	if s == "." || s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return int8(n)
}

type shortRecordError string

func (e shortRecordError) Error() string { return string(e) }

const errShortRecord = shortRecordError("vcf record has fewer than 8 columns")
