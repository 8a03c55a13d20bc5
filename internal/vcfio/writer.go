package vcfio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// formatHeaderLines are the FORMAT field definitions this tool adds to
// the output VCF header, per spec section 6.
var formatHeaderLines = []string{
	`##FORMAT=<ID=SZ,Number=R,Type=Float,Description="Per-allele size similarity of the selected path">`,
	`##FORMAT=<ID=CS,Number=R,Type=Float,Description="Per-allele cosine similarity of the selected path">`,
	`##FORMAT=<ID=PG,Number=1,Type=String,Description="Phase group id">`,
	`##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Per-haplotype coverage attributed to H1, H2">`,
	`##FORMAT=<ID=GL,Number=G,Type=Float,Description="Genotype likelihoods for 0,1,2 copies of the alt allele">`,
}

// Writer emits VCF records in the candidate's original column order,
// widened with this tool's FORMAT fields.
type Writer struct {
	w         *bufio.Writer
	sampleCol int
	nSamples  int
}

// NewWriter writes hdr's meta-lines (plus the new FORMAT additions) and
// the #CHROM header line, then returns a Writer ready for Write calls.
func NewWriter(w io.Writer, hdr *Header, sampleCol int) (*Writer, error) {
	bw := bufio.NewWriter(w)
	for _, line := range hdr.MetaLines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return nil, err
		}
	}
	for _, line := range formatHeaderLines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return nil, err
		}
	}
	cols := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}
	cols = append(cols, hdr.Samples...)
	if _, err := fmt.Fprintln(bw, strings.Join(cols, "\t")); err != nil {
		return nil, err
	}
	return &Writer{w: bw, sampleCol: sampleCol, nSamples: len(hdr.Samples)}, nil
}

// Write serializes one record.
func (w *Writer) Write(v *Variant) error {
	formatKeys := append([]string{"GT"}, v.otherFormatKeys...)
	formatKeys = append(formatKeys, "PG", "SZ", "CS", "AD")
	if len(v.GL) > 0 {
		formatKeys = append(formatKeys, "GL")
	}

	sampleVal := formatGT(v) + ":"
	for _, k := range v.otherFormatKeys {
		sampleVal += v.otherFields[k] + ":"
	}
	sampleVal += formatPG(v) + ":" + formatPair(v.SZ) + ":" + formatPair(v.CS) + ":" + formatAD(v.AD)
	if len(v.GL) > 0 {
		sampleVal += ":" + formatGL(v.GL)
	}

	samples := make([]string, w.nSamples)
	for i := range samples {
		samples[i] = "."
	}
	if w.sampleCol < len(samples) {
		samples[w.sampleCol] = sampleVal
	}

	fields := []string{
		v.Chrom, strconv.Itoa(v.Pos), v.ID, v.Ref, v.Alt, v.Qual, v.Filter, v.Info,
		strings.Join(formatKeys, ":"),
	}
	fields = append(fields, samples...)
	_, err := fmt.Fprintln(w.w, strings.Join(fields, "\t"))
	return err
}

// Flush flushes the underlying buffered writer.
func (w *Writer) Flush() error { return w.w.Flush() }

func formatGT(v *Variant) string {
	sep := "/"
	if v.Phased {
		sep = "|"
	}
	return alleleStr(v.GT0) + sep + alleleStr(v.GT1)
}

func alleleStr(a int8) string {
	if a < 0 {
		return "."
	}
	return strconv.Itoa(int(a))
}

func formatPG(v *Variant) string {
	if v.PG == "" {
		return "."
	}
	return v.PG
}

func formatPair(p [2]*float64) string {
	return floatOrDot(p[0]) + "," + floatOrDot(p[1])
}

func floatOrDot(f *float64) string {
	if f == nil {
		return "."
	}
	return strconv.FormatFloat(*f, 'f', 3, 64)
}

func formatAD(ad [2]int) string {
	return strconv.Itoa(ad[0]) + "," + strconv.Itoa(ad[1])
}

func formatGL(gl []float64) string {
	parts := make([]string, len(gl))
	for i, v := range gl {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join(parts, ",")
}
