// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
kfphase phases structural-variant candidates against a pair of
per-region haplotypes, inferred either from a phased base VCF or from a
BAM pileup, by enumerating and scoring candidate DAG paths against each
haplotype's k-mer signature.
*/

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/kfphase/internal/bamreader"
	"github.com/grailbio/kfphase/internal/chunker"
	"github.com/grailbio/kfphase/internal/config"
	"github.com/grailbio/kfphase/internal/fastareader"
	"github.com/grailbio/kfphase/internal/haplotype"
	"github.com/grailbio/kfphase/internal/phaser"
	"github.com/grailbio/kfphase/internal/regionfilter"
	"github.com/grailbio/kfphase/internal/vcfio"
)

var (
	compPath   = flag.String("vcf", "", "Input candidate VCF path (required)")
	basePath   = flag.String("base", "", "Phased base/truth VCF path; this xor -bam selects the haplotype builder")
	bamPath    = flag.String("bam", "", "Input BAM path; this xor -base selects the haplotype builder")
	refPath    = flag.String("ref", "", "Reference FASTA path; required with -bam")
	outPath    = flag.String("out", "", "Output VCF path (required)")
	bedPath    = flag.String("bed", "", "Restrict phasing to these regions; this xor -region is optional")
	region     = flag.String("region", "", "Restrict phasing to a single region (chrom[:start-end]); this xor -bed is optional")
	kmerLen    = flag.Int("kmer", 4, "K-mer length used for featurization")
	passOnly   = flag.Bool("passonly", false, "Restrict candidates to FILTER==PASS (or unset)")
	sizeMin    = flag.Int("sizemin", 20, "Minimum |indel size| considered as haplotype evidence")
	sizeMax    = flag.Int("sizemax", 50000, "Maximum |indel size| considered as haplotype evidence")
	maxPaths   = flag.Int("maxpaths", 1000, "Per-haplotype DFS path enumeration budget")
	cosSim     = flag.Float64("cossim", 0.90, "Minimum cosine similarity for path selection")
	pctSize    = flag.Float64("pctsize", 0.90, "Minimum size similarity for path selection")
	wCosLen    = flag.Int("wcoslen", 2000, "|size| threshold below which weighted cosine similarity is used")
	chunkSize  = flag.Int("chunksize", 100, "Chunking distance and BAM/reference window padding")
	nTries     = flag.Int("ntries", 5, "BAM-pathway attempts; each attempt with no evidence drops the largest remaining candidate")
	pg         = flag.Bool("pg", false, "Enable multi-phase-group mode")
	debug      = flag.Bool("debug", false, "Enable verbose per-read/per-column tracing")
	sampleIdx  = flag.Int("sample", 0, "Sample column index to genotype (ignored if -sample-name is set)")
	sampleName = flag.String("sample-name", "", "Sample name to genotype")
	parallel   = flag.Int("parallelism", 0, "Maximum simultaneous chunk workers; 0 = runtime.NumCPU()")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -vcf candidates.vcf {-base base.vcf | -bam reads.bam -ref ref.fa} -out out.vcf\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *compPath == "" || *outPath == "" {
		log.Fatalf("-vcf and -out are required")
	}
	if (*basePath == "") == (*bamPath == "") {
		log.Fatalf("exactly one of -base or -bam is required")
	}
	if *bamPath != "" && *refPath == "" {
		log.Fatalf("-ref is required with -bam")
	}

	cfg := &config.Opts{
		Kmer:       *kmerLen,
		PassOnly:   *passOnly,
		SizeMin:    *sizeMin,
		SizeMax:    *sizeMax,
		MaxPaths:   *maxPaths,
		CosSim:     *cosSim,
		PctSize:    *pctSize,
		WCosLen:    *wCosLen,
		ChunkSize:  *chunkSize,
		NTries:     *nTries,
		PG:         *pg,
		Debug:      *debug,
		Sample:     *sampleIdx,
		SampleName: *sampleName,
	}

	ctx := vcontext.Background()
	if err := run(ctx, cfg); err != nil {
		log.Panicf("kfphase: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Opts) error {
	comp, compHdr, err := readVariants(ctx, *compPath, cfg)
	if err != nil {
		return errors.E(err, "reading candidate VCF")
	}

	var filter *regionfilter.Filter
	if *bedPath != "" {
		if filter, err = openBEDFilter(ctx, *bedPath); err != nil {
			return errors.E(err, "reading -bed")
		}
	} else if *region != "" {
		if filter, err = regionfilter.FromRegionString(*region); err != nil {
			return errors.E(err, "parsing -region")
		}
	}
	comp = filterVariants(comp, filter)

	var base []*vcfio.Variant
	if *basePath != "" {
		if base, _, err = readVariants(ctx, *basePath, cfg); err != nil {
			return errors.E(err, "reading base VCF")
		}
	}

	chunks := chunker.Chunks(base, comp, cfg.ChunkSize)
	log.Printf("kfphase: %d chunk(s)", len(chunks))

	parallelism := *parallel
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(chunks) {
		parallelism = len(chunks)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	var refs *fastareader.Reference
	if *bamPath != "" {
		if refs, err = openReference(ctx, *refPath); err != nil {
			return errors.E(err, "reading -ref")
		}
	}

	nChunks := len(chunks)
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nChunks) / parallelism
		endIdx := ((jobIdx + 1) * nChunks) / parallelism
		for _, c := range chunks[startIdx:endIdx] {
			var h1, h2 haplotype.Haplotype
			var herr error
			if *basePath != "" {
				h1, h2 = haplotypesFromBase(c.Base, cfg)
			} else {
				h1, h2, herr = haplotypesFromBAM(ctx, c, refs, cfg)
				if herr != nil {
					return errors.E(herr, fmt.Sprintf("chunk %s: BAM pileup", c.ID))
				}
			}
			result := phaser.PhaseRegion(c.Comp, h1, h2, c.ID, cfg)
			log.Debug.Printf("chunk %s: state=%s phased=%d unused=%d groups=%d",
				c.ID, result.State, result.NumPhased, result.NumUnused, result.PhaseGroups)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return writeVariants(ctx, *outPath, compHdr, comp, cfg)
}

func readVariants(ctx context.Context, path string, cfg *config.Opts) (out []*vcfio.Variant, hdr *vcfio.Header, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer file.CloseAndReport(ctx, f, &err)

	r, err := vcfio.NewReader(f.Reader(ctx), cfg.SampleName, cfg.Sample)
	if err != nil {
		return nil, nil, err
	}
	for {
		var v *vcfio.Variant
		v, err = r.Read()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if cfg.PassOnly && !v.PassFilter() {
			continue
		}
		out = append(out, v)
	}
	return out, r.Header, nil
}

func filterVariants(vs []*vcfio.Variant, filter *regionfilter.Filter) []*vcfio.Variant {
	if filter == nil {
		return vs
	}
	out := vs[:0]
	for _, v := range vs {
		if filter.Contains(v.Chrom, v.Start()) {
			out = append(out, v)
		}
	}
	return out
}

func openBEDFilter(ctx context.Context, path string) (filter *regionfilter.Filter, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, f, &err)
	return regionfilter.FromBED(f.Reader(ctx))
}

// openReference leaves the underlying file open until the process
// exits; the returned Reference holds the whole FASTA in memory and
// does not read the file again.
func openReference(ctx context.Context, path string) (*fastareader.Reference, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return fastareader.Open(f.Reader(ctx))
}

func haplotypesFromBase(baseVariants []*vcfio.Variant, cfg *config.Opts) (haplotype.Haplotype, haplotype.Haplotype) {
	recs := make([]haplotype.PhasedRecord, len(baseVariants))
	for i, v := range baseVariants {
		recs[i] = haplotype.PhasedRecord{Ref: v.Ref, Alt: v.Alt, GT0: v.GT0, HasGT1: v.HasGT1, GT1: v.GT1}
	}
	return haplotype.FromPhasedVCF(recs, cfg.Kmer)
}

// bamPileupFunc builds the two haplotypes for one retry attempt: a
// reference window [winStart, winEnd) and a BAM pileup over the same
// window, reduced through haplotype.FromPileup against the candidate
// region [regStart, regEnd).
type bamPileupFunc func(chrom string, regStart, regEnd, winStart, winEnd int) (haplotype.Haplotype, haplotype.Haplotype, error)

// haplotypesFromBAM implements spec section 4.7's BAM-pathway retry:
// when a pileup over the chunk's window yields no evidence at all
// (possibly due to bad boundaries from one outsized candidate), the
// single largest remaining candidate is removed from c.Comp -- marked
// missing (./.) rather than ref, since the BAM pathway never got a
// chance to evaluate it -- and the window/pileup is recomputed over
// the smaller remaining set, up to cfg.NTries times.
func haplotypesFromBAM(ctx context.Context, c *chunker.Chunk, refs *fastareader.Reference, cfg *config.Opts) (haplotype.Haplotype, haplotype.Haplotype, error) {
	pileup := func(chrom string, regStart, regEnd, winStart, winEnd int) (h1, h2 haplotype.Haplotype, err error) {
		refWindow, err := refs.Window(chrom, winStart, winEnd)
		if err != nil {
			return h1, h2, err
		}
		f, err := file.Open(ctx, *bamPath)
		if err != nil {
			return h1, h2, err
		}
		cols, err := bamreader.BuildColumns(f.Reader(ctx), chrom, winStart, winEnd)
		file.CloseAndReport(ctx, f, &err)
		if err != nil {
			return h1, h2, err
		}
		h1, h2 = haplotype.FromPileup(cols, refWindow, regStart, regEnd, cfg)
		return h1, h2, nil
	}
	return retryBAMHaplotypes(c, cfg, pileup)
}

// retryBAMHaplotypes is haplotypesFromBAM's window/removal loop,
// factored out from the file/BAM I/O so it can be exercised directly:
// it marks every candidate missing, then alternates fetching a pileup
// over the chunk's current bounds and -- on zero evidence -- dropping
// the single largest remaining candidate, until evidence is found,
// c.Comp is exhausted, or cfg.NTries attempts are spent.
func retryBAMHaplotypes(c *chunker.Chunk, cfg *config.Opts, pileup bamPileupFunc) (haplotype.Haplotype, haplotype.Haplotype, error) {
	chrom := c.Chrom()
	for _, v := range c.Comp {
		v.SetMissing()
	}

	var h1, h2 haplotype.Haplotype
	for attempt := 0; attempt < cfg.NTries && len(c.Comp) > 0; attempt++ {
		regStart, regEnd := c.Bounds()
		winStart, winEnd := regStart-cfg.ChunkSize, regEnd+cfg.ChunkSize
		var err error
		h1, h2, err = pileup(chrom, regStart, regEnd, winStart, winEnd)
		if err != nil {
			return h1, h2, err
		}
		if h1.N > 0 || h2.N > 0 {
			return h1, h2, nil
		}
		c.RemoveLargestComp()
	}
	return h1, h2, nil
}

func writeVariants(ctx context.Context, path string, hdr *vcfio.Header, variants []*vcfio.Variant, cfg *config.Opts) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	w, err := vcfio.NewWriter(f.Writer(ctx), hdr, hdr.SampleIndex(cfg.SampleName, cfg.Sample))
	if err != nil {
		return err
	}
	for _, v := range variants {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	return w.Flush()
}
