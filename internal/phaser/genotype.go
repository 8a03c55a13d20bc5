package phaser

import "math"

// defaultPriors are the per-copy-count alt-fraction priors the
// prototype (kdp/haps.py:genotyper) used for 0/1/2 copies of the alt
// allele.
var defaultPriors = []float64{0.05, 0.5, 0.95}

// GenotypeLikelihoods returns log10-scaled genotype likelihoods for
// 0, 1 and 2 copies of the alt allele, given total and alt coverage.
// This is a supplemented feature (spec.md never names it, but it only
// enriches output -- see SPEC_FULL.md); it has no influence on GT
// assignment, which is decided purely by path selection.
func GenotypeLikelihoods(totalCov, altCov int, priors []float64) []float64 {
	if totalCov <= 0 {
		return nil
	}
	if priors == nil {
		priors = defaultPriors
	}
	nonAlt := totalCov - altCov
	comb := logChoose(totalCov, altCov)
	out := make([]float64, len(priors))
	for i, p := range priors {
		out[i] = comb + float64(altCov)*math.Log10(p) + float64(nonAlt)*math.Log10(1-p)
	}
	return out
}

// logChoose computes log10(C(n,k)) by accumulating a running
// product/quotient in log space, swapping to the smaller complement
// for efficiency, matching the prototype's implementation.
func logChoose(n, k int) float64 {
	if k*2 > n {
		k = n - k
	}
	r := 0.0
	for d := 1; d <= k; d++ {
		r += math.Log10(float64(n))
		r -= math.Log10(float64(d))
		n--
	}
	return r
}
