package haplotype

import "gonum.org/v1/gonum/floats"

// maxKMeansIter bounds Lloyd's-algorithm iterations for the 2-means
// read clustering; k-mer count vectors converge in a handful of passes
// in practice, so this is a generous ceiling rather than a tuned limit.
const maxKMeansIter = 25

// twoMeans performs coverage-weighted 2-means clustering over a set of
// k-mer count vectors, standing in for a sequence-alignment-based read
// clustering per spec section 4.3's rationale. It is deliberately
// implemented directly over gonum/floats rather than a generic ML
// clustering package: no clustering library appears anywhere in the
// retrieval pack, and a fixed k=2 weighted Lloyd's iteration is a small
// amount of code that gonum's vector primitives make straightforward
// (see DESIGN.md).
func twoMeans(points [][]float64, weights []float64) []int {
	n := len(points)
	assign := make([]int, n)
	if n < 2 {
		return assign
	}
	dim := len(points[0])

	// Seed centroids with the first point and the point farthest from it,
	// a cheap deterministic stand-in for k-means++ seeding.
	c0 := append([]float64(nil), points[0]...)
	farIdx, farDist := 1, -1.0
	for i := 1; i < n; i++ {
		d := floats.Distance(points[i], c0, 2)
		if d > farDist {
			farDist = d
			farIdx = i
		}
	}
	centroids := [2][]float64{c0, append([]float64(nil), points[farIdx]...)}

	for iter := 0; iter < maxKMeansIter; iter++ {
		changed := false
		for i, p := range points {
			d0 := floats.Distance(p, centroids[0], 2)
			d1 := floats.Distance(p, centroids[1], 2)
			a := 0
			if d1 < d0 {
				a = 1
			}
			if assign[i] != a {
				changed = true
				assign[i] = a
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := [2][]float64{make([]float64, dim), make([]float64, dim)}
		wsum := [2]float64{}
		for i, p := range points {
			a := assign[i]
			floats.AddScaled(sums[a], weights[i], p)
			wsum[a] += weights[i]
		}
		for c := 0; c < 2; c++ {
			if wsum[c] > 0 {
				floats.Scale(1/wsum[c], sums[c])
				centroids[c] = sums[c]
			}
		}
	}
	return assign
}
