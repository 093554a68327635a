// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	nmfMaxIter = 200
	nmfEps     = 1e-9
)

// factorize decomposes the non-negative matrix v (n docs by m terms) into
// w (n by k document-topic weights) and h (k by m topic-term weights) with
// multiplicative updates minimizing the Frobenius reconstruction error.
func factorize(v *mat.Dense, k int, rng *rand.Rand) (w, h *mat.Dense) {
	n, m := v.Dims()

	// Scale the random initialization to the magnitude of v so the first
	// updates start near the data rather than orders of magnitude off.
	scale := math.Sqrt(mat.Sum(v)/float64(n*m*k)) + nmfEps
	w = mat.NewDense(n, k, nil)
	h = mat.NewDense(k, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			w.Set(i, j, rng.Float64()*scale)
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < m; j++ {
			h.Set(i, j, rng.Float64()*scale)
		}
	}

	var wtv, wtw, wtwh, vht, hht, whht mat.Dense
	for iter := 0; iter < nmfMaxIter; iter++ {
		// H <- H * (WᵀV) / (WᵀWH)
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		for i := 0; i < k; i++ {
			for j := 0; j < m; j++ {
				h.Set(i, j, h.At(i, j)*wtv.At(i, j)/(wtwh.At(i, j)+nmfEps))
			}
		}

		// W <- W * (VHᵀ) / (WHHᵀ)
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				w.Set(i, j, w.At(i, j)*vht.At(i, j)/(whht.At(i, j)+nmfEps))
			}
		}
	}
	return w, h
}
