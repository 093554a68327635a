// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics extracts latent discussion topics from a corpus of
// normalized feedback texts. Documents are vectorized with TF-IDF, the
// topic count is chosen by silhouette analysis over k-means clusterings,
// and the final topic/term weights come from non-negative matrix
// factorization.
package topics

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/sentiment-engine/internal/lang"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// vectorize builds a row-per-document TF-IDF matrix over the corpus.
// Terms shorter than two runes and English stopwords are dropped, document
// frequency is bounded by cfg.MinDocFreq and cfg.MaxDocFreq, and the
// vocabulary is capped at cfg.MaxFeatures terms ordered by total corpus
// frequency. Returned term columns are sorted alphabetically. Rows are
// L2-normalized. Returns a nil matrix when no term survives filtering.
func vectorize(corpus []string, cfg types.TopicsConfig) (*mat.Dense, []string) {
	n := len(corpus)
	stop := lang.EnglishStopwords()

	docTokens := make([][]string, n)
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for i, doc := range corpus {
		var kept []string
		seen := make(map[string]struct{})
		for _, tok := range strings.Fields(strings.ToLower(doc)) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			if _, ok := stop[tok]; ok {
				continue
			}
			kept = append(kept, tok)
			termFreq[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
		docTokens[i] = kept
	}

	maxDF := int(cfg.MaxDocFreq * float64(n))
	if maxDF < 1 {
		maxDF = 1
	}
	minDF := cfg.MinDocFreq
	if minDF < 1 {
		minDF = 1
	}

	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDF && df <= maxDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	if len(terms) > cfg.MaxFeatures {
		// Keep the most frequent terms; break ties alphabetically so the
		// vocabulary is stable across runs.
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:cfg.MaxFeatures]
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for j, term := range terms {
		index[term] = j
	}

	matrix := mat.NewDense(n, len(terms), nil)
	for i, toks := range docTokens {
		for _, tok := range toks {
			if j, ok := index[tok]; ok {
				matrix.Set(i, j, matrix.At(i, j)+1)
			}
		}
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	for j, term := range terms {
		idf := math.Log((1+float64(n))/(1+float64(docFreq[term]))) + 1
		for i := 0; i < n; i++ {
			matrix.Set(i, j, matrix.At(i, j)*idf)
		}
	}

	for i := 0; i < n; i++ {
		row := matrix.RawRowView(i)
		norm := floats.Norm(row, 2)
		if norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return matrix, terms
}
