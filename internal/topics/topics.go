// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math/rand"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

const placeholderLabel = "insufficient data"

// Extract models the topics discussed in a corpus of normalized texts.
// Corpora with fewer than two documents, or whose vocabulary is empty
// after filtering, get a single placeholder topic with every document
// assigned to it.
func Extract(corpus []string, cfg types.TopicsConfig) types.TopicModel {
	cfg = withDefaults(cfg)
	if len(corpus) < 2 {
		return placeholderModel(len(corpus))
	}

	matrix, terms := vectorize(corpus, cfg)
	if matrix == nil {
		return placeholderModel(len(corpus))
	}

	k := chooseK(matrix, len(corpus), cfg)
	rng := rand.New(rand.NewSource(cfg.Seed))
	w, h := factorize(matrix, k, rng)

	model := types.TopicModel{
		Topics:    make([]types.Topic, k),
		DocTopics: make([]int, len(corpus)),
	}
	for t := 0; t < k; t++ {
		top := topTerms(h, t, terms, cfg.TopTerms)
		label := top
		if len(label) > 3 {
			label = label[:3]
		}
		model.Topics[t] = types.Topic{
			ID:    t,
			Terms: top,
			Label: strings.Join(label, " "),
		}
	}
	for i := range corpus {
		model.DocTopics[i] = argmaxRow(w, i)
	}
	return model
}

// chooseK runs k-means for each candidate topic count and keeps the one
// with the best silhouette score. Candidates where clusters would average
// under two documents score zero.
func chooseK(matrix *mat.Dense, nDocs int, cfg types.TopicsConfig) int {
	maxK := cfg.MaxTopics
	if nDocs-1 < maxK {
		maxK = nDocs - 1
	}
	if maxK < 2 {
		return 2
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var candidates []int
	var scores []float64
	for k := 2; k <= maxK; k++ {
		candidates = append(candidates, k)
		if float64(nDocs)/float64(k) < 2 {
			scores = append(scores, 0)
			continue
		}
		labels := kMeansLabels(matrix, k, rng)
		scores = append(scores, silhouetteScore(matrix, labels))
	}
	return selectK(candidates, scores)
}

func topTerms(h *mat.Dense, topic int, terms []string, limit int) []string {
	if limit > len(terms) {
		limit = len(terms)
	}
	idx := make([]int, len(terms))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return h.At(topic, idx[a]) > h.At(topic, idx[b])
	})
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = terms[idx[i]]
	}
	return out
}

func argmaxRow(w *mat.Dense, row int) int {
	_, k := w.Dims()
	best := 0
	for j := 1; j < k; j++ {
		if w.At(row, j) > w.At(row, best) {
			best = j
		}
	}
	return best
}

func placeholderModel(n int) types.TopicModel {
	return types.TopicModel{
		Topics: []types.Topic{{
			ID:    0,
			Terms: []string{"insufficient", "data"},
			Label: placeholderLabel,
		}},
		DocTopics: make([]int, n),
	}
}

func withDefaults(cfg types.TopicsConfig) types.TopicsConfig {
	if cfg.MaxTopics <= 0 {
		cfg.MaxTopics = 5
	}
	if cfg.TopTerms <= 0 {
		cfg.TopTerms = 10
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = 1000
	}
	if cfg.MaxDocFreq <= 0 {
		cfg.MaxDocFreq = 0.95
	}
	if cfg.MinDocFreq <= 0 {
		cfg.MinDocFreq = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return cfg
}
