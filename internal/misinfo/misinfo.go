// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package misinfo flags documents that contradict verified facts: texts
// semantically close to a fact but carrying the opposite sentiment
// polarity.
package misinfo

import (
	"context"
	"fmt"

	"github.com/pdiddy/sentiment-engine/internal/sentiment"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// Similarity computes the semantic similarity of two texts in [0, 1].
// Satisfied by the inference client.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// similarityThreshold is the minimum similarity before a fact is
// considered close enough to contradict.
const similarityThreshold = 0.7

// Flagger checks texts against a set of verified facts.
type Flagger struct {
	scorer sentiment.Scorer
	sim    Similarity
}

// NewFlagger creates a flagger over the given scorer and similarity
// boundary.
func NewFlagger(scorer sentiment.Scorer, sim Similarity) *Flagger {
	return &Flagger{scorer: scorer, sim: sim}
}

// Check compares text against each verified fact independently. A flag is
// raised per fact when similarity exceeds 0.7 and the text's sentiment
// polarity strictly opposes the fact's (neutral never triggers), with
// confidence 0.7 x similarity. Multiple facts can flag the same text; no
// deduplication is applied. Boundary errors propagate as-is.
func (f *Flagger) Check(ctx context.Context, text string, facts []types.VerifiedFact) ([]types.MisinformationFlag, error) {
	var flags []types.MisinformationFlag

	for _, fact := range facts {
		similarity, err := f.sim.Similarity(ctx, text, fact.Statement)
		if err != nil {
			return nil, fmt.Errorf("comparing against fact %q: %w", fact.Source, err)
		}
		if similarity <= similarityThreshold {
			continue
		}

		textResult, err := f.scorer.Score(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("scoring text: %w", err)
		}
		factResult, err := f.scorer.Score(ctx, fact.Statement)
		if err != nil {
			return nil, fmt.Errorf("scoring fact %q: %w", fact.Source, err)
		}

		if !oppositePolarity(textResult.Class, factResult.Class) {
			continue
		}

		flags = append(flags, types.MisinformationFlag{
			Text:             text,
			ContradictedFact: fact.Statement,
			Similarity:       similarity,
			Confidence:       similarityThreshold * similarity,
		})
	}

	return flags, nil
}

// oppositePolarity reports whether two classes are strictly opposite:
// positive vs negative in either order. Neutral opposes nothing.
func oppositePolarity(a, b types.SentimentClass) bool {
	return a.Sign()*b.Sign() == -1
}
