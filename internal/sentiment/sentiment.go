// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment defines the sentiment-scoring boundary and helpers for
// building results that satisfy its contract. Concrete scorers (the ML
// inference client, the OpenAI scorer) live behind the Scorer interface so
// the pipeline can be tested with stubs.
package sentiment

import (
	"context"
	"strings"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// Scorer maps a normalized text to a sentiment class, signed score, and
// confidence. Implementations must return Neutral() for empty or
// whitespace-only input rather than erroring, and must uphold the sign
// invariant: sign(Score) matches Class, with neutral scored exactly 0.0.
type Scorer interface {
	Score(ctx context.Context, text string) (types.SentimentResult, error)
}

// Neutral returns the no-signal result used for empty input: neutral class,
// zero score, zero confidence.
func Neutral() types.SentimentResult {
	return types.SentimentResult{Class: types.SentimentNeutral, Score: 0.0, Confidence: 0.0}
}

// IsEmpty reports whether a text carries no scorable signal.
func IsEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}

// FromProbabilities builds a SentimentResult from a class probability
// triple. The winning class determines the label; negative and positive
// results carry a signed score of magnitude equal to the winning
// probability, while neutral results score 0.0 but keep the raw
// neutral-class probability as confidence.
func FromProbabilities(negative, neutral, positive float64) types.SentimentResult {
	class := types.SentimentNeutral
	winning := neutral
	if negative > winning {
		class = types.SentimentNegative
		winning = negative
	}
	if positive > winning {
		class = types.SentimentPositive
		winning = positive
	}

	result := types.SentimentResult{Class: class, Confidence: winning}
	switch class {
	case types.SentimentNegative:
		result.Score = -winning
	case types.SentimentPositive:
		result.Score = winning
	}
	return result
}

// Normalize coerces a result into contract shape: the score sign is forced
// to match the class and neutral results are zeroed. Used on results
// deserialized from external services.
func Normalize(r types.SentimentResult) types.SentimentResult {
	switch r.Class {
	case types.SentimentNegative:
		if r.Score > 0 {
			r.Score = -r.Score
		}
	case types.SentimentPositive:
		if r.Score < 0 {
			r.Score = -r.Score
		}
	default:
		r.Class = types.SentimentNeutral
		r.Score = 0.0
	}
	return r
}
