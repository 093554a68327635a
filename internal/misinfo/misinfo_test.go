package misinfo

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// stubScorer scores by keyword: "terrible" negative, "great" positive,
// everything else neutral.
type stubScorer struct{}

func (stubScorer) Score(_ context.Context, text string) (types.SentimentResult, error) {
	switch {
	case strings.Contains(text, "terrible"):
		return types.SentimentResult{Class: types.SentimentNegative, Score: -0.9, Confidence: 0.9}, nil
	case strings.Contains(text, "great"):
		return types.SentimentResult{Class: types.SentimentPositive, Score: 0.9, Confidence: 0.9}, nil
	default:
		return types.SentimentResult{Class: types.SentimentNeutral, Score: 0, Confidence: 0.6}, nil
	}
}

type fixedSimilarity float64

func (s fixedSimilarity) Similarity(_ context.Context, _, _ string) (float64, error) {
	return float64(s), nil
}

var testFacts = []types.VerifiedFact{
	{Statement: "The card readers are great and work on all buses", Source: "status report"},
}

func TestCheckOppositePolarityFlags(t *testing.T) {
	f := NewFlagger(stubScorer{}, fixedSimilarity(0.9))

	flags, err := f.Check(context.Background(), "card readers are terrible", testFacts)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("len(flags) = %d, want 1", len(flags))
	}

	flag := flags[0]
	if flag.ContradictedFact != testFacts[0].Statement {
		t.Errorf("ContradictedFact = %q", flag.ContradictedFact)
	}
	if math.Abs(flag.Similarity-0.9) > 1e-9 {
		t.Errorf("Similarity = %f, want 0.9", flag.Similarity)
	}
	if math.Abs(flag.Confidence-0.63) > 1e-9 {
		t.Errorf("Confidence = %f, want 0.7*0.9 = 0.63", flag.Confidence)
	}
}

func TestCheckSamePolarityNeverFlags(t *testing.T) {
	f := NewFlagger(stubScorer{}, fixedSimilarity(0.9))

	// Both positive, similarity 0.9: must not flag.
	flags, err := f.Check(context.Background(), "card readers are great", testFacts)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(flags) != 0 {
		t.Errorf("len(flags) = %d, want 0 for matching polarity", len(flags))
	}
}

func TestCheckNeutralNeverFlags(t *testing.T) {
	f := NewFlagger(stubScorer{}, fixedSimilarity(0.95))

	flags, err := f.Check(context.Background(), "card readers exist", testFacts)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(flags) != 0 {
		t.Errorf("len(flags) = %d, want 0 for neutral text", len(flags))
	}
}

func TestCheckBelowSimilarityThreshold(t *testing.T) {
	f := NewFlagger(stubScorer{}, fixedSimilarity(0.7))

	// Exactly at the threshold is not strictly above it.
	flags, err := f.Check(context.Background(), "card readers are terrible", testFacts)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(flags) != 0 {
		t.Errorf("len(flags) = %d, want 0 at threshold", len(flags))
	}
}

func TestCheckMultipleFactsFlagIndependently(t *testing.T) {
	f := NewFlagger(stubScorer{}, fixedSimilarity(0.8))

	facts := []types.VerifiedFact{
		{Statement: "fares are great value", Source: "a"},
		{Statement: "service coverage is great", Source: "b"},
	}
	flags, err := f.Check(context.Background(), "everything is terrible", facts)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(flags) != 2 {
		t.Errorf("len(flags) = %d, want one flag per contradicted fact", len(flags))
	}
}

type failingSimilarity struct{}

func (failingSimilarity) Similarity(_ context.Context, _, _ string) (float64, error) {
	return 0, errors.New("embedder offline")
}

func TestCheckPropagatesBoundaryErrors(t *testing.T) {
	f := NewFlagger(stubScorer{}, failingSimilarity{})

	if _, err := f.Check(context.Background(), "text", testFacts); err == nil {
		t.Fatal("Check() expected error from failing similarity boundary")
	}
}
