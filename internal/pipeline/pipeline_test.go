// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/sentiment-engine/internal/lang"
	"github.com/pdiddy/sentiment-engine/internal/misinfo"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// wordScorer scores by keyword so tests control polarity precisely.
type wordScorer struct{}

func (wordScorer) Score(_ context.Context, text string) (types.SentimentResult, error) {
	switch {
	case strings.Contains(text, "great"):
		return types.SentimentResult{Class: types.SentimentPositive, Score: 0.9, Confidence: 0.9}, nil
	case strings.Contains(text, "terrible"):
		return types.SentimentResult{Class: types.SentimentNegative, Score: -0.9, Confidence: 0.9}, nil
	}
	return types.SentimentResult{Class: types.SentimentNeutral, Score: 0, Confidence: 0.5}, nil
}

type failingScorer struct{}

func (failingScorer) Score(_ context.Context, _ string) (types.SentimentResult, error) {
	return types.SentimentResult{}, fmt.Errorf("model offline")
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, text string, _ types.Language) ([]types.Entity, error) {
	if strings.Contains(text, "Metro") {
		return []types.Entity{{Text: "Metro", Label: "ORG"}}, nil
	}
	return nil, nil
}

type fixedSimilarity float64

func (s fixedSimilarity) Similarity(_ context.Context, _, _ string) (float64, error) {
	return float64(s), nil
}

func newTestDetector(t *testing.T) *lang.Detector {
	t.Helper()
	english, err := lang.NewEnglish()
	if err != nil {
		t.Fatalf("NewEnglish: %v", err)
	}
	return lang.NewDetector(english, lang.NewFrench())
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	p := New(newTestDetector(t), wordScorer{}, nil, nil, types.TopicsConfig{})
	if _, err := p.Analyze(context.Background(), nil, nil, &bytes.Buffer{}); err == nil {
		t.Fatal("empty batch did not error")
	}
}

func TestAnalyzeSmallBatch(t *testing.T) {
	p := New(newTestDetector(t), wordScorer{}, stubExtractor{}, nil, types.TopicsConfig{})

	texts := []string{
		"The Metro service is great!",
		"Je ne comprends pas comment les tarifs sont calculés",
	}
	var buf bytes.Buffer
	result, err := p.Analyze(context.Background(), texts, nil, &buf)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Analyzed != 2 || result.Failed != 0 {
		t.Fatalf("analyzed=%d failed=%d, want 2/0", result.Analyzed, result.Failed)
	}
	if len(result.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(result.Documents))
	}

	en := result.Documents[0]
	if en.Language != types.LangEnglish {
		t.Errorf("doc 0 language = %s, want en", en.Language)
	}
	if en.Text != texts[0] {
		t.Errorf("doc 0 text = %q, input order not preserved", en.Text)
	}
	if en.Sentiment.Class != types.SentimentPositive {
		t.Errorf("doc 0 sentiment = %s, want positive", en.Sentiment.Class)
	}
	if len(en.Entities) != 1 || en.Entities[0].Text != "Metro" {
		t.Errorf("doc 0 entities = %+v", en.Entities)
	}

	fr := result.Documents[1]
	if fr.Language != types.LangFrench {
		t.Errorf("doc 1 language = %s, want fr", fr.Language)
	}

	// Five or fewer texts never get topics.
	if result.Topics != nil {
		t.Errorf("small batch got topics: %+v", result.Topics)
	}
	for i, doc := range result.Documents {
		if doc.Topic != nil {
			t.Errorf("doc %d got topic assignment: %+v", i, doc.Topic)
		}
	}
}

func TestAnalyzeTopicsOnLargeBatch(t *testing.T) {
	p := New(newTestDetector(t), wordScorer{}, nil, nil, types.TopicsConfig{})

	texts := []string{
		"bus late again delays everywhere",
		"bus delays schedule broken",
		"late bus delays",
		"fare increase ticket expensive",
		"ticket fare price increase",
		"fare ticket increase price",
	}
	var buf bytes.Buffer
	result, err := p.Analyze(context.Background(), texts, nil, &buf)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Topics) == 0 {
		t.Fatal("large batch got no topics")
	}
	for i, doc := range result.Documents {
		if doc.Topic == nil {
			t.Fatalf("doc %d missing topic assignment", i)
		}
		if doc.Topic.ID < 0 || doc.Topic.ID >= len(result.Topics) {
			t.Errorf("doc %d topic id %d out of range", i, doc.Topic.ID)
		}
		if doc.Topic.Label != result.Topics[doc.Topic.ID].Label {
			t.Errorf("doc %d label %q does not match topic %d", i, doc.Topic.Label, doc.Topic.ID)
		}
	}
}

func TestAnalyzeMisinformation(t *testing.T) {
	flagger := misinfo.NewFlagger(wordScorer{}, fixedSimilarity(0.9))
	p := New(newTestDetector(t), wordScorer{}, nil, flagger, types.TopicsConfig{})

	facts := []types.VerifiedFact{{Statement: "The new schedule is great for riders", Source: "official"}}
	result, err := p.Analyze(context.Background(), []string{"The new schedule is terrible"}, facts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	flags := result.Documents[0].Misinformation
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	if flags[0].ContradictedFact != facts[0].Statement {
		t.Errorf("contradicted fact = %q", flags[0].ContradictedFact)
	}
}

func TestAnalyzeScorerFailure(t *testing.T) {
	p := New(newTestDetector(t), failingScorer{}, nil, nil, types.TopicsConfig{})

	var buf bytes.Buffer
	result, err := p.Analyze(context.Background(), []string{"the bus is late"}, nil, &buf)
	if err != nil {
		t.Fatalf("Analyze returned error for per-text failure: %v", err)
	}
	if result.Failed != 1 || result.Analyzed != 0 {
		t.Errorf("analyzed=%d failed=%d, want 0/1", result.Analyzed, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v", result.Errors)
	}
	doc := result.Documents[0]
	if doc.Sentiment.Class != types.SentimentNeutral || doc.Sentiment.Score != 0 {
		t.Errorf("failed doc sentiment = %+v, want neutral", doc.Sentiment)
	}
	if doc.Normalized == "" {
		t.Error("failed doc lost its normalization")
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("no warning written: %q", buf.String())
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	p := New(newTestDetector(t), wordScorer{}, nil, nil, types.TopicsConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Analyze(ctx, []string{"the bus is late"}, nil, &bytes.Buffer{}); err == nil {
		t.Fatal("cancelled context did not error")
	}
}

func TestRecords(t *testing.T) {
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	docs := []types.Document{
		{Sentiment: types.SentimentResult{Score: 0.9}, Topic: &types.TopicAssignment{ID: 0, Label: "bus delays"}},
		{Sentiment: types.SentimentResult{Score: -0.4}},
	}
	records := Records(docs, ts, "survey")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Topic != "bus delays" || records[0].Score != 0.9 {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Topic != "" {
		t.Errorf("record 1 topic = %q, want empty", records[1].Topic)
	}
	for _, rec := range records {
		if !rec.Timestamp.Equal(ts) || rec.Source != "survey" {
			t.Errorf("record = %+v", rec)
		}
	}
}

func TestFormatSummary(t *testing.T) {
	result := BatchResult{
		Documents: []types.Document{
			{Language: types.LangEnglish, Sentiment: types.SentimentResult{Class: types.SentimentPositive}},
			{Language: types.LangFrench, Sentiment: types.SentimentResult{Class: types.SentimentNegative}},
		},
		Analyzed: 2,
	}
	var buf bytes.Buffer
	FormatSummary(result, &buf)
	out := buf.String()
	for _, want := range []string{"2 analyzed", "1 positive", "1 negative", "Language en: 1", "Language fr: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
