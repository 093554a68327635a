// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-text analysis stages over a batch of
// feedback texts: language detection, normalization, sentiment scoring,
// entity extraction, misinformation flagging, and corpus-level topic
// extraction.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/sentiment-engine/internal/lang"
	"github.com/pdiddy/sentiment-engine/internal/misinfo"
	"github.com/pdiddy/sentiment-engine/internal/sentiment"
	"github.com/pdiddy/sentiment-engine/internal/topics"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// minTopicCorpus is the smallest batch that gets topic extraction.
// Smaller batches leave Document.Topic nil.
const minTopicCorpus = 6

// EntityExtractor extracts named entities from raw text.
type EntityExtractor interface {
	Extract(ctx context.Context, text string, language types.Language) ([]types.Entity, error)
}

// Pipeline wires the analysis stages together. Entities and Flagger are
// optional; nil disables the stage.
type Pipeline struct {
	detector *lang.Detector
	scorer   sentiment.Scorer
	entities EntityExtractor
	flagger  *misinfo.Flagger
	topics   types.TopicsConfig
}

// New builds a pipeline. Detector and scorer are required.
func New(detector *lang.Detector, scorer sentiment.Scorer, entities EntityExtractor, flagger *misinfo.Flagger, topicsCfg types.TopicsConfig) *Pipeline {
	return &Pipeline{
		detector: detector,
		scorer:   scorer,
		entities: entities,
		flagger:  flagger,
		topics:   topicsCfg,
	}
}

// BatchResult holds the analyzed documents and batch statistics.
type BatchResult struct {
	// Documents are the per-text results, in input order.
	Documents []types.Document `json:"documents" yaml:"documents"`

	// Topics are the corpus topics, present only when the batch was large
	// enough for extraction.
	Topics []types.Topic `json:"topics,omitempty" yaml:"topics,omitempty"`

	// Analyzed counts texts that completed every enabled stage.
	Analyzed int `json:"analyzed" yaml:"analyzed"`

	// Failed counts texts where a stage errored. Failed documents keep
	// their detection and normalization results with neutral sentiment.
	Failed int `json:"failed" yaml:"failed"`

	// Errors lists one message per failed stage invocation.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Analyze runs the pipeline over texts. Facts enable misinformation
// flagging when a flagger is configured. Documents come back in input
// order. Stage errors on individual texts are reported as warnings on w
// and counted, not returned; only an empty batch or a cancelled context
// fails the whole run.
func (p *Pipeline) Analyze(ctx context.Context, texts []string, facts []types.VerifiedFact, w io.Writer) (BatchResult, error) {
	if len(texts) == 0 {
		return BatchResult{}, fmt.Errorf("no texts to analyze")
	}

	result := BatchResult{Documents: make([]types.Document, len(texts))}
	normalized := make([]string, len(texts))

	fmt.Fprintf(w, "Analyzing %d texts...\n", len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return BatchResult{}, fmt.Errorf("analyzing batch: %w", err)
		}

		code := p.detector.Detect(text)
		handler := p.detector.Handler(code)
		norm := lang.Normalize(text, handler)
		normalized[i] = norm

		doc := types.Document{
			Text:       text,
			Language:   code,
			Normalized: norm,
			Sentiment:  sentiment.Neutral(),
		}

		failed := false
		score, err := p.scorer.Score(ctx, norm)
		if err != nil {
			failed = true
			result.Errors = append(result.Errors, fmt.Sprintf("text %d: scoring: %v", i, err))
			fmt.Fprintf(w, "warning: text %d: scoring failed: %v\n", i, err)
		} else {
			doc.Sentiment = score
		}

		if p.entities != nil && !failed {
			entities, err := p.entities.Extract(ctx, text, code)
			if err != nil {
				failed = true
				result.Errors = append(result.Errors, fmt.Sprintf("text %d: entities: %v", i, err))
				fmt.Fprintf(w, "warning: text %d: entity extraction failed: %v\n", i, err)
			} else {
				doc.Entities = entities
			}
		}

		if p.flagger != nil && len(facts) > 0 && !failed {
			flags, err := p.flagger.Check(ctx, text, facts)
			if err != nil {
				failed = true
				result.Errors = append(result.Errors, fmt.Sprintf("text %d: misinformation: %v", i, err))
				fmt.Fprintf(w, "warning: text %d: misinformation check failed: %v\n", i, err)
			} else {
				doc.Misinformation = flags
			}
		}

		if failed {
			result.Failed++
		} else {
			result.Analyzed++
		}
		result.Documents[i] = doc
	}

	if len(texts) >= minTopicCorpus {
		model := topics.Extract(normalized, p.topics)
		result.Topics = model.Topics
		for i, tid := range model.DocTopics {
			result.Documents[i].Topic = &types.TopicAssignment{
				ID:    tid,
				Label: model.Topics[tid].Label,
			}
		}
	}

	fmt.Fprintf(w, "Analyzed %d texts (%d failed)\n", result.Analyzed, result.Failed)
	return result, nil
}

// Records converts analyzed documents into scored records timestamped at
// ts, ready for the analytics store. Source tags every record.
func Records(docs []types.Document, ts time.Time, source string) []types.ScoredRecord {
	records := make([]types.ScoredRecord, len(docs))
	for i, doc := range docs {
		rec := types.ScoredRecord{
			Timestamp: ts,
			Score:     doc.Sentiment.Score,
			Source:    source,
		}
		if doc.Topic != nil {
			rec.Topic = doc.Topic.Label
		}
		records[i] = rec
	}
	return records
}

// FormatSummary writes a human-readable batch summary to w.
func FormatSummary(result BatchResult, w io.Writer) {
	fmt.Fprintf(w, "Documents: %d analyzed, %d failed\n", result.Analyzed, result.Failed)

	byClass := make(map[types.SentimentClass]int)
	byLang := make(map[types.Language]int)
	for _, doc := range result.Documents {
		byClass[doc.Sentiment.Class]++
		byLang[doc.Language]++
	}
	fmt.Fprintf(w, "Sentiment: %d positive, %d neutral, %d negative\n",
		byClass[types.SentimentPositive], byClass[types.SentimentNeutral], byClass[types.SentimentNegative])

	langs := make([]string, 0, len(byLang))
	for code := range byLang {
		langs = append(langs, string(code))
	}
	sort.Strings(langs)
	for _, code := range langs {
		fmt.Fprintf(w, "Language %s: %d\n", code, byLang[types.Language(code)])
	}

	if len(result.Topics) > 0 {
		fmt.Fprintf(w, "Topics (%d):\n", len(result.Topics))
		for _, topic := range result.Topics {
			fmt.Fprintf(w, "  %d: %s\n", topic.ID, topic.Label)
		}
	}

	flagged := 0
	for _, doc := range result.Documents {
		if len(doc.Misinformation) > 0 {
			flagged++
		}
	}
	if flagged > 0 {
		fmt.Fprintf(w, "Potential misinformation: %d documents\n", flagged)
	}
}

// FormatJSON writes the batch result as indented JSON to w.
func FormatJSON(result BatchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
