// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Concern describes a topic whose sentiment has declined significantly
// within the detection window. Ephemeral: recomputed on every detector run.
type Concern struct {
	Topic          string  `json:"topic" yaml:"topic"`
	SentimentStart float64 `json:"sentiment_start" yaml:"sentiment_start"`
	SentimentEnd   float64 `json:"sentiment_end" yaml:"sentiment_end"`
	Change         float64 `json:"change" yaml:"change"`
	MessageVolume  int     `json:"message_volume" yaml:"message_volume"`
	Confidence     float64 `json:"confidence" yaml:"confidence"`
}

// Spike describes an hour whose mean sentiment dropped far below the
// baseline established earlier in the detection window.
type Spike struct {
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	SentimentValue float64   `json:"sentiment_value" yaml:"sentiment_value"`
	BaselineMean   float64   `json:"baseline_mean" yaml:"baseline_mean"`
	Deviation      float64   `json:"deviation" yaml:"deviation"`
	MessageCount   int       `json:"message_count" yaml:"message_count"`
	Confidence     float64   `json:"confidence" yaml:"confidence"`
}

// TopicCount is a topic with its mention count within a group.
type TopicCount struct {
	Topic string `json:"topic" yaml:"topic"`
	Count int    `json:"count" yaml:"count"`
}

// DemographicInsight compares one demographic group's sentiment against the
// overall corpus mean.
type DemographicInsight struct {
	Demographic           string       `json:"demographic" yaml:"demographic"`
	SentimentMean         float64      `json:"sentiment_mean" yaml:"sentiment_mean"`
	SampleSize            int          `json:"sample_size" yaml:"sample_size"`
	DifferenceFromOverall float64      `json:"difference_from_overall" yaml:"difference_from_overall"`
	InsightText           string       `json:"insight_text" yaml:"insight_text"`
	TopTopics             []TopicCount `json:"top_topics,omitempty" yaml:"top_topics,omitempty"`
}

// GeoInsight compares one province's sentiment against the overall corpus
// mean. Records with an unknown province never produce insights.
type GeoInsight struct {
	Province              string       `json:"province" yaml:"province"`
	SentimentMean         float64      `json:"sentiment_mean" yaml:"sentiment_mean"`
	SampleSize            int          `json:"sample_size" yaml:"sample_size"`
	DifferenceFromOverall float64      `json:"difference_from_overall" yaml:"difference_from_overall"`
	InsightText           string       `json:"insight_text" yaml:"insight_text"`
	TopTopics             []TopicCount `json:"top_topics,omitempty" yaml:"top_topics,omitempty"`
}

// TopicSummary aggregates one topic's volume and mean sentiment. Used as
// the "top concern" input to the recommendation ranker.
type TopicSummary struct {
	Name      string  `json:"name" yaml:"name"`
	Count     int     `json:"count" yaml:"count"`
	Sentiment float64 `json:"sentiment" yaml:"sentiment"`
}

// AggregateResults bundles the analytics outputs consumed by the
// recommendation ranker.
type AggregateResults struct {
	TopConcerns         []TopicSummary       `json:"top_concerns" yaml:"top_concerns"`
	DemographicInsights []DemographicInsight `json:"demographic_insights" yaml:"demographic_insights"`
	GeographicInsights  []GeoInsight         `json:"geographic_insights" yaml:"geographic_insights"`
	OverallSentiment    float64              `json:"overall_sentiment" yaml:"overall_sentiment"`
	EmergingConcerns    []Concern            `json:"emerging_concerns" yaml:"emerging_concerns"`
}

// RecommendationCategory classifies a recommendation.
type RecommendationCategory string

const (
	CategoryAddressConcern       RecommendationCategory = "address_concern"
	CategoryDemographicTargeting RecommendationCategory = "demographic_targeting"
	CategoryGeographicTargeting  RecommendationCategory = "geographic_targeting"
	CategoryCommunication        RecommendationCategory = "communication"
	CategoryMonitoring           RecommendationCategory = "monitoring"
)

// Priority orders recommendations: high before medium before low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of a priority; unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is one ranked, human-readable policy recommendation.
type Recommendation struct {
	Category  RecommendationCategory `json:"category" yaml:"category"`
	Priority  Priority               `json:"priority" yaml:"priority"`
	Text      string                 `json:"text" yaml:"text"`
	Rationale string                 `json:"rationale" yaml:"rationale"`
}
