// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sentiment-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// InferenceConfig holds settings for the external ML inference service that
// provides sentiment scoring, entity extraction, and semantic similarity.
type InferenceConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root URL of the inference service (e.g. "http://localhost:8081").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional bearer token for the service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds settings for scorers backed by a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SentimentProvider selects which scorer implementation backs the pipeline.
type SentimentProvider string

const (
	ProviderInference SentimentProvider = "inference"
	ProviderOpenAI    SentimentProvider = "openai"
)

// TopicsConfig holds settings for corpus-level topic extraction.
type TopicsConfig struct {
	// MaxTopics is the requested upper bound on topic count (default 5).
	MaxTopics int `json:"max_topics" yaml:"max_topics"`

	// TopTerms is the number of top terms reported per topic (default 10).
	TopTerms int `json:"top_terms" yaml:"top_terms"`

	// MaxFeatures caps the TF-IDF vocabulary size (default 1000).
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// MaxDocFreq drops terms appearing in more than this fraction of
	// documents (default 0.95).
	MaxDocFreq float64 `json:"max_doc_freq" yaml:"max_doc_freq"`

	// MinDocFreq drops terms appearing in fewer than this many documents
	// (default 1).
	MinDocFreq int `json:"min_doc_freq" yaml:"min_doc_freq"`

	// Seed fixes the clustering and factorization RNG for reproducible
	// topic runs (default 42).
	Seed int64 `json:"seed" yaml:"seed"`
}

// TrendsConfig holds default settings for the trend and anomaly detectors.
type TrendsConfig struct {
	// WindowDays is the recency window in days (default 7).
	WindowDays int `json:"window_days" yaml:"window_days"`

	// ConcernThreshold is the stddev multiplier for emerging-concern
	// detection (default 2.0).
	ConcernThreshold float64 `json:"concern_threshold" yaml:"concern_threshold"`

	// SpikeThreshold is the stddev multiplier for spike detection (default 3.0).
	SpikeThreshold float64 `json:"spike_threshold" yaml:"spike_threshold"`
}

// StoreConfig holds settings for the analytics store.
type StoreConfig struct {
	// DataDir is the directory containing the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ServerConfig holds settings for the dashboard HTTP API.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// CORSOrigins lists allowed CORS origins for the dashboard frontend.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// PipelineConfig groups all stage configurations for the engine.
type PipelineConfig struct {
	Provider  SentimentProvider `json:"sentiment_provider" yaml:"sentiment_provider"`
	Inference InferenceConfig   `json:"inference" yaml:"inference"`
	OpenAI    AIConfig          `json:"openai" yaml:"openai"`
	Topics    TopicsConfig      `json:"topics" yaml:"topics"`
	Trends    TrendsConfig      `json:"trends" yaml:"trends"`
	Store     StoreConfig       `json:"store" yaml:"store"`
	Server    ServerConfig      `json:"server" yaml:"server"`
}
