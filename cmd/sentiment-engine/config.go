// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/sentiment-engine/internal/inference"
	"github.com/pdiddy/sentiment-engine/internal/lang"
	"github.com/pdiddy/sentiment-engine/internal/misinfo"
	"github.com/pdiddy/sentiment-engine/internal/pipeline"
	"github.com/pdiddy/sentiment-engine/internal/sentiment"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// loadConfig assembles the pipeline configuration from the config file,
// environment, and loaded secrets.
func loadConfig() types.PipelineConfig {
	viper.SetDefault("sentiment_provider", string(types.ProviderInference))
	viper.SetDefault("inference.base_url", "http://localhost:8081")
	viper.SetDefault("inference.timeout", "30s")
	viper.SetDefault("inference.max_retries", 3)
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.max_retries", 3)
	viper.SetDefault("topics.max_topics", 5)
	viper.SetDefault("topics.top_terms", 10)
	viper.SetDefault("topics.max_features", 1000)
	viper.SetDefault("topics.max_doc_freq", 0.95)
	viper.SetDefault("topics.min_doc_freq", 1)
	viper.SetDefault("topics.seed", 42)
	viper.SetDefault("trends.window_days", 7)
	viper.SetDefault("trends.concern_threshold", 2.0)
	viper.SetDefault("trends.spike_threshold", 3.0)
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("server.host", "")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	cfg := types.PipelineConfig{
		Provider: types.SentimentProvider(viper.GetString("sentiment_provider")),
		Inference: types.InferenceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("inference.timeout"),
				UserAgent: fmt.Sprintf("sentiment-engine/%s", version),
			},
			BaseURL:    viper.GetString("inference.base_url"),
			APIKey:     secretDefault("inference-api-key", viper.GetString("inference.api_key")),
			MaxRetries: viper.GetInt("inference.max_retries"),
		},
		OpenAI: types.AIConfig{
			Model:      viper.GetString("openai.model"),
			APIKey:     secretDefault("openai-api-key", viper.GetString("openai.api_key")),
			MaxRetries: viper.GetInt("openai.max_retries"),
		},
		Topics: types.TopicsConfig{
			MaxTopics:   viper.GetInt("topics.max_topics"),
			TopTerms:    viper.GetInt("topics.top_terms"),
			MaxFeatures: viper.GetInt("topics.max_features"),
			MaxDocFreq:  viper.GetFloat64("topics.max_doc_freq"),
			MinDocFreq:  viper.GetInt("topics.min_doc_freq"),
			Seed:        viper.GetInt64("topics.seed"),
		},
		Trends: types.TrendsConfig{
			WindowDays:       viper.GetInt("trends.window_days"),
			ConcernThreshold: viper.GetFloat64("trends.concern_threshold"),
			SpikeThreshold:   viper.GetFloat64("trends.spike_threshold"),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
		Server: types.ServerConfig{
			Host:            viper.GetString("server.host"),
			Port:            viper.GetInt("server.port"),
			CORSOrigins:     viper.GetStringSlice("server.cors_origins"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
	}
	return cfg
}

// buildPipeline wires the analysis pipeline for the configured sentiment
// provider. The inference provider also supplies entity extraction and
// the semantic similarity used for misinformation flagging; the OpenAI
// provider scores sentiment only.
func buildPipeline(cfg types.PipelineConfig) (*pipeline.Pipeline, error) {
	english, err := lang.NewEnglish()
	if err != nil {
		return nil, fmt.Errorf("loading English lemmatizer: %w", err)
	}
	detector := lang.NewDetector(english, lang.NewFrench())

	var (
		scorer   sentiment.Scorer
		entities pipeline.EntityExtractor
		flagger  *misinfo.Flagger
	)
	switch cfg.Provider {
	case types.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured (add .secrets/openai-api-key)")
		}
		scorer = sentiment.NewOpenAIScorer(cfg.OpenAI)
	case types.ProviderInference, "":
		client := inference.NewClient(cfg.Inference)
		scorer = client
		entities = client
		flagger = misinfo.NewFlagger(client, client)
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Provider)
	}

	return pipeline.New(detector, scorer, entities, flagger, cfg.Topics), nil
}

// trendsWindow converts the configured window to a duration, honoring a
// --window-days override when the flag was set.
func trendsWindow(days int, cfg types.TrendsConfig) time.Duration {
	if days <= 0 {
		days = cfg.WindowDays
	}
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}
