// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference is an HTTP client for the external ML inference
// service. The service hosts the pretrained models the engine treats as
// opaque collaborators: the multilingual sentiment classifier, the
// per-language named-entity extractor, and the text-similarity embedder.
package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/sentiment-engine/internal/httputil"
	"github.com/pdiddy/sentiment-engine/internal/sentiment"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// ErrUnavailable indicates the inference service is unreachable.
var ErrUnavailable = errors.New("inference service unavailable")

const defaultTimeout = 30 * time.Second

// Client calls the inference service over JSON/HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
	httpClient *http.Client
}

// NewClient creates an inference client from config.
func NewClient(cfg types.InferenceConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) headers() map[string]string {
	h := map[string]string{}
	if c.apiKey != "" {
		h["Authorization"] = "Bearer " + c.apiKey
	}
	if c.userAgent != "" {
		h["User-Agent"] = c.userAgent
	}
	return h
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Score sends a normalized text to /sentiment. Empty input returns the
// neutral no-signal result without a network call. Responses are coerced
// into contract shape (score sign matches class, neutral scores 0).
func (c *Client) Score(ctx context.Context, text string) (types.SentimentResult, error) {
	if sentiment.IsEmpty(text) {
		return sentiment.Neutral(), nil
	}

	var resp sentimentResponse
	err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+"/sentiment", c.headers(),
		sentimentRequest{Text: text}, &resp, c.maxRetries)
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("scoring sentiment: %w", err)
	}

	return sentiment.Normalize(types.SentimentResult{
		Class:      types.SentimentClass(resp.Sentiment),
		Score:      resp.Score,
		Confidence: resp.Confidence,
	}), nil
}

type entitiesRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type entitiesResponse struct {
	Entities []types.Entity `json:"entities"`
}

// Extract sends raw text to /entities and returns the extracted spans.
// Empty input returns no entities without a network call.
func (c *Client) Extract(ctx context.Context, text string, language types.Language) ([]types.Entity, error) {
	if sentiment.IsEmpty(text) {
		return nil, nil
	}

	var resp entitiesResponse
	err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+"/entities", c.headers(),
		entitiesRequest{Text: text, Language: string(language)}, &resp, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("extracting entities: %w", err)
	}
	return resp.Entities, nil
}

type similarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// Similarity sends a text pair to /similarity and returns their semantic
// similarity in [0, 1]. Out-of-range service values are clamped.
func (c *Client) Similarity(ctx context.Context, a, b string) (float64, error) {
	var resp similarityResponse
	err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+"/similarity", c.headers(),
		similarityRequest{TextA: a, TextB: b}, &resp, c.maxRetries)
	if err != nil {
		return 0, fmt.Errorf("computing similarity: %w", err)
	}

	sim := resp.Similarity
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

// Health checks whether the inference service is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	for k, v := range c.headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
