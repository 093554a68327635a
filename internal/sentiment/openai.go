// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

const defaultOpenAIModel = "gpt-4o-mini"

const scoreSystemPrompt = "You are a sentiment classification model for citizen feedback. " +
	"For the given text, respond with ONLY a JSON object of class probabilities summing to 1, " +
	`shaped exactly like {"negative": 0.1, "neutral": 0.2, "positive": 0.7}.`

// OpenAIScorer scores sentiment through the OpenAI chat completions API.
// The model is asked for a class probability triple, which is converted to
// contract shape by FromProbabilities.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer creates a scorer backed by the OpenAI API.
func NewOpenAIScorer(cfg types.AIConfig) *OpenAIScorer {
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIScorer{client: &client, model: model}
}

type probabilityTriple struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Score implements Scorer. Empty input returns the neutral no-signal
// result without calling the API.
func (s *OpenAIScorer) Score(ctx context.Context, text string) (types.SentimentResult, error) {
	if IsEmpty(text) {
		return Neutral(), nil
	}

	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(scoreSystemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(text),
					},
				},
			},
		},
		Temperature: openai.Float(0.0),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return types.SentimentResult{}, fmt.Errorf("no response from openai")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "` \n")

	var probs probabilityTriple
	if err := json.Unmarshal([]byte(content), &probs); err != nil {
		return types.SentimentResult{}, fmt.Errorf("failed to parse openai response %q: %w", content, err)
	}

	return FromProbabilities(probs.Negative, probs.Neutral, probs.Positive), nil
}
