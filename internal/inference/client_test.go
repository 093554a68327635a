package inference

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(types.InferenceConfig{BaseURL: ts.URL, MaxRetries: 1})
}

func TestScore(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sentiment" {
			t.Errorf("path = %q, want /sentiment", r.URL.Path)
		}
		var req sentimentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "fare increase terrible" {
			t.Errorf("text = %q", req.Text)
		}
		json.NewEncoder(w).Encode(sentimentResponse{Sentiment: "negative", Score: -0.91, Confidence: 0.91})
	})

	got, err := c.Score(context.Background(), "fare increase terrible")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if got.Class != types.SentimentNegative {
		t.Errorf("Class = %q, want negative", got.Class)
	}
	if got.Score >= 0 {
		t.Errorf("Score = %f, want negative", got.Score)
	}
	if math.Abs(got.Confidence-0.91) > 1e-9 {
		t.Errorf("Confidence = %f, want 0.91", got.Confidence)
	}
}

func TestScoreCoercesSign(t *testing.T) {
	// A service responding with a mismatched sign is coerced into
	// contract shape rather than propagated as-is.
	c := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(sentimentResponse{Sentiment: "negative", Score: 0.8, Confidence: 0.8})
	})

	got, err := c.Score(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if got.Score != -0.8 {
		t.Errorf("Score = %f, want -0.8", got.Score)
	}
}

func TestScoreEmptyInputSkipsNetwork(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected network call for empty input")
	})

	for _, text := range []string{"", "   ", "\t\n"} {
		got, err := c.Score(context.Background(), text)
		if err != nil {
			t.Fatalf("Score(%q) error: %v", text, err)
		}
		if got.Class != types.SentimentNeutral || got.Score != 0.0 || got.Confidence != 0.0 {
			t.Errorf("Score(%q) = %+v, want neutral no-signal result", text, got)
		}
	}
}

func TestScoreServiceError(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	if _, err := c.Score(context.Background(), "text"); err == nil {
		t.Fatal("Score() expected error on 500 response")
	}
}

func TestExtract(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entities" {
			t.Errorf("path = %q, want /entities", r.URL.Path)
		}
		var req entitiesRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Language != "fr" {
			t.Errorf("language = %q, want fr", req.Language)
		}
		json.NewEncoder(w).Encode(entitiesResponse{Entities: []types.Entity{
			{Text: "Kigali", Label: "LOC"},
		}})
	})

	got, err := c.Extract(context.Background(), "Les bus de Kigali", types.LangFrench)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "Kigali" || got[0].Label != "LOC" {
		t.Errorf("Extract() = %+v", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected network call for empty input")
	})

	got, err := c.Extract(context.Background(), "  ", types.LangEnglish)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Extract() = %+v, want none", got)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		respond float64
		want    float64
	}{
		{"in range", 0.83, 0.83},
		{"clamped high", 1.2, 1.0},
		{"clamped low", -0.1, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/similarity" {
					t.Errorf("path = %q, want /similarity", r.URL.Path)
				}
				json.NewEncoder(w).Encode(similarityResponse{Similarity: tt.respond})
			})

			got, err := c.Similarity(context.Background(), "a", "b")
			if err != nil {
				t.Fatalf("Similarity() error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	c := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}

	unhealthy := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := unhealthy.Health(context.Background()); err == nil {
		t.Error("Health() expected error for 503")
	}
}

func TestAuthorizationHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
		json.NewEncoder(w).Encode(sentimentResponse{Sentiment: "neutral", Score: 0, Confidence: 0.5})
	}))
	defer ts.Close()

	c := NewClient(types.InferenceConfig{BaseURL: ts.URL, APIKey: "sk-test"})
	if _, err := c.Score(context.Background(), "text"); err != nil {
		t.Fatalf("Score() error: %v", err)
	}
}
