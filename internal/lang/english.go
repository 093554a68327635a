// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lang

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// English handles English text: NLTK stopword removal followed by
// dictionary lemmatization of the surviving tokens.
type English struct {
	lemmatizer *golem.Lemmatizer
}

// NewEnglish loads the English lemmatization dictionary.
func NewEnglish() (*English, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading english lemmatizer: %w", err)
	}
	return &English{lemmatizer: lemmatizer}, nil
}

// Code implements Handler.
func (e *English) Code() types.Language { return types.LangEnglish }

// Stopwords implements Handler.
func (e *English) Stopwords() map[string]struct{} { return englishStopwords }

// FilterTokens drops stopwords and lemmatizes each remaining token to its
// dictionary base form.
func (e *English) FilterTokens(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := englishStopwords[tok]; stop {
			continue
		}
		kept = append(kept, e.lemmatizer.Lemma(tok))
	}
	return kept
}
