// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lang

import "github.com/pdiddy/sentiment-engine/pkg/types"

// French handles French text: stopword removal only. No stemming or
// lemmatization is applied to French tokens.
type French struct{}

// NewFrench creates the French handler.
func NewFrench() *French { return &French{} }

// Code implements Handler.
func (f *French) Code() types.Language { return types.LangFrench }

// Stopwords implements Handler.
func (f *French) Stopwords() map[string]struct{} { return frenchStopwords }

// FilterTokens drops stopwords and keeps surviving tokens unchanged.
func (f *French) FilterTokens(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := frenchStopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}
