// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lang provides per-language text processing: stopword-overlap
// language detection and language-aware normalization. Each supported
// language is a Handler implementation; adding a language is a new Handler,
// not a new branch in the detector.
package lang

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// Handler provides the language-specific pieces of the pipeline.
type Handler interface {
	// Code returns the language label this handler implements.
	Code() types.Language

	// Stopwords returns the language's stopword set, lower-cased.
	Stopwords() map[string]struct{}

	// FilterTokens removes stopwords from lower-cased tokens and applies
	// any language-specific token reduction (e.g. lemmatization).
	FilterTokens(tokens []string) []string
}

// Detector chooses a language for a text by stopword overlap. Handler
// registration order is the tie-break: the first registered handler wins
// ties and is the default for texts with no stopword signal.
type Detector struct {
	handlers []Handler
}

// NewDetector creates a detector over the given handlers. The first
// handler is the default language.
func NewDetector(handlers ...Handler) *Detector {
	return &Detector{handlers: handlers}
}

// Handlers returns the registered handlers in registration order.
func (d *Detector) Handlers() []Handler {
	return d.handlers
}

// Handler returns the handler for a language code, or nil if unregistered.
func (d *Detector) Handler(code types.Language) Handler {
	for _, h := range d.handlers {
		if h.Code() == code {
			return h
		}
	}
	return nil
}

// Detect returns the language whose stopword set has the largest overlap
// with the text's distinct lower-cased words. Empty input, and any tie,
// resolves to the first registered handler. Detect never fails.
func (d *Detector) Detect(text string) types.Language {
	if len(d.handlers) == 0 {
		return types.LangEnglish
	}
	best := d.handlers[0].Code()
	if strings.TrimSpace(text) == "" {
		return best
	}

	words := distinctWords(text)
	bestCount := overlap(words, d.handlers[0].Stopwords())
	for _, h := range d.handlers[1:] {
		if n := overlap(words, h.Stopwords()); n > bestCount {
			best = h.Code()
			bestCount = n
		}
	}
	return best
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// distinctWords returns the set of distinct lower-cased words in text.
func distinctWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		words[w] = struct{}{}
	}
	return words
}

func overlap(words map[string]struct{}, stopwords map[string]struct{}) int {
	n := 0
	for w := range words {
		if _, ok := stopwords[w]; ok {
			n++
		}
	}
	return n
}
