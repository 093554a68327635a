// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lang

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`http\S+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	symbolPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Normalize cleans a raw text and reduces it to language-filtered tokens
// joined by single spaces. URLs, @-mentions, #-hashtags, and punctuation
// are stripped before lower-casing and tokenization; the handler removes
// stopwords and applies its token reduction. An all-stopword or empty
// input yields an empty string, which downstream stages treat as
// "neutral, no signal".
func Normalize(text string, h Handler) string {
	cleaned := urlPattern.ReplaceAllString(text, "")
	cleaned = mentionPattern.ReplaceAllString(cleaned, "")
	cleaned = hashtagPattern.ReplaceAllString(cleaned, "")
	cleaned = symbolPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(cleaned)

	tokens := wordPattern.FindAllString(cleaned, -1)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(h.FilterTokens(tokens), " ")
}
