// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Language identifies a supported analysis language.
type Language string

const (
	LangEnglish Language = "en"
	LangFrench  Language = "fr"
)

// SentimentClass is the discrete polarity assigned to a text.
type SentimentClass string

const (
	SentimentNegative SentimentClass = "negative"
	SentimentNeutral  SentimentClass = "neutral"
	SentimentPositive SentimentClass = "positive"
)

// Sign returns -1, 0, or +1 for negative, neutral, and positive.
func (c SentimentClass) Sign() int {
	switch c {
	case SentimentNegative:
		return -1
	case SentimentPositive:
		return 1
	default:
		return 0
	}
}

// SentimentResult holds the scored polarity of a text.
//
// Score is signed: its sign always matches Class and a neutral result is
// exactly 0.0. Confidence is the model's probability mass for the winning
// class, so for negative and positive results it equals |Score|, while for
// neutral results it is the raw neutral-class probability (not 0).
type SentimentResult struct {
	// Class is the discrete sentiment label.
	Class SentimentClass `json:"sentiment" yaml:"sentiment"`

	// Score is the signed polarity score in approximately [-1, 1].
	Score float64 `json:"score" yaml:"score"`

	// Confidence is the winning class's probability in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Entity is a named-entity span extracted from raw text.
type Entity struct {
	// Text is the surface form of the entity.
	Text string `json:"text" yaml:"text"`

	// Label is the open-ended entity type (e.g. "ORG", "LOC").
	Label string `json:"label" yaml:"label"`
}

// VerifiedFact is an externally supplied reference statement used for
// misinformation flagging. Immutable reference data.
type VerifiedFact struct {
	// Statement is the verified claim text.
	Statement string `json:"statement" yaml:"statement"`

	// Source labels where the statement was verified.
	Source string `json:"source" yaml:"source"`
}

// MisinformationFlag marks a document that is semantically close to a
// verified fact while carrying the opposite sentiment polarity.
type MisinformationFlag struct {
	// Text is the offending document text.
	Text string `json:"text" yaml:"text"`

	// ContradictedFact is the statement the text contradicts.
	ContradictedFact string `json:"contradicted_fact" yaml:"contradicted_fact"`

	// Similarity is the semantic similarity between text and fact in [0, 1].
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Confidence is the flag confidence (0.7 x similarity).
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Topic is a latent topic extracted from a corpus. IDs are 0-based and
// stable only within a single extraction run; topics are recomputed from
// scratch for every corpus.
type Topic struct {
	// ID is the corpus-local topic index.
	ID int `json:"id" yaml:"id"`

	// Terms lists the topic's top terms, most salient first.
	Terms []string `json:"words" yaml:"words"`

	// Label is the top three terms joined with spaces.
	Label string `json:"label" yaml:"label"`
}

// TopicAssignment is the dominant topic assigned to one document.
type TopicAssignment struct {
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// TopicModel is the output of corpus-level topic extraction: the topics
// plus a positional dominant-topic assignment for every input document.
type TopicModel struct {
	Topics []Topic `json:"topics" yaml:"topics"`

	// DocTopics[i] is the topic ID assigned to document i.
	DocTopics []int `json:"document_topics" yaml:"document_topics"`
}

// Document is the per-text analysis result produced by the batch pipeline.
// Immutable after construction except for Topic, which is back-filled once
// corpus-level topic extraction completes.
type Document struct {
	// Text is the original input text.
	Text string `json:"original_text" yaml:"original_text"`

	// Language is the detected language.
	Language Language `json:"language" yaml:"language"`

	// Normalized is the cleaned, tokenized, stopword-free text.
	Normalized string `json:"processed_text" yaml:"processed_text"`

	// Sentiment is the scored polarity of the normalized text.
	Sentiment SentimentResult `json:"sentiment" yaml:"sentiment"`

	// Entities lists named entities found in the raw text.
	Entities []Entity `json:"entities" yaml:"entities"`

	// Topic is the dominant topic, set after corpus extraction. Nil when
	// the corpus was too small for topic extraction.
	Topic *TopicAssignment `json:"topic,omitempty" yaml:"topic,omitempty"`

	// Misinformation lists flags raised against verified facts, one per
	// contradicted fact, without deduplication.
	Misinformation []MisinformationFlag `json:"potential_misinformation,omitempty" yaml:"potential_misinformation,omitempty"`
}
