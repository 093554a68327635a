// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sentiment-engine/internal/lang"
	"github.com/pdiddy/sentiment-engine/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Extract discussion topics from a corpus",
	Long: `Topics vectorizes a corpus with TF-IDF, picks the topic count by
silhouette analysis, and factorizes the corpus into topics with their
top terms. Input texts are normalized before vectorization.`,
	RunE: runTopics,
}

func runTopics(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	maxTopics, _ := cmd.Flags().GetInt("max-topics")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	texts, err := readTexts(inputPath)
	if err != nil {
		return err
	}

	cfg := loadConfig().Topics
	if maxTopics > 0 {
		cfg.MaxTopics = maxTopics
	}

	english, err := lang.NewEnglish()
	if err != nil {
		return fmt.Errorf("loading English lemmatizer: %w", err)
	}
	detector := lang.NewDetector(english, lang.NewFrench())

	corpus := make([]string, len(texts))
	for i, text := range texts {
		corpus[i] = lang.Normalize(text, detector.Handler(detector.Detect(text)))
	}

	model := topics.Extract(corpus, cfg)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(model)
	}

	fmt.Printf("Topics (%d):\n", len(model.Topics))
	for _, topic := range model.Topics {
		fmt.Printf("  %d: %s\n     %s\n", topic.ID, topic.Label, strings.Join(topic.Terms, ", "))
	}

	counts := make(map[int]int)
	for _, id := range model.DocTopics {
		counts[id]++
	}
	fmt.Println("Documents per topic:")
	for _, topic := range model.Topics {
		fmt.Printf("  %d: %d\n", topic.ID, counts[topic.ID])
	}
	return nil
}

func init() {
	topicsCmd.Flags().String("input", "", "input file: JSON array or newline-delimited texts (- for stdin)")
	topicsCmd.Flags().Int("max-topics", 0, "upper bound on topic count (0 = config default)")
	topicsCmd.Flags().Bool("json", false, "output the topic model as JSON")

	rootCmd.AddCommand(topicsCmd)
}
