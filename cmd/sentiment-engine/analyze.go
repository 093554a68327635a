// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sentiment-engine/internal/pipeline"
	"github.com/pdiddy/sentiment-engine/internal/store"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of feedback texts",
	Long: `Analyze runs the full per-text pipeline over a batch of comments:
language detection, normalization, sentiment scoring, entity extraction,
and misinformation flagging against a file of verified facts. Batches of
more than five texts also get corpus-level topic extraction.

Input is a JSON array of strings or a newline-delimited text file;
use "-" to read from stdin.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	factsPath, _ := cmd.Flags().GetString("facts")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	source, _ := cmd.Flags().GetString("source")

	texts, err := readTexts(inputPath)
	if err != nil {
		return err
	}

	var facts []types.VerifiedFact
	if factsPath != "" {
		facts, err = readFacts(factsPath)
		if err != nil {
			return err
		}
	}

	cfg := loadConfig()
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.Analyze(context.Background(), texts, facts, os.Stderr)
	if err != nil {
		return err
	}

	if save {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		if _, err := st.SaveDocuments(context.Background(), result.Documents, time.Now(), source); err != nil {
			return fmt.Errorf("saving documents: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %d documents\n", len(result.Documents))
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if jsonOutput {
		return pipeline.FormatJSON(result, out)
	}
	pipeline.FormatSummary(result, out)
	return nil
}

// readTexts loads the input batch. A leading '[' means a JSON array of
// strings; anything else is treated as newline-delimited text.
func readTexts(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("input is empty")
	}

	if strings.HasPrefix(trimmed, "[") {
		var texts []string
		if err := json.Unmarshal([]byte(trimmed), &texts); err != nil {
			return nil, fmt.Errorf("parsing JSON input: %w", err)
		}
		return texts, nil
	}

	var texts []string
	for _, line := range strings.Split(trimmed, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, nil
}

// readFacts loads verified facts from a YAML file.
func readFacts(path string) ([]types.VerifiedFact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}
	var facts []types.VerifiedFact
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("parsing facts file: %w", err)
	}
	return facts, nil
}

func init() {
	analyzeCmd.Flags().String("input", "", "input file: JSON array or newline-delimited texts (- for stdin)")
	analyzeCmd.Flags().String("facts", "", "YAML file of verified facts for misinformation flagging")
	analyzeCmd.Flags().Bool("json", false, "output full results as JSON")
	analyzeCmd.Flags().String("output", "", "write output to a file instead of stdout")
	analyzeCmd.Flags().Bool("save", false, "persist analyzed documents to the store")
	analyzeCmd.Flags().String("source", "cli", "source tag for saved documents")

	rootCmd.AddCommand(analyzeCmd)
}
