// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sentiment-engine/internal/store"
	"github.com/pdiddy/sentiment-engine/internal/trends"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate ranked policy recommendations",
	Long: `Recommend aggregates the stored corpus (top topics, demographic and
geographic insights, overall sentiment, emerging concerns) and turns it
into a ranked list of recommendations, highest priority first.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	windowDays, _ := cmd.Flags().GetInt("window-days")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	topTopics, err := st.TopTopics(ctx, 5)
	if err != nil {
		return err
	}
	records, err := st.Records(ctx, time.Time{})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records stored.")
		return nil
	}

	results := types.AggregateResults{
		TopConcerns:         topTopics,
		DemographicInsights: trends.DemographicInsights(records),
		GeographicInsights:  trends.GeographicInsights(records),
		OverallSentiment:    stats.OverallSentiment,
		EmergingConcerns: trends.EmergingConcerns(records, trends.ConcernOptions{
			Window:    trendsWindow(windowDays, cfg.Trends),
			Threshold: cfg.Trends.ConcernThreshold,
		}),
	}
	recs := trends.Recommend(results)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No recommendations.")
		return nil
	}
	for i, rec := range recs {
		fmt.Printf("%d. [%s] %s (%s)\n   %s\n", i+1, rec.Priority, rec.Text, rec.Category, rec.Rationale)
	}
	return nil
}

func init() {
	recommendCmd.Flags().Int("window-days", 0, "concern detection window in days (0 = config default)")
	recommendCmd.Flags().Bool("json", false, "output recommendations as JSON")

	rootCmd.AddCommand(recommendCmd)
}
