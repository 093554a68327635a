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
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Detect emerging concerns and sentiment spikes",
	Long: `Trends runs the longitudinal detectors over the stored record history:
topics whose daily sentiment is declining significantly, and hours whose
sentiment dropped sharply below the baseline.`,
	RunE: runTrends,
}

func runTrends(cmd *cobra.Command, args []string) error {
	windowDays, _ := cmd.Flags().GetInt("window-days")
	concernThreshold, _ := cmd.Flags().GetFloat64("threshold")
	spikeThreshold, _ := cmd.Flags().GetFloat64("spike-threshold")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	storeAlerts, _ := cmd.Flags().GetBool("store-alerts")

	cfg := loadConfig()
	window := trendsWindow(windowDays, cfg.Trends)
	if concernThreshold <= 0 {
		concernThreshold = cfg.Trends.ConcernThreshold
	}
	if spikeThreshold <= 0 {
		spikeThreshold = cfg.Trends.SpikeThreshold
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	records, err := st.Records(ctx, time.Now().Add(-window))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records in the detection window.")
		return nil
	}

	concerns := trends.EmergingConcerns(records, trends.ConcernOptions{
		Window:    window,
		Threshold: concernThreshold,
	})
	spikes := trends.Spikes(records, trends.SpikeOptions{
		Window:    window,
		Threshold: spikeThreshold,
	})

	if storeAlerts && (len(concerns) > 0 || len(spikes) > 0) {
		n, err := st.SaveAlerts(ctx, concerns, spikes, time.Now())
		if err != nil {
			return fmt.Errorf("saving alerts: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %d alerts\n", n)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"emerging_concerns": concerns,
			"sentiment_spikes":  spikes,
		})
	}

	if len(concerns) == 0 {
		fmt.Println("No emerging concerns.")
	} else {
		fmt.Printf("Emerging concerns (%d):\n", len(concerns))
		for _, c := range concerns {
			fmt.Printf("  %-30s  %.2f -> %.2f  (%d messages, confidence %.2f)\n",
				c.Topic, c.SentimentStart, c.SentimentEnd, c.MessageVolume, c.Confidence)
		}
	}

	if len(spikes) == 0 {
		fmt.Println("No sentiment spikes.")
	} else {
		fmt.Printf("Sentiment spikes (%d):\n", len(spikes))
		for _, s := range spikes {
			fmt.Printf("  %s  %.2f (baseline %.2f, %d messages)\n",
				s.Timestamp.Format(time.RFC3339), s.SentimentValue, s.BaselineMean, s.MessageCount)
		}
	}
	return nil
}

func init() {
	trendsCmd.Flags().Int("window-days", 0, "detection window in days (0 = config default)")
	trendsCmd.Flags().Float64("threshold", 0, "stddev multiplier for concern detection (0 = config default)")
	trendsCmd.Flags().Float64("spike-threshold", 0, "stddev multiplier for spike detection (0 = config default)")
	trendsCmd.Flags().Bool("json", false, "output results as JSON")
	trendsCmd.Flags().Bool("store-alerts", false, "persist detector findings as alerts")

	rootCmd.AddCommand(trendsCmd)
}
