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

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Compare sentiment across demographic and geographic groups",
	Long: `Insights groups the stored records by demographic and by province and
reports groups whose mean sentiment diverges from the overall average.
Groups with fewer than ten records are skipped.`,
	RunE: runInsights,
}

func runInsights(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Records(context.Background(), time.Time{})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records stored.")
		return nil
	}

	demographic := trends.DemographicInsights(records)
	geographic := trends.GeographicInsights(records)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"demographic_insights": demographic,
			"geographic_insights":  geographic,
		})
	}

	if len(demographic) == 0 {
		fmt.Println("No demographic insights.")
	} else {
		fmt.Printf("Demographic insights (%d):\n", len(demographic))
		for _, ins := range demographic {
			fmt.Printf("  %s (n=%d)\n", ins.InsightText, ins.SampleSize)
			for _, t := range ins.TopTopics {
				fmt.Printf("    %s: %d\n", t.Topic, t.Count)
			}
		}
	}

	if len(geographic) == 0 {
		fmt.Println("No geographic insights.")
	} else {
		fmt.Printf("Geographic insights (%d):\n", len(geographic))
		for _, ins := range geographic {
			fmt.Printf("  %s (n=%d)\n", ins.InsightText, ins.SampleSize)
			for _, t := range ins.TopTopics {
				fmt.Printf("    %s: %d\n", t.Topic, t.Count)
			}
		}
	}
	return nil
}

func init() {
	insightsCmd.Flags().Bool("json", false, "output insights as JSON")

	rootCmd.AddCommand(insightsCmd)
}
