// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"fmt"
	"sort"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

const (
	concernSentimentCutoff = -0.3
	concernHighCutoff      = -0.5
	insightDiffCutoff      = -0.3
	overallSentimentCutoff = -0.2
	maxConcernRecs         = 3
)

// Recommend turns aggregated analytics into a ranked list of policy
// recommendations. The ordering is stable: high priority first, then
// medium, then low, with ties kept in generation order.
func Recommend(results types.AggregateResults) []types.Recommendation {
	var recs []types.Recommendation

	concerns := results.TopConcerns
	if len(concerns) > maxConcernRecs {
		concerns = concerns[:maxConcernRecs]
	}
	for _, c := range concerns {
		if c.Sentiment >= concernSentimentCutoff {
			continue
		}
		priority := types.PriorityMedium
		if c.Sentiment < concernHighCutoff {
			priority = types.PriorityHigh
		}
		recs = append(recs, types.Recommendation{
			Category: types.CategoryAddressConcern,
			Priority: priority,
			Text:     fmt.Sprintf("Address concerns about %s", c.Name),
			Rationale: fmt.Sprintf("%q has %d mentions with average sentiment %.2f",
				c.Name, c.Count, c.Sentiment),
		})
	}

	for _, ins := range results.DemographicInsights {
		if ins.DifferenceFromOverall >= insightDiffCutoff {
			continue
		}
		recs = append(recs, types.Recommendation{
			Category: types.CategoryDemographicTargeting,
			Priority: types.PriorityMedium,
			Text:     fmt.Sprintf("Develop targeted outreach for %s", ins.Demographic),
			Rationale: fmt.Sprintf("%s sentiment is %.2f points below the overall average",
				ins.Demographic, -ins.DifferenceFromOverall),
		})
	}

	for _, ins := range results.GeographicInsights {
		if ins.DifferenceFromOverall >= insightDiffCutoff {
			continue
		}
		recs = append(recs, types.Recommendation{
			Category: types.CategoryGeographicTargeting,
			Priority: types.PriorityMedium,
			Text:     fmt.Sprintf("Review service delivery in %s", ins.Province),
			Rationale: fmt.Sprintf("%s sentiment is %.2f points below the overall average",
				ins.Province, -ins.DifferenceFromOverall),
		})
	}

	if results.OverallSentiment < overallSentimentCutoff {
		recs = append(recs, types.Recommendation{
			Category: types.CategoryCommunication,
			Priority: types.PriorityHigh,
			Text:     "Launch a proactive communication campaign",
			Rationale: fmt.Sprintf("overall sentiment is negative (%.2f)",
				results.OverallSentiment),
		})
	}

	if len(results.EmergingConcerns) > 0 {
		topics := make([]string, len(results.EmergingConcerns))
		for i, c := range results.EmergingConcerns {
			topics[i] = c.Topic
		}
		recs = append(recs, types.Recommendation{
			Category:  types.CategoryMonitoring,
			Priority:  types.PriorityHigh,
			Text:      "Monitor emerging concerns closely",
			Rationale: fmt.Sprintf("declining sentiment detected for: %v", topics),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
