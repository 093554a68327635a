// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// minGroupSize is the smallest group a demographic or geographic insight
// may be drawn from.
const minGroupSize = 10

const maxTopTopics = 3

// DemographicInsights compares each demographic group's mean sentiment to
// the overall mean. Groups with fewer than minGroupSize records are
// skipped. Results are sorted by sample size, largest first.
func DemographicInsights(records []types.ScoredRecord) []types.DemographicInsight {
	overall := overallMean(records)

	groups := make(map[string][]types.ScoredRecord)
	for _, rec := range records {
		g := rec.DemographicGroup()
		groups[g] = append(groups[g], rec)
	}

	var insights []types.DemographicInsight
	for name, members := range groups {
		if len(members) < minGroupSize {
			continue
		}
		mean := groupMean(members)
		diff := mean - overall
		insights = append(insights, types.DemographicInsight{
			Demographic:           name,
			SentimentMean:         mean,
			SampleSize:            len(members),
			DifferenceFromOverall: diff,
			InsightText:           insightText(name, "are", diff),
			TopTopics:             topTopics(members),
		})
	}
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].SampleSize != insights[j].SampleSize {
			return insights[i].SampleSize > insights[j].SampleSize
		}
		return insights[i].Demographic < insights[j].Demographic
	})
	return insights
}

// GeographicInsights compares each province's mean sentiment to the
// overall mean. Records without a known province are excluded, and
// provinces with fewer than minGroupSize records are skipped. Results are
// sorted by sample size, largest first.
func GeographicInsights(records []types.ScoredRecord) []types.GeoInsight {
	overall := overallMean(records)

	groups := make(map[string][]types.ScoredRecord)
	for _, rec := range records {
		p := rec.Province()
		if p == types.UnknownLocation {
			continue
		}
		groups[p] = append(groups[p], rec)
	}

	var insights []types.GeoInsight
	for name, members := range groups {
		if len(members) < minGroupSize {
			continue
		}
		mean := groupMean(members)
		diff := mean - overall
		insights = append(insights, types.GeoInsight{
			Province:              name,
			SentimentMean:         mean,
			SampleSize:            len(members),
			DifferenceFromOverall: diff,
			InsightText:           insightText(name, "is", diff),
			TopTopics:             topTopics(members),
		})
	}
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].SampleSize != insights[j].SampleSize {
			return insights[i].SampleSize > insights[j].SampleSize
		}
		return insights[i].Province < insights[j].Province
	})
	return insights
}

func insightText(name, verb string, diff float64) string {
	direction := "more positive"
	if diff < 0 {
		direction = "more negative"
	}
	return fmt.Sprintf("%s %s %.2f points %s than average", name, verb, math.Abs(diff), direction)
}

// topTopics returns the up-to-three most mentioned topics within a group.
func topTopics(members []types.ScoredRecord) []types.TopicCount {
	counts := make(map[string]int)
	for _, rec := range members {
		if rec.Topic != "" {
			counts[rec.Topic]++
		}
	}
	out := make([]types.TopicCount, 0, len(counts))
	for topic, count := range counts {
		out = append(out, types.TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > maxTopTopics {
		out = out[:maxTopTopics]
	}
	return out
}

func overallMean(records []types.ScoredRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return groupMean(records)
}

func groupMean(records []types.ScoredRecord) float64 {
	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Score
	}
	return stat.Mean(scores, nil)
}
