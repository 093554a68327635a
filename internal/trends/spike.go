// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// SpikeOptions tunes negative-spike detection. Zero values take the
// documented defaults.
type SpikeOptions struct {
	// Window is the recency window (default 7 days).
	Window time.Duration

	// Threshold is the stddev multiplier a drop must exceed (default 3.0).
	Threshold float64

	// Now anchors the recency window; zero means time.Now().
	Now time.Time
}

const (
	minBaselineHours = 3
	minSpikeCount    = 5
	baselineFraction = 0.8
)

// Spikes finds recent hours whose mean sentiment dropped more than
// Threshold standard deviations below the baseline. The baseline is the
// first 80% of hourly buckets in the window; only hours after the split
// are candidates, and a qualifying hour must carry more than five
// records. Results are sorted by confidence, highest first.
func Spikes(records []types.ScoredRecord, opts SpikeOptions) []types.Spike {
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 3.0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	cutoff := opts.Now.Add(-opts.Window)

	byHour := make(map[time.Time][]float64)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		hour := rec.Timestamp.UTC().Truncate(time.Hour)
		byHour[hour] = append(byHour[hour], rec.Score)
	}

	hours := make([]time.Time, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	baselineEnd := int(float64(len(hours)) * baselineFraction)
	if baselineEnd < minBaselineHours {
		return nil
	}

	baseline := make([]float64, baselineEnd)
	for i := 0; i < baselineEnd; i++ {
		baseline[i] = stat.Mean(byHour[hours[i]], nil)
	}
	baseMean := stat.Mean(baseline, nil)
	baseStd := stat.StdDev(baseline, nil)

	var spikes []types.Spike
	floor := baseMean - opts.Threshold*baseStd
	for _, hour := range hours[baselineEnd:] {
		scores := byHour[hour]
		if len(scores) <= minSpikeCount {
			continue
		}
		mean := stat.Mean(scores, nil)
		if mean >= floor {
			continue
		}
		deviation := mean - baseMean
		spikes = append(spikes, types.Spike{
			Timestamp:      hour,
			SentimentValue: mean,
			BaselineMean:   baseMean,
			Deviation:      deviation,
			MessageCount:   len(scores),
			Confidence:     math.Min(1, math.Abs(deviation)/(baseStd+1e-5)),
		})
	}
	sort.SliceStable(spikes, func(i, j int) bool {
		return spikes[i].Confidence > spikes[j].Confidence
	})
	return spikes
}
