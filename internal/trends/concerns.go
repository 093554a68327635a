// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends detects longitudinal patterns in scored records:
// topics whose sentiment is declining, hours where sentiment dropped
// sharply below baseline, and demographic or geographic groups that
// diverge from the overall mean.
package trends

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

// ConcernOptions tunes emerging-concern detection. Zero values take the
// documented defaults.
type ConcernOptions struct {
	// Window is the recency window (default 7 days).
	Window time.Duration

	// Threshold is the stddev multiplier a decline must exceed (default 2.0).
	Threshold float64

	// Now anchors the recency window; zero means time.Now().
	Now time.Time
}

const (
	minConcernDays  = 3
	minConcernCount = 10
	concernMAWindow = 3
)

// EmergingConcerns finds topics whose daily mean sentiment has declined
// significantly within the window. A topic qualifies when it has activity
// on at least three distinct days and at least ten records in total, and
// the trailing 3-day moving average of its daily means ends more than
// Threshold standard deviations below where it started. Results are sorted
// by confidence, most significant first.
func EmergingConcerns(records []types.ScoredRecord, opts ConcernOptions) []types.Concern {
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 2.0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	cutoff := opts.Now.Add(-opts.Window)

	type daily struct {
		scores map[string][]float64 // day -> scores
		total  int
	}
	byTopic := make(map[string]*daily)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) || rec.Topic == "" {
			continue
		}
		d := byTopic[rec.Topic]
		if d == nil {
			d = &daily{scores: make(map[string][]float64)}
			byTopic[rec.Topic] = d
		}
		day := rec.Timestamp.UTC().Format("2006-01-02")
		d.scores[day] = append(d.scores[day], rec.Score)
		d.total++
	}

	var concerns []types.Concern
	for topic, d := range byTopic {
		if len(d.scores) < minConcernDays || d.total < minConcernCount {
			continue
		}
		days := make([]string, 0, len(d.scores))
		for day := range d.scores {
			days = append(days, day)
		}
		sort.Strings(days)

		means := make([]float64, len(days))
		for i, day := range days {
			means[i] = stat.Mean(d.scores[day], nil)
		}

		ma := movingAverage(means, concernMAWindow)
		if len(ma) < 2 {
			continue
		}
		start, end := ma[0], ma[len(ma)-1]
		spread := stat.PopStdDev(means, nil)
		if end >= start-opts.Threshold*spread {
			continue
		}
		change := end - start
		concerns = append(concerns, types.Concern{
			Topic:          topic,
			SentimentStart: start,
			SentimentEnd:   end,
			Change:         change,
			MessageVolume:  d.total,
			Confidence:     math.Min(1, math.Abs(change)/(spread+1e-5)),
		})
	}

	sort.SliceStable(concerns, func(i, j int) bool {
		return concerns[i].Confidence > concerns[j].Confidence
	})
	return concerns
}

// movingAverage returns the trailing moving average of xs with the given
// window. Output length is len(xs)-window+1; shorter inputs yield nil.
func movingAverage(xs []float64, window int) []float64 {
	if len(xs) < window {
		return nil
	}
	out := make([]float64, 0, len(xs)-window+1)
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}
