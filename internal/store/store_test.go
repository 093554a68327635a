// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIdempotentSchema(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		s, err := Open(types.StoreConfig{DataDir: dir})
		if err != nil {
			t.Fatalf("Open run %d: %v", i, err)
		}
		s.Close()
	}
}

func TestSaveDocumentsDerivesRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	docs := []types.Document{
		{
			Text:       "The bus is always late",
			Language:   types.LangEnglish,
			Normalized: "bus always late",
			Sentiment:  types.SentimentResult{Class: types.SentimentNegative, Score: -0.8, Confidence: 0.8},
			Topic:      &types.TopicAssignment{ID: 0, Label: "bus late delays"},
			Entities:   []types.Entity{{Text: "bus", Label: "PRODUCT"}},
		},
		{
			Text:      "Great service today",
			Language:  types.LangEnglish,
			Sentiment: types.SentimentResult{Class: types.SentimentPositive, Score: 0.9, Confidence: 0.9},
		},
	}
	n, err := s.SaveDocuments(ctx, docs, ts, "survey")
	if err != nil {
		t.Fatalf("SaveDocuments: %v", err)
	}
	if n != 2 {
		t.Fatalf("saved %d, want 2", n)
	}

	records, err := s.Records(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, rec := range records {
		if !rec.Timestamp.Equal(ts) {
			t.Errorf("record timestamp = %v, want %v", rec.Timestamp, ts)
		}
		if rec.Source != "survey" {
			t.Errorf("record source = %q", rec.Source)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Documents != 2 || stats.Records != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Positive != 1 || stats.Negative != 1 || stats.Neutral != 0 {
		t.Errorf("class counts = %+v", stats)
	}
	if stats.Languages["en"] != 2 {
		t.Errorf("languages = %v", stats.Languages)
	}
}

func TestImportAndFilterRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	records := []types.ScoredRecord{
		{
			Timestamp: base.AddDate(0, 0, -10),
			Topic:     "fares",
			Score:     -0.2,
			Source:    "social",
		},
		{
			ID:        "fixed-id",
			Timestamp: base,
			Topic:     "delays",
			Score:     -0.7,
			Source:    "survey",
			Metadata: &types.RecordMetadata{
				Demographic: "seniors",
				Location:    &types.Location{Province: "Western", District: "Central"},
			},
		},
	}
	if _, err := s.ImportRecords(ctx, records); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}

	all, err := s.Records(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d records, want 2", len(all))
	}
	if all[0].ID == "" {
		t.Error("imported record did not get an id")
	}
	// Oldest first.
	if all[0].Topic != "fares" || all[1].Topic != "delays" {
		t.Errorf("record order: %q, %q", all[0].Topic, all[1].Topic)
	}
	if all[1].DemographicGroup() != "seniors" || all[1].Province() != "Western" || all[1].District() != "Central" {
		t.Errorf("metadata round trip: %+v", all[1].Metadata)
	}
	if all[0].Metadata != nil {
		t.Errorf("bare record grew metadata: %+v", all[0].Metadata)
	}

	recent, err := s.Records(ctx, base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Records since: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "fixed-id" {
		t.Errorf("since filter returned %+v", recent)
	}
}

func TestTopTopics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	var records []types.ScoredRecord
	for i := 0; i < 5; i++ {
		records = append(records, types.ScoredRecord{Timestamp: ts, Topic: "delays", Score: -0.5})
	}
	for i := 0; i < 3; i++ {
		records = append(records, types.ScoredRecord{Timestamp: ts, Topic: "fares", Score: 0.1})
	}
	records = append(records, types.ScoredRecord{Timestamp: ts, Score: 0.9}) // no topic
	if _, err := s.ImportRecords(ctx, records); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}

	topics, err := s.TopTopics(ctx, 10)
	if err != nil {
		t.Fatalf("TopTopics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2: %+v", len(topics), topics)
	}
	if topics[0].Name != "delays" || topics[0].Count != 5 || topics[0].Sentiment != -0.5 {
		t.Errorf("top topic = %+v", topics[0])
	}
	if topics[1].Name != "fares" || topics[1].Count != 3 {
		t.Errorf("second topic = %+v", topics[1])
	}

	limited, err := s.TopTopics(ctx, 1)
	if err != nil {
		t.Fatalf("TopTopics limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %+v", limited)
	}
}

func TestAlertsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	concerns := []types.Concern{{Topic: "delays", Change: -0.9, Confidence: 0.95, MessageVolume: 12}}
	spikes := []types.Spike{{Timestamp: ts.Add(-time.Hour), SentimentValue: -0.9, Confidence: 1, MessageCount: 10}}

	n, err := s.SaveAlerts(ctx, concerns, spikes, ts)
	if err != nil {
		t.Fatalf("SaveAlerts: %v", err)
	}
	if n != 2 {
		t.Fatalf("saved %d alerts, want 2", n)
	}

	alerts, err := s.Alerts(ctx, 10)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}

	kinds := map[string]Alert{}
	for _, a := range alerts {
		kinds[a.Kind] = a
		if !a.CreatedAt.Equal(ts) {
			t.Errorf("alert created_at = %v, want %v", a.CreatedAt, ts)
		}
	}
	var c types.Concern
	if err := json.Unmarshal(kinds[AlertConcern].Details, &c); err != nil {
		t.Fatalf("decoding concern details: %v", err)
	}
	if c.Topic != "delays" || c.MessageVolume != 12 {
		t.Errorf("concern details = %+v", c)
	}
	if kinds[AlertConcern].Topic != "delays" {
		t.Errorf("concern alert topic = %q", kinds[AlertConcern].Topic)
	}
	var sp types.Spike
	if err := json.Unmarshal(kinds[AlertSpike].Details, &sp); err != nil {
		t.Fatalf("decoding spike details: %v", err)
	}
	if sp.MessageCount != 10 {
		t.Errorf("spike details = %+v", sp)
	}
}
