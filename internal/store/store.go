// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists analyzed documents, scored records, and alerts
// in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sentiment-engine/pkg/types"
)

const dbFile = "sentiment.db"

// timeLayout is fixed-width so stored timestamps compare correctly as
// text in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the analytics SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.DataDir/sentiment.db,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			original_text TEXT NOT NULL,
			language TEXT NOT NULL,
			processed_text TEXT,
			sentiment TEXT NOT NULL,
			score REAL NOT NULL,
			confidence REAL NOT NULL,
			topic_label TEXT,
			entities TEXT,
			misinformation TEXT,
			source TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			topic TEXT,
			score REAL NOT NULL,
			source TEXT,
			demographic TEXT,
			province TEXT,
			district TEXT,
			document_id TEXT REFERENCES documents(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_timestamp ON records(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_records_topic ON records(topic)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			topic TEXT,
			confidence REAL NOT NULL,
			details TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveDocuments persists a batch of analyzed documents timestamped at ts
// and derives one scored record per document for the analytics tables.
// Returns the number of documents saved.
func (s *Store) SaveDocuments(ctx context.Context, docs []types.Document, ts time.Time, source string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	docStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, created_at, original_text, language, processed_text,
			sentiment, score, confidence, topic_label, entities, misinformation, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing document insert: %w", err)
	}
	defer docStmt.Close()

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, timestamp, topic, score, source, demographic, province, district, document_id)
		 VALUES (?, ?, ?, ?, ?, '', '', '', ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	when := ts.UTC().Format(timeLayout)
	for _, doc := range docs {
		docID := uuid.NewString()
		topicLabel := ""
		if doc.Topic != nil {
			topicLabel = doc.Topic.Label
		}
		entitiesJSON, _ := json.Marshal(doc.Entities)
		misinfoJSON, _ := json.Marshal(doc.Misinformation)

		if _, err := docStmt.ExecContext(ctx,
			docID, when, doc.Text, string(doc.Language), doc.Normalized,
			string(doc.Sentiment.Class), doc.Sentiment.Score, doc.Sentiment.Confidence,
			topicLabel, string(entitiesJSON), string(misinfoJSON), source,
		); err != nil {
			return 0, fmt.Errorf("inserting document: %w", err)
		}

		if _, err := recStmt.ExecContext(ctx,
			uuid.NewString(), when, topicLabel, doc.Sentiment.Score, source, docID,
		); err != nil {
			return 0, fmt.Errorf("inserting derived record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing documents: %w", err)
	}
	return len(docs), nil
}

// ImportRecords persists externally produced scored records, assigning
// IDs to records that lack one. Returns the number of records imported.
func (s *Store) ImportRecords(ctx context.Context, records []types.ScoredRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO records (id, timestamp, topic, score, source, demographic, province, district, document_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		demographic, province, district := "", "", ""
		if rec.Metadata != nil {
			demographic = rec.Metadata.Demographic
			if rec.Metadata.Location != nil {
				province = rec.Metadata.Location.Province
				district = rec.Metadata.Location.District
			}
		}
		if _, err := stmt.ExecContext(ctx,
			id, rec.Timestamp.UTC().Format(timeLayout), rec.Topic, rec.Score,
			rec.Source, demographic, province, district,
		); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing records: %w", err)
	}
	return len(records), nil
}

// Records returns scored records at or after since, oldest first. A zero
// since returns everything.
func (s *Store) Records(ctx context.Context, since time.Time) ([]types.ScoredRecord, error) {
	query := `SELECT id, timestamp, topic, score, source, demographic, province, district
		FROM records`
	args := []any{}
	if !since.IsZero() {
		query += ` WHERE timestamp >= ?`
		args = append(args, since.UTC().Format(timeLayout))
	}
	query += ` ORDER BY timestamp`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.ScoredRecord
	for rows.Next() {
		var rec types.ScoredRecord
		var ts, demographic, province, district string
		if err := rows.Scan(&rec.ID, &ts, &rec.Topic, &rec.Score, &rec.Source,
			&demographic, &province, &district); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing record timestamp %q: %w", ts, err)
		}
		if demographic != "" || province != "" || district != "" {
			rec.Metadata = &types.RecordMetadata{Demographic: demographic}
			if province != "" || district != "" {
				rec.Metadata.Location = &types.Location{Province: province, District: district}
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Overview summarizes the stored corpus.
type Overview struct {
	Documents        int            `json:"documents"`
	Records          int            `json:"records"`
	OverallSentiment float64        `json:"overall_sentiment"`
	Positive         int            `json:"positive"`
	Neutral          int            `json:"neutral"`
	Negative         int            `json:"negative"`
	Languages        map[string]int `json:"languages"`
}

// Stats computes corpus-level counts and the overall mean sentiment.
func (s *Store) Stats(ctx context.Context) (Overview, error) {
	var o Overview
	o.Languages = make(map[string]int)

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents`).Scan(&o.Documents); err != nil {
		return o, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(avg(score), 0) FROM records`).Scan(&o.Records, &o.OverallSentiment); err != nil {
		return o, fmt.Errorf("counting records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sentiment, count(*) FROM documents GROUP BY sentiment`)
	if err != nil {
		return o, fmt.Errorf("counting sentiment classes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var class string
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return o, fmt.Errorf("scanning sentiment count: %w", err)
		}
		switch types.SentimentClass(class) {
		case types.SentimentPositive:
			o.Positive = n
		case types.SentimentNegative:
			o.Negative = n
		default:
			o.Neutral = n
		}
	}
	if err := rows.Err(); err != nil {
		return o, err
	}

	langRows, err := s.db.QueryContext(ctx,
		`SELECT language, count(*) FROM documents GROUP BY language`)
	if err != nil {
		return o, fmt.Errorf("counting languages: %w", err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var code string
		var n int
		if err := langRows.Scan(&code, &n); err != nil {
			return o, fmt.Errorf("scanning language count: %w", err)
		}
		o.Languages[code] = n
	}
	return o, langRows.Err()
}

// TopTopics returns the most mentioned topics with their mean sentiment,
// highest volume first.
func (s *Store) TopTopics(ctx context.Context, limit int) ([]types.TopicSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic, count(*), avg(score) FROM records
		 WHERE topic != '' GROUP BY topic
		 ORDER BY count(*) DESC, topic LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []types.TopicSummary
	for rows.Next() {
		var t types.TopicSummary
		if err := rows.Scan(&t.Name, &t.Count, &t.Sentiment); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Alert kinds persisted by SaveAlerts.
const (
	AlertConcern = "concern"
	AlertSpike   = "spike"
)

// Alert is a persisted detector finding.
type Alert struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Kind       string          `json:"kind"`
	Topic      string          `json:"topic,omitempty"`
	Confidence float64         `json:"confidence"`
	Details    json.RawMessage `json:"details"`
}

// SaveAlerts persists detector findings created at ts. Returns the number
// of alerts written.
func (s *Store) SaveAlerts(ctx context.Context, concerns []types.Concern, spikes []types.Spike, ts time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO alerts (id, created_at, kind, topic, confidence, details)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing alert insert: %w", err)
	}
	defer stmt.Close()

	when := ts.UTC().Format(timeLayout)
	saved := 0
	for _, c := range concerns {
		details, _ := json.Marshal(c)
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), when, AlertConcern, c.Topic, c.Confidence, string(details),
		); err != nil {
			return 0, fmt.Errorf("inserting concern alert: %w", err)
		}
		saved++
	}
	for _, sp := range spikes {
		details, _ := json.Marshal(sp)
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), when, AlertSpike, "", sp.Confidence, string(details),
		); err != nil {
			return 0, fmt.Errorf("inserting spike alert: %w", err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing alerts: %w", err)
	}
	return saved, nil
}

// Alerts returns the most recent alerts, newest first.
func (s *Store) Alerts(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, kind, topic, confidence, details FROM alerts
		 ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var created, details string
		if err := rows.Scan(&a.ID, &created, &a.Kind, &a.Topic, &a.Confidence, &details); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		a.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parsing alert timestamp %q: %w", created, err)
		}
		a.Details = json.RawMessage(details)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
