// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Sentinel values used when optional record metadata is absent.
const (
	UnspecifiedDemographic = "Unspecified"
	UnknownLocation        = "Unknown"
)

// Location is the optional geographic metadata attached to a record.
type Location struct {
	Province string `json:"province,omitempty" yaml:"province,omitempty"`
	District string `json:"district,omitempty" yaml:"district,omitempty"`
}

// RecordMetadata holds the optional demographic and geographic context of a
// scored record.
type RecordMetadata struct {
	Demographic string    `json:"demographic,omitempty" yaml:"demographic,omitempty"`
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// ScoredRecord is one row of the historical fact table consumed by the
// trend and anomaly detectors. Detectors never mutate records.
type ScoredRecord struct {
	// ID uniquely identifies the record (assigned on import when empty).
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Timestamp is when the underlying comment was recorded.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Topic is the topic label or id the record was tagged with.
	Topic string `json:"topic" yaml:"topic"`

	// Score is the signed sentiment score.
	Score float64 `json:"score" yaml:"score"`

	// Source identifies where the comment came from (e.g. "survey", "social").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Metadata carries optional demographic/geographic context.
	Metadata *RecordMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DemographicGroup returns the record's demographic group, or
// UnspecifiedDemographic when metadata is absent.
func (r ScoredRecord) DemographicGroup() string {
	if r.Metadata == nil || r.Metadata.Demographic == "" {
		return UnspecifiedDemographic
	}
	return r.Metadata.Demographic
}

// Province returns the record's province, or UnknownLocation when absent.
func (r ScoredRecord) Province() string {
	if r.Metadata == nil || r.Metadata.Location == nil || r.Metadata.Location.Province == "" {
		return UnknownLocation
	}
	return r.Metadata.Location.Province
}

// District returns the record's district, or UnknownLocation when absent.
func (r ScoredRecord) District() string {
	if r.Metadata == nil || r.Metadata.Location == nil || r.Metadata.Location.District == "" {
		return UnknownLocation
	}
	return r.Metadata.Location.District
}
