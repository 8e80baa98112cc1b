package domain

import "time"

// MonitoringState is the per-user record driving the mailbox polling loop.
// Running is the mutual-exclusion flag between a scheduled tick and an
// on-demand check: it is true for at most one in-flight cycle per user.
type MonitoringState struct {
	UserID          string     `json:"user_id" gorm:"primaryKey"`
	Active          bool       `json:"active"`
	IntervalMinutes int        `json:"interval_minutes"`
	Watermark       time.Time  `json:"watermark"`
	LastCheckedAt   *time.Time `json:"last_checked_at,omitempty"`
	Running         bool       `json:"running"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName keeps the table name stable regardless of struct renames
func (MonitoringState) TableName() string { return "monitoring_states" }

// CycleSummary is returned by an on-demand mailbox check
type CycleSummary struct {
	ProcessedCount int `json:"processed_count"` // newly ingested events
	MatchedCount   int `json:"matched_count"`   // events linked to a job
	StatusUpdates  int `json:"status_updates"`  // job transitions applied
}
