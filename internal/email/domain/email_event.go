package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"jobtrail-backend/pkg/fuzzy"
)

// EmailType is the classifier's verdict for a message
type EmailType string

const (
	TypeRejection               EmailType = "rejection"
	TypeInterviewInvite         EmailType = "interview_invite"
	TypeAssessment              EmailType = "assessment"
	TypeOffer                   EmailType = "offer"
	TypeApplicationConfirmation EmailType = "application_confirmation"
	TypeFollowUp                EmailType = "follow_up"
	TypeNotJobRelated           EmailType = "not_job_related"
	TypeOther                   EmailType = "other"
)

// Metadata keys set by the classifier and the reconciler
const (
	MetaDeadline         = "deadline"
	MetaAssessmentLink   = "assessmentLink"
	MetaInferredCompany  = "inferredCompany"
	MetaInferredJobTitle = "inferredJobTitle"
	MetaJobStatusUpdated = "jobStatusUpdated"
)

// EventMetadata is an open map persisted as JSONB
type EventMetadata map[string]interface{}

// Value implements driver.Valuer
func (m EventMetadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *EventMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = EventMetadata{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	if len(bytes) == 0 {
		*m = EventMetadata{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// JobStatusUpdated reports whether this event drove a job status transition
func (m EventMetadata) JobStatusUpdated() bool {
	v, ok := m[MetaJobStatusUpdated].(bool)
	return ok && v
}

// EmailEvent is the immutable record of one ingested message. It is
// created exactly once by the reconciler and never mutated afterwards;
// deletion happens only through explicit user action.
type EmailEvent struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	UserID      string        `json:"user_id" gorm:"not null;uniqueIndex:idx_events_user_message;index:idx_events_user_dedup"`
	JobID       *string       `json:"job_id,omitempty" gorm:"index"`
	MessageID   *string       `json:"message_id,omitempty" gorm:"uniqueIndex:idx_events_user_message"`
	Subject     string        `json:"subject"`
	FromAddress string        `json:"from_address"`
	ReceivedAt  time.Time     `json:"received_at"`
	ProcessedAt time.Time     `json:"processed_at"`
	Type        EmailType     `json:"type" gorm:"index"`
	Confidence  int           `json:"confidence"`
	Metadata    EventMetadata `json:"metadata" gorm:"type:jsonb"`
	DedupKey    string        `json:"dedup_key" gorm:"index:idx_events_user_dedup"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TableName keeps the table name stable regardless of struct renames
func (EmailEvent) TableName() string { return "email_events" }

// ComputeDedupKey derives the fallback identity used when the mailbox does
// not expose a stable message id: normalized subject and sender plus a
// day-bucketed timestamp. Two distinct same-day mails with identical
// subject and sender collapse to one event; that false-duplicate risk is
// accepted in exchange for never double-processing retried fetches.
func ComputeDedupKey(msg RawMessage) string {
	day := msg.ReceivedAt.UTC().Format("2006-01-02")
	return fuzzy.Normalize(msg.Subject) + "|" + fuzzy.Normalize(msg.FromAddress) + "|" + day
}
