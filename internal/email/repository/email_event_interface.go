package repository

import (
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"
	jobdomain "jobtrail-backend/internal/job/domain"
)

// EventFilters narrows listings of email events
type EventFilters struct {
	Type        string // filter by EmailType
	JobID       string // filter by matched job
	MatchedOnly bool   // only events linked to a job
	Query       string // fuzzy match against subject and sender
}

// EmailEventRepository defines the interface for the email event store.
// Events are append-only: there is no update operation by design.
type EmailEventRepository interface {
	// ExistsByMessageID is the authoritative duplicate check when the
	// mailbox exposes a stable message id
	ExistsByMessageID(userID, messageID string) (bool, error)
	// ExistsByDedupKey is the fallback duplicate check, bounded to events
	// received after `since`
	ExistsByDedupKey(userID, dedupKey string, since time.Time) (bool, error)
	// CreateWithJobStatus persists the event and, when job is non-nil,
	// the job's new application status in one transaction. Partial
	// application is impossible: either both are visible or neither.
	CreateWithJobStatus(event *emaildomain.EmailEvent, job *jobdomain.Job, newStatus jobdomain.ApplicationStatus) error
	FindByID(userID, id string) (*emaildomain.EmailEvent, error)
	ListByUser(userID string, filters EventFilters, limit, offset int) ([]*emaildomain.EmailEvent, int64, error)
	Delete(userID, id string) error
	BulkDelete(userID string, ids []string) (int64, error)
}
