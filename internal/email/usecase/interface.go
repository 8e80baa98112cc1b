package usecase

import (
	"context"
	"errors"

	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/repository"
	jobdomain "jobtrail-backend/internal/job/domain"
)

// ErrAlreadyRunning is returned by CheckNow when a cycle is already in
// flight for the user. Callers retry later; cycles are never queued.
var ErrAlreadyRunning = errors.New("a mailbox check is already running")

// ErrNoMailbox is returned when the user has not connected any mailbox
var ErrNoMailbox = errors.New("no mailbox connected")

// Notifier receives reconciler outcomes after commit. Implementations are
// fire-and-forget: they must never fail the caller.
type Notifier interface {
	EmailEventCreated(userID string, event *emaildomain.EmailEvent)
	JobStatusChanged(userID string, job *jobdomain.Job, event *emaildomain.EmailEvent)
}

// MonitorUsecase is the mailbox monitoring engine: polling, ingestion,
// classification, dedup, job matching and status reconciliation
type MonitorUsecase interface {
	// StartMonitoring activates the polling loop. Calling it while already
	// active is an idempotent no-op that reschedules with the new interval.
	StartMonitoring(userID string, intervalMinutes int) error
	// StopMonitoring deactivates the loop. An in-flight cycle finishes.
	StopMonitoring(userID string) error
	// CheckNow runs one cycle immediately, failing fast with
	// ErrAlreadyRunning instead of overlapping a scheduled tick
	CheckNow(ctx context.Context, userID string) (*emaildomain.CycleSummary, error)
	GetMonitoringStatus(userID string) (*emaildomain.MonitoringState, error)

	ListEmailEvents(userID string, filters repository.EventFilters, limit, offset int) ([]*emaildomain.EmailEvent, int64, error)
	DeleteEmailEvent(userID, eventID string) error
	BulkDeleteEmailEvents(userID string, eventIDs []string) (int64, error)

	// ReloadClassifierRules re-reads the external rule table
	ReloadClassifierRules() error
	// ResumeActiveLoops restarts loops for users that were active before a
	// restart, clearing any run flag a crash left behind
	ResumeActiveLoops() error
	Shutdown()

	SetNotifier(n Notifier)
}
