package usecase

import (
	"time"

	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	jobdomain "jobtrail-backend/internal/job/domain"

	"github.com/google/uuid"
)

// reconcile turns one classified, matched message into a persisted email
// event and, when the transition policy allows it, a job status update.
// Event and status land in a single transaction; notifications go out
// only after the commit.
func (u *monitorUsecase) reconcile(userID string, msg emaildomain.RawMessage, result classifier.Result, job *jobdomain.Job, summary *emaildomain.CycleSummary) error {
	metadata := result.Metadata
	if metadata == nil {
		metadata = emaildomain.EventMetadata{}
	}
	// Recorded on every event, matched or not, so consumers of the raw
	// metadata never have to treat an absent key specially
	metadata[emaildomain.MetaJobStatusUpdated] = false

	event := &emaildomain.EmailEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		Subject:     msg.Subject,
		FromAddress: msg.FromAddress,
		ReceivedAt:  msg.ReceivedAt,
		ProcessedAt: time.Now(),
		Type:        result.Type,
		Confidence:  result.Confidence,
		Metadata:    metadata,
		DedupKey:    emaildomain.ComputeDedupKey(msg),
	}
	if msg.MessageID != "" {
		id := msg.MessageID
		event.MessageID = &id
	}

	var statusJob *jobdomain.Job
	var newStatus jobdomain.ApplicationStatus

	if job != nil {
		event.JobID = &job.ID
		if next, ok := jobdomain.NextStatus(job.ApplicationStatus, result.Type); ok {
			statusJob = job
			newStatus = next
			metadata[emaildomain.MetaJobStatusUpdated] = true
		}
	}

	if err := u.eventRepo.CreateWithJobStatus(event, statusJob, newStatus); err != nil {
		return err
	}

	summary.ProcessedCount++
	if job != nil {
		summary.MatchedCount++
	}
	if statusJob != nil {
		summary.StatusUpdates++
		statusJob.ApplicationStatus = newStatus
		statusJob.LastSeenAt = event.ProcessedAt
	}

	if u.notifier != nil {
		u.notifier.EmailEventCreated(userID, event)
		if statusJob != nil {
			u.notifier.JobStatusChanged(userID, statusJob, event)
		}
	}
	return nil
}
