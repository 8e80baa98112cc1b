package domain

import (
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// ApplicationStatus is the stage of a tracked application
type ApplicationStatus string

const (
	StatusViewed       ApplicationStatus = "viewed"
	StatusApplied      ApplicationStatus = "applied"
	StatusAssessment   ApplicationStatus = "assessment"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusRejected     ApplicationStatus = "rejected"
	StatusOffer        ApplicationStatus = "offer"
)

// IsTerminal reports whether no further automated transition may occur
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusOffer
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusViewed, StatusApplied, StatusAssessment, StatusInterviewing, StatusRejected, StatusOffer:
		return true
	}
	return false
}

// Job is one tracked application, owned by a user. ApplicationStatus only
// moves forward along the transition policy below; the one legal backward
// move is an explicit user reset through the CRUD API.
type Job struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	UserID            string            `json:"user_id" gorm:"not null;uniqueIndex:idx_jobs_user_url;index:idx_jobs_user_company"`
	JobURL            string            `json:"job_url" gorm:"uniqueIndex:idx_jobs_user_url"`
	CompanyName       string            `json:"company_name"`
	// CompanyNorm is maintained by the repository so company matching can
	// be a plain indexed equality instead of an ILIKE scan
	CompanyNorm       string            `json:"-" gorm:"index:idx_jobs_user_company"`
	JobTitle          string            `json:"job_title"`
	ApplicationStatus ApplicationStatus `json:"application_status" gorm:"default:viewed;index"`
	AppliedDate       *time.Time        `json:"applied_date,omitempty"`
	LastSeenAt        time.Time         `json:"last_seen_at"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NextStatus applies the automated transition policy for a classified
// email landing on a job in status `current`. ok is false when no
// transition occurs (terminal state, neutral type, or a move that would
// go backward).
//
//	viewed, applied        + application_confirmation -> applied
//	applied, interviewing  + assessment               -> assessment
//	applied, assessment    + interview_invite         -> interviewing
//	any non-terminal       + rejection                -> rejected
//	any non-terminal       + offer                    -> offer
func NextStatus(current ApplicationStatus, emailType emaildomain.EmailType) (ApplicationStatus, bool) {
	if current.IsTerminal() {
		return current, false
	}

	switch emailType {
	case emaildomain.TypeRejection:
		return StatusRejected, true
	case emaildomain.TypeOffer:
		return StatusOffer, true
	case emaildomain.TypeApplicationConfirmation:
		if current == StatusViewed {
			return StatusApplied, true
		}
		if current == StatusApplied {
			// Idempotent: a second confirmation leaves the status alone
			return current, false
		}
	case emaildomain.TypeAssessment:
		if current == StatusApplied || current == StatusInterviewing {
			return StatusAssessment, true
		}
	case emaildomain.TypeInterviewInvite:
		if current == StatusApplied || current == StatusAssessment {
			return StatusInterviewing, true
		}
	}

	return current, false
}
