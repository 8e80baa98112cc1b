package usecase

import (
	"strings"

	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	jobdomain "jobtrail-backend/internal/job/domain"
	"jobtrail-backend/pkg/fuzzy"
)

// matchJob links a classified message to one of the user's tracked jobs,
// or nil when no confident link exists. Matching is two-tiered: a job URL
// appearing verbatim in the body beats everything, then a normalized
// company-name match against non-terminal jobs. Ambiguity at tier two is
// resolved toward the most recently applied job.
func (u *monitorUsecase) matchJob(userID string, msg emaildomain.RawMessage, result classifier.Result) (*jobdomain.Job, error) {
	if result.Type == emaildomain.TypeNotJobRelated {
		return nil, nil
	}

	if job, err := u.matchByURL(userID, msg); job != nil || err != nil {
		return job, err
	}
	return u.matchByCompany(userID, msg, result)
}

// matchByURL scans the message body for any of the user's tracked job
// URLs. Exact substring containment only, no fuzzing: a URL match is the
// strongest possible signal and must never fire on a lookalike.
func (u *monitorUsecase) matchByURL(userID string, msg emaildomain.RawMessage) (*jobdomain.Job, error) {
	jobs, err := u.jobRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if job.JobURL == "" {
			continue
		}
		if strings.Contains(msg.BodyText, job.JobURL) {
			return job, nil
		}
	}
	return nil, nil
}

// matchByCompany compares the sender-derived (or subject-derived) company
// against non-terminal jobs. Terminal jobs are excluded so a late
// follow-up from a rejected application never resurrects it.
func (u *monitorUsecase) matchByCompany(userID string, msg emaildomain.RawMessage, result classifier.Result) (*jobdomain.Job, error) {
	company, _ := result.Metadata[emaildomain.MetaInferredCompany].(string)
	if company == "" {
		return nil, nil
	}

	norm := fuzzy.NormalizeCompany(company)
	if norm == "" {
		return nil, nil
	}

	jobs, err := u.jobRepo.FindOpenByCompany(userID, norm)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	// Repository orders by applied_date descending, nulls last
	return jobs[0], nil
}
